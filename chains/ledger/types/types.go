package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

// Strategy kinds, used as the `kind` of a LoadTestSpec.
const (
	KindTransfer      = "transfer"
	KindMint          = "mint"
	KindAssetTransfer = "asset_transfer"
)

const (
	// MsgTransfer moves a fixed amount of the native currency to the next receiver.
	MsgTransfer loadtesttypes.MsgType = "MsgTransfer"
	// MsgMint mints one fresh NFT to the sender.
	MsgMint loadtesttypes.MsgType = "MsgMint"
	// MsgAssetTransfer transfers one unit of the multi asset token to the next receiver.
	MsgAssetTransfer loadtesttypes.MsgType = "MsgAssetTransfer"

	// Bootstrap transactions.
	MsgDeployModule loadtesttypes.MsgType = "MsgDeployModule"
	MsgInitContract loadtesttypes.MsgType = "MsgInitContract"
	MsgMintSupply   loadtesttypes.MsgType = "MsgMintSupply"
)

// SentTx is the outcome of one submission.
type SentTx struct {
	TxHash  TransactionHash
	Nonce   Nonce
	Energy  Energy
	MsgType loadtesttypes.MsgType
	Err     error
	Latency time.Duration
}

// SelectionKind is the policy used to pick the receiver of the next transaction.
type SelectionKind int

const (
	SelectRoundRobin SelectionKind = iota
	SelectRandom
	SelectPartitioned
)

// SelectionMode is a parsed `mode` setting. Partitions is only set for SelectPartitioned.
type SelectionMode struct {
	Kind       SelectionKind
	Partitions uint64
}

func (m SelectionMode) String() string {
	switch m.Kind {
	case SelectRandom:
		return "random"
	case SelectRoundRobin:
		return "round_robin"
	case SelectPartitioned:
		return strconv.FormatUint(m.Partitions, 10)
	default:
		return fmt.Sprintf("unknown(%d)", int(m.Kind))
	}
}

// ParseSelectionMode parses "round_robin" (the default when empty), "random" or a partition count.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "round_robin", "round-robin", "roundrobin":
		return SelectionMode{Kind: SelectRoundRobin}, nil
	case "random":
		return SelectionMode{Kind: SelectRandom}, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return SelectionMode{}, fmt.Errorf("%w: invalid mode %q: expected random, round_robin or a partition count", ErrConfig, s)
	}
	if n == 0 {
		return SelectionMode{}, fmt.Errorf("%w: partition count must be greater than zero", ErrConfig)
	}
	return SelectionMode{Kind: SelectPartitioned, Partitions: n}, nil
}

// TransferConfig configures the native currency transfer strategy.
type TransferConfig struct {
	// ReceiversFile is a JSON array of addresses. When empty the accounts of the last finalized block are used.
	ReceiversFile string `yaml:"receivers_file,omitempty" json:"receivers_file,omitempty"`
	// Amount is sent with every transfer, in whole units with up to six decimals.
	Amount string `yaml:"amount" json:"amount"`
	// Mode is "round_robin" (default), "random" or a partition count.
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`
	// Seed makes random selection reproducible.
	Seed *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

func (c TransferConfig) Validate(_ loadtesttypes.LoadTestSpec) error {
	if _, err := ParseAmount(c.Amount); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := ParseSelectionMode(c.Mode); err != nil {
		return err
	}
	return nil
}

func (TransferConfig) IsStrategyConfig() {}

// ContractConfig is shared by the strategies that deploy a program before generating transactions.
type ContractConfig struct {
	// ModulePath is the versioned program module to deploy.
	ModulePath string `yaml:"module_path" json:"module_path"`
	// InitParam is passed to the init function as a u16 when set.
	InitParam *uint16 `yaml:"init_param,omitempty" json:"init_param,omitempty"`
}

func (c ContractConfig) validate() error {
	if strings.TrimSpace(c.ModulePath) == "" {
		return fmt.Errorf("%w: module path must be specified", ErrConfig)
	}
	return nil
}

// MintConfig configures the NFT mint strategy.
type MintConfig struct {
	ContractConfig `yaml:",inline"`
}

func (c MintConfig) Validate(_ loadtesttypes.LoadTestSpec) error {
	return c.validate()
}

func (MintConfig) IsStrategyConfig() {}

// AssetTransferConfig configures the multi asset transfer strategy.
type AssetTransferConfig struct {
	ContractConfig `yaml:",inline"`
	// ReceiversFile is a JSON array of addresses. When empty the accounts of the last finalized block are used.
	ReceiversFile string `yaml:"receivers_file,omitempty" json:"receivers_file,omitempty"`
}

func (c AssetTransferConfig) Validate(_ loadtesttypes.LoadTestSpec) error {
	return c.validate()
}

func (AssetTransferConfig) IsStrategyConfig() {}

func init() {
	Register()
}

func Register() {
	loadtesttypes.Register(KindTransfer, func() loadtesttypes.StrategyConfig { return &TransferConfig{} })
	loadtesttypes.Register(KindMint, func() loadtesttypes.StrategyConfig { return &MintConfig{} })
	loadtesttypes.Register(KindAssetTransfer, func() loadtesttypes.StrategyConfig { return &AssetTransferConfig{} })
}
