package txfactory

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/skip-mev/txgen/chains/ledger/contracts"
	"github.com/skip-mev/txgen/chains/ledger/types"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

const (
	nftInitEnergy types.Energy = 2397
	nftMintEnergy types.Energy = 3500
)

// ErrTokenIDsExhausted is returned once every u32 token id has been minted.
var ErrTokenIDsExhausted = errors.New("token ids exhausted")

var (
	_ Generator    = &MintGenerator{}
	_ Bootstrapped = &MintGenerator{}
)

// MintGenerator mints a fresh NFT to the sender with every transaction. Token ids start at 0.
type MintGenerator struct {
	args      CommonArgs
	contract  types.ContractAddress
	receive   contracts.ReceiveName
	nonce     types.Nonce
	nextID    uint64
	bootstrap []loadtesttypes.BootstrapTx
}

// NewMintGenerator deploys and initializes the NFT program.
func NewMintGenerator(ctx context.Context, args CommonArgs, cfg types.MintConfig) (*MintGenerator, error) {
	info, err := contractInfo(cfg.ContractConfig, contracts.NFTInitName, nftInitEnergy)
	if err != nil {
		return nil, err
	}
	receive, err := contracts.NewReceiveName(contracts.NFTMintReceiveName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}

	nonce, err := initialNonce(ctx, args)
	if err != nil {
		return nil, err
	}

	deployer := NewDeployer(args)
	contract, err := deployer.DeployAndInit(ctx, info, &nonce)
	if err != nil {
		return nil, fmt.Errorf("could not deploy/init the contract: %w", err)
	}

	args.logger().Info("mint generator ready", zap.Stringer("contract", contract), zap.Uint64("nonce", uint64(nonce)))

	return &MintGenerator{
		args:      args,
		contract:  contract,
		receive:   receive,
		nonce:     nonce,
		bootstrap: deployer.Sent(),
	}, nil
}

func (g *MintGenerator) Generate() (*types.AccountTransaction, error) {
	if g.nextID > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %w", types.ErrGeneration, ErrTokenIDsExhausted)
	}
	params := contracts.NFTMintParams{
		Owner:  contracts.AccountAddr(g.args.Wallet.Address()),
		Tokens: []contracts.TokenID{contracts.TokenIDFromUint32(uint32(g.nextID))}, //nolint:gosec // G115: checked above
	}
	message, err := contracts.ParameterFromSerial(params)
	if err != nil {
		return nil, fmt.Errorf("%w: mint parameter: %w", types.ErrGeneration, err)
	}
	tx, err := g.args.Wallet.CreateUpdateContract(g.contract, g.receive, message, nftMintEnergy, g.nonce, g.args.expiry())
	if err != nil {
		return nil, fmt.Errorf("%w: mint (nonce = %d): %w", types.ErrGeneration, g.nonce, err)
	}
	g.nonce = g.nonce.Next()
	g.nextID++
	return tx, nil
}

func (g *MintGenerator) MsgType() loadtesttypes.MsgType {
	return types.MsgMint
}

func (g *MintGenerator) BootstrapTxs() []loadtesttypes.BootstrapTx {
	return g.bootstrap
}

// Contract returns the address of the NFT program instance.
func (g *MintGenerator) Contract() types.ContractAddress {
	return g.contract
}
