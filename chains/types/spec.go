package types

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNodeAddress    = "http://localhost:20000"
	DefaultExpiry         = 7200
	DefaultConnectTimeout = 10 * time.Second
	DefaultResultsDir     = "/tmp/txgen"
)

// LoadTestSpec is the shared configuration of a run. Every strategy consumes it; the kind specific
// settings live in StrategyCfg.
type LoadTestSpec struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Kind        string `yaml:"kind" json:"kind"` // "transfer" | "mint" | "asset_transfer" (discriminator)
	// NodeAddress is the JSON-RPC endpoint of the node. https endpoints use TLS.
	NodeAddress string `yaml:"node_address" json:"node_address"`
	// SenderKeyFile holds the address and signing key of the sending account.
	SenderKeyFile string `yaml:"sender_key_file" json:"sender_key_file"`
	// TPS is the target number of submitted transactions per second.
	TPS uint16 `yaml:"tps" json:"tps"`
	// Expiry of transactions, in seconds after they were built.
	Expiry uint32 `yaml:"expiry" json:"expiry"`
	// MaxTxs stops the run gracefully after this many submissions. 0 runs until failure or shutdown.
	MaxTxs         int            `yaml:"max_txs,omitempty" json:"max_txs,omitempty"`
	ConnectTimeout time.Duration  `yaml:"connect_timeout,omitempty" json:"connect_timeout,omitempty"`
	MetricsAddr    string         `yaml:"metrics_addr,omitempty" json:"metrics_addr,omitempty"`
	ResultsDir     string         `yaml:"results_dir,omitempty" json:"results_dir,omitempty"`
	StrategyCfg    StrategyConfig `yaml:"-" json:"-"` // decoded via custom UnmarshalYAML
}

type loadTestSpecAlias LoadTestSpec

func (s *LoadTestSpec) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		loadTestSpecAlias `yaml:",inline"`
		SpecNode          yaml.Node `yaml:"strategy_config"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	*s = LoadTestSpec(raw.loadTestSpecAlias)

	cfg, err := NewForKind(s.Kind)
	if err != nil {
		return err
	}
	// an absent strategy_config leaves the zero node, which decodes to nothing.
	if !raw.SpecNode.IsZero() {
		if err := raw.SpecNode.Decode(cfg); err != nil {
			return fmt.Errorf("decode strategy_config (%s): %w", s.Kind, err)
		}
	}
	s.StrategyCfg = cfg
	return nil
}

func (s LoadTestSpec) MarshalYAML() (any, error) {
	type Alias LoadTestSpec
	out := struct {
		Alias          `yaml:",inline"`
		StrategyConfig any `yaml:"strategy_config,omitempty" json:"strategy_config"`
	}{
		Alias:          Alias(s),
		StrategyConfig: s.StrategyCfg, // concrete value behind the interface
	}
	return out, nil
}

// ApplyDefaults fills optional fields that were left empty.
func (s *LoadTestSpec) ApplyDefaults() {
	if s.NodeAddress == "" {
		s.NodeAddress = DefaultNodeAddress
	}
	if s.Expiry == 0 {
		s.Expiry = DefaultExpiry
	}
	if s.ConnectTimeout == 0 {
		s.ConnectTimeout = DefaultConnectTimeout
	}
	if s.ResultsDir == "" {
		s.ResultsDir = DefaultResultsDir
	}
}

// Validate validates the LoadTestSpec and returns an error if it's invalid.
// It performs no I/O, so every configuration error surfaces before the node is contacted.
func (s *LoadTestSpec) Validate() error {
	if s.Kind == "" {
		return fmt.Errorf("kind must be specified")
	}

	if s.NodeAddress == "" {
		return fmt.Errorf("node address must be specified")
	}

	if s.SenderKeyFile == "" {
		return fmt.Errorf("sender key file must be specified")
	}

	if s.TPS == 0 {
		return fmt.Errorf("tps must be greater than zero")
	}

	if s.MaxTxs < 0 {
		return fmt.Errorf("max_txs must not be negative")
	}

	if s.StrategyCfg == nil {
		return fmt.Errorf("missing strategy config for kind %q", s.Kind)
	}

	if err := s.StrategyCfg.Validate(*s); err != nil {
		return fmt.Errorf("validating strategy config: %w", err)
	}

	return nil
}

// SendInterval is the pacing period derived from the target rate.
func (s LoadTestSpec) SendInterval() time.Duration {
	if s.TPS == 0 {
		return 0
	}
	return time.Second / time.Duration(s.TPS)
}
