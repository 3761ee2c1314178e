package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	ledgertypes "github.com/skip-mev/txgen/chains/ledger/types"
	"github.com/skip-mev/txgen/chains/types"
	"github.com/skip-mev/txgen/config"
)

// EnvPrefix prefixes the environment variables every flag can be set from, e.g. TXGEN_MAX_TXS.
const EnvPrefix = "TXGEN"

const (
	flagNode           = "node"
	flagSender         = "sender"
	flagTPS            = "tps"
	flagExpiry         = "expiry"
	flagMaxTxs         = "max-txs"
	flagConnectTimeout = "connect-timeout"
	flagMetricsAddr    = "metrics-addr"
	flagResultsDir     = "results-dir"
	flagConfig         = "config"

	flagReceivers = "receivers"
	flagAmount    = "amount"
	flagMode      = "mode"
	flagSeed      = "seed"
	flagModule    = "module"
	flagInitParam = "init-param"
)

// runFunc executes a validated spec.
type runFunc func(ctx context.Context, spec types.LoadTestSpec) error

func newRootCmd(run runFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "txgen",
		Short:         "A transaction generator used for testing performance of the chain.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.String(flagNode, types.DefaultNodeAddress, "JSON-RPC interface of the node.")
	flags.String(flagSender, "", "Path to the key file of the sending account.")
	flags.Uint16(flagTPS, 0, "Transactions to submit per second.")
	flags.Uint32(flagExpiry, types.DefaultExpiry, "Expiry of transactions in seconds.")
	flags.Int(flagMaxTxs, 0, "Stop after this many transactions (0 runs until interrupted).")
	flags.Duration(flagConnectTimeout, types.DefaultConnectTimeout, "Timeout for connecting to the node.")
	flags.String(flagMetricsAddr, "", "Address to serve prometheus metrics on (disabled when empty).")
	flags.String(flagResultsDir, types.DefaultResultsDir, "Directory the results file is written to.")

	root.AddCommand(
		transferCmd(run),
		mintCmd(run),
		assetTransferCmd(run),
		runCmd(run),
	)
	return root
}

func transferCmd(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send native currency to a list of receivers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg := &ledgertypes.TransferConfig{
				ReceiversFile: v.GetString(flagReceivers),
				Amount:        v.GetString(flagAmount),
				Mode:          v.GetString(flagMode),
			}
			if v.IsSet(flagSeed) {
				seed := v.GetInt64(flagSeed)
				cfg.Seed = &seed
			}
			return execute(cmd.Context(), run, specFromViper(v, ledgertypes.KindTransfer, cfg))
		},
	}
	flags := cmd.Flags()
	flags.String(flagReceivers, "", "JSON file with the receiving addresses (all accounts on chain when empty).")
	flags.String(flagAmount, "0", "Amount to send in each transaction.")
	flags.String(flagMode, "", "Receiver selection: round_robin (default), random or a partition count. "+
		"A partition count splits the receivers by validator id into that many chunks.")
	flags.Int64(flagSeed, 0, "Seed for random receiver selection.")
	return cmd
}

func mintCmd(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Deploy a CIS-2 NFT contract and mint tokens.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg := &ledgertypes.MintConfig{ContractConfig: contractConfigFromViper(v)}
			return execute(cmd.Context(), run, specFromViper(v, ledgertypes.KindMint, cfg))
		},
	}
	contractFlags(cmd.Flags())
	return cmd
}

func assetTransferCmd(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset-transfer",
		Short: "Deploy a CIS-2 multi asset contract and transfer tokens to a list of receivers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg := &ledgertypes.AssetTransferConfig{
				ContractConfig: contractConfigFromViper(v),
				ReceiversFile:  v.GetString(flagReceivers),
			}
			return execute(cmd.Context(), run, specFromViper(v, ledgertypes.KindAssetTransfer, cfg))
		},
	}
	contractFlags(cmd.Flags())
	cmd.Flags().String(flagReceivers, "", "JSON file with the receiving addresses (all accounts on chain when empty).")
	return cmd
}

func runCmd(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a load test described by a YAML spec file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString(flagConfig)
			if err != nil {
				return err
			}
			spec, err := loadSpec(config.Config{ConfigPath: path})
			if err != nil {
				return err
			}
			overrideFromFlags(&spec, cmd.Flags())
			return execute(cmd.Context(), run, spec)
		},
	}
	cmd.Flags().String(flagConfig, "", "Path to the load test spec (YAML).")
	_ = cmd.MarkFlagRequired(flagConfig)
	return cmd
}

func contractFlags(flags *pflag.FlagSet) {
	flags.String(flagModule, "", "Path to the versioned contract module to deploy.")
	flags.Uint16(flagInitParam, 0, "Parameter passed to the contract init function.")
}

// newViper binds the flags of a parsed command, and their TXGEN_ environment variables.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

func specFromViper(v *viper.Viper, kind string, cfg types.StrategyConfig) types.LoadTestSpec {
	return types.LoadTestSpec{
		Name:           kind,
		Kind:           kind,
		NodeAddress:    v.GetString(flagNode),
		SenderKeyFile:  v.GetString(flagSender),
		TPS:            v.GetUint16(flagTPS),
		Expiry:         v.GetUint32(flagExpiry),
		MaxTxs:         v.GetInt(flagMaxTxs),
		ConnectTimeout: v.GetDuration(flagConnectTimeout),
		MetricsAddr:    v.GetString(flagMetricsAddr),
		ResultsDir:     v.GetString(flagResultsDir),
		StrategyCfg:    cfg,
	}
}

func contractConfigFromViper(v *viper.Viper) ledgertypes.ContractConfig {
	cfg := ledgertypes.ContractConfig{ModulePath: v.GetString(flagModule)}
	if v.IsSet(flagInitParam) {
		param := v.GetUint16(flagInitParam)
		cfg.InitParam = &param
	}
	return cfg
}

func loadSpec(cfg config.Config) (types.LoadTestSpec, error) {
	var spec types.LoadTestSpec
	data, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		return spec, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("failed to parse config file: %w", err)
	}
	return spec, nil
}

// overrideFromFlags applies the shared flags given explicitly on the command line over a spec file.
func overrideFromFlags(spec *types.LoadTestSpec, flags *pflag.FlagSet) {
	if flags.Changed(flagNode) {
		spec.NodeAddress, _ = flags.GetString(flagNode)
	}
	if flags.Changed(flagSender) {
		spec.SenderKeyFile, _ = flags.GetString(flagSender)
	}
	if flags.Changed(flagTPS) {
		spec.TPS, _ = flags.GetUint16(flagTPS)
	}
	if flags.Changed(flagExpiry) {
		spec.Expiry, _ = flags.GetUint32(flagExpiry)
	}
	if flags.Changed(flagMaxTxs) {
		spec.MaxTxs, _ = flags.GetInt(flagMaxTxs)
	}
	if flags.Changed(flagConnectTimeout) {
		spec.ConnectTimeout, _ = flags.GetDuration(flagConnectTimeout)
	}
	if flags.Changed(flagMetricsAddr) {
		spec.MetricsAddr, _ = flags.GetString(flagMetricsAddr)
	}
	if flags.Changed(flagResultsDir) {
		spec.ResultsDir, _ = flags.GetString(flagResultsDir)
	}
}

func execute(ctx context.Context, run runFunc, spec types.LoadTestSpec) error {
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		if errors.Is(err, ledgertypes.ErrConfig) {
			return err
		}
		return fmt.Errorf("%w: %w", ledgertypes.ErrConfig, err)
	}
	return run(ctx, spec)
}
