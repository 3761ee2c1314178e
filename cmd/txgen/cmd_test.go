package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ledgertypes "github.com/skip-mev/txgen/chains/ledger/types"
	"github.com/skip-mev/txgen/chains/types"
)

// execRoot runs the command line and returns the spec handed to the runner, if any.
func execRoot(t *testing.T, args ...string) (*types.LoadTestSpec, error) {
	t.Helper()

	var got *types.LoadTestSpec
	root := newRootCmd(func(_ context.Context, spec types.LoadTestSpec) error {
		got = &spec
		return nil
	})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return got, err
}

func TestTransferCommand(t *testing.T) {
	spec, err := execRoot(t,
		"--sender", "sender.json", "--tps", "25",
		"transfer", "--amount", "1.5", "--mode", "round_robin", "--seed", "7",
	)
	require.NoError(t, err)
	require.NotNil(t, spec)

	require.Equal(t, ledgertypes.KindTransfer, spec.Kind)
	require.Equal(t, types.DefaultNodeAddress, spec.NodeAddress)
	require.Equal(t, "sender.json", spec.SenderKeyFile)
	require.Equal(t, uint16(25), spec.TPS)
	require.Equal(t, uint32(types.DefaultExpiry), spec.Expiry)
	require.Equal(t, types.DefaultConnectTimeout, spec.ConnectTimeout)

	cfg, ok := spec.StrategyCfg.(*ledgertypes.TransferConfig)
	require.True(t, ok)
	require.Equal(t, "1.5", cfg.Amount)
	require.Equal(t, "round_robin", cfg.Mode)
	require.NotNil(t, cfg.Seed)
	require.Equal(t, int64(7), *cfg.Seed)
}

func TestTransferCommandDefaults(t *testing.T) {
	spec, err := execRoot(t, "--sender", "sender.json", "--tps", "1", "transfer")
	require.NoError(t, err)

	cfg := spec.StrategyCfg.(*ledgertypes.TransferConfig)
	require.Equal(t, "0", cfg.Amount)
	require.Empty(t, cfg.Mode)
	require.Nil(t, cfg.Seed)
	require.Empty(t, cfg.ReceiversFile)
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("TXGEN_TPS", "9")
	t.Setenv("TXGEN_MAX_TXS", "100")
	t.Setenv("TXGEN_SENDER", "env.json")

	spec, err := execRoot(t, "transfer")
	require.NoError(t, err)
	require.Equal(t, uint16(9), spec.TPS)
	require.Equal(t, 100, spec.MaxTxs)
	require.Equal(t, "env.json", spec.SenderKeyFile)
}

func TestConfigErrorsStopBeforeRunning(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero tps", []string{"--sender", "s.json", "transfer"}},
		{"missing sender", []string{"--tps", "5", "transfer"}},
		{"invalid mode", []string{"--sender", "s.json", "--tps", "5", "transfer", "--mode", "sometimes"}},
		{"zero partitions", []string{"--sender", "s.json", "--tps", "5", "transfer", "--mode", "0"}},
		{"invalid amount", []string{"--sender", "s.json", "--tps", "5", "transfer", "--amount", "lots"}},
		{"mint without module", []string{"--sender", "s.json", "--tps", "5", "mint"}},
		{"asset transfer without module", []string{"--sender", "s.json", "--tps", "5", "asset-transfer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := execRoot(t, tt.args...)
			require.ErrorIs(t, err, ledgertypes.ErrConfig)
			require.Nil(t, spec)
		})
	}
}

func TestMintCommand(t *testing.T) {
	spec, err := execRoot(t,
		"--sender", "s.json", "--tps", "5", "--max-txs", "10",
		"mint", "--module", "nft.wasm.v1", "--init-param", "3",
	)
	require.NoError(t, err)
	require.Equal(t, ledgertypes.KindMint, spec.Kind)
	require.Equal(t, 10, spec.MaxTxs)

	cfg := spec.StrategyCfg.(*ledgertypes.MintConfig)
	require.Equal(t, "nft.wasm.v1", cfg.ModulePath)
	require.NotNil(t, cfg.InitParam)
	require.Equal(t, uint16(3), *cfg.InitParam)
}

func TestAssetTransferCommand(t *testing.T) {
	spec, err := execRoot(t,
		"--sender", "s.json", "--tps", "5",
		"asset-transfer", "--module", "multi.wasm.v1", "--receivers", "receivers.json",
	)
	require.NoError(t, err)
	require.Equal(t, ledgertypes.KindAssetTransfer, spec.Kind)

	cfg := spec.StrategyCfg.(*ledgertypes.AssetTransferConfig)
	require.Equal(t, "multi.wasm.v1", cfg.ModulePath)
	require.Equal(t, "receivers.json", cfg.ReceiversFile)
	require.Nil(t, cfg.InitParam)
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: nightly
kind: transfer
node_address: http://node:20000
sender_key_file: sender.json
tps: 50
connect_timeout: 3s
strategy_config:
  amount: "0.000001"
  mode: "4"
`), 0o600))

	spec, err := execRoot(t, "--tps", "75", "run", "--config", path)
	require.NoError(t, err)
	require.Equal(t, "nightly", spec.Name)
	require.Equal(t, "http://node:20000", spec.NodeAddress)
	require.Equal(t, uint16(75), spec.TPS, "explicit flags override the file")
	require.Equal(t, 3*time.Second, spec.ConnectTimeout)
	require.Equal(t, uint32(types.DefaultExpiry), spec.Expiry)
	require.Equal(t, types.DefaultResultsDir, spec.ResultsDir)

	cfg := spec.StrategyCfg.(*ledgertypes.TransferConfig)
	require.Equal(t, "4", cfg.Mode)
}

func TestRunCommandRequiresConfig(t *testing.T) {
	spec, err := execRoot(t, "run")
	require.Error(t, err)
	require.Nil(t, spec)

	spec, err = execRoot(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Nil(t, spec)
}

func TestExampleSpecs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "example", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			spec, err := execRoot(t, "run", "--config", path)
			require.NoError(t, err)
			require.NotNil(t, spec.StrategyCfg)
		})
	}
}
