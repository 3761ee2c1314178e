package types_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	loadtesttypes "github.com/skip-mev/txgen/chains/types"
	"github.com/skip-mev/txgen/chains/ledger/types"
)

func testAddress(b byte) types.AccountAddress {
	var addr types.AccountAddress
	for i := range addr {
		addr[i] = b
	}
	return addr
}

func TestAccountAddress_RoundTrip(t *testing.T) {
	addr := testAddress(7)
	parsed, err := types.AccountAddressFromString(addr.String())
	require.NoError(t, err)
	require.Equal(t, addr, parsed)

	raw, err := json.Marshal([]types.AccountAddress{addr})
	require.NoError(t, err)
	var decoded []types.AccountAddress
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, []types.AccountAddress{addr}, decoded)
}

func TestAccountAddress_Invalid(t *testing.T) {
	_, err := types.AccountAddressFromString("not-an-address")
	require.Error(t, err)

	raw := testAddress(1)
	_, err = types.AccountAddressFromString(base58.CheckEncode(raw[:], 2))
	require.ErrorContains(t, err, "version")

	_, err = types.AccountAddressFromString(base58.CheckEncode(raw[:31], 1))
	require.ErrorContains(t, err, "expected 32 bytes")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    types.Amount
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "5", want: 5_000_000},
		{in: "0.000001", want: 1},
		{in: "1.5", want: 1_500_000},
		{in: "", wantErr: true},
		{in: "1.", wantErr: true},
		{in: ".5", wantErr: true},
		{in: "0.0000001", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "18446744073709551615", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := types.ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
	require.Equal(t, "1.5", types.Amount(1_500_000).String())
	require.Equal(t, "5", types.Amount(5_000_000).String())
}

func TestAccountTransaction_EncodeDecode(t *testing.T) {
	payload, err := types.TransferPayload{To: testAddress(2), Amount: 5}.Encode()
	require.NoError(t, err)
	require.Len(t, payload, types.TransferPayloadSize)
	require.Equal(t, types.PayloadTransfer, payload.Type())

	expiry := types.TransactionTimeSecondsAfter(time.Unix(1000, 0), 7200)
	require.Equal(t, types.TransactionTime(8200), expiry)

	tx, err := types.NewAccountTransaction(testAddress(1), 100, expiry, types.SimpleTransferEnergy, payload)
	require.NoError(t, err)
	require.Equal(t, uint32(types.TransferPayloadSize), tx.Header.PayloadSize)
	tx.Signature = make([]byte, 65)
	tx.Signature[0] = 9

	decoded, err := types.DecodeAccountTransaction(tx.Bytes())
	require.NoError(t, err)
	require.Equal(t, tx, decoded)
	require.Equal(t, tx.Hash(), decoded.Hash())
	require.Len(t, tx.SigningDigest(), 32)

	_, err = types.DecodeAccountTransaction(tx.Bytes()[:20])
	require.Error(t, err)
}

func TestNewAccountTransaction_EmptyPayload(t *testing.T) {
	_, err := types.NewAccountTransaction(testAddress(1), 0, 0, 0, nil)
	require.Error(t, err)
}

func TestUpdatePayload_MessageTooLarge(t *testing.T) {
	_, err := types.UpdateContractPayload{ReceiveName: "a.b", Message: make([]byte, 70_000)}.Encode()
	require.Error(t, err)
}

func TestParseSelectionMode(t *testing.T) {
	m, err := types.ParseSelectionMode("")
	require.NoError(t, err)
	require.Equal(t, types.SelectRoundRobin, m.Kind)

	m, err = types.ParseSelectionMode("random")
	require.NoError(t, err)
	require.Equal(t, types.SelectRandom, m.Kind)

	m, err = types.ParseSelectionMode("round_robin")
	require.NoError(t, err)
	require.Equal(t, types.SelectRoundRobin, m.Kind)

	m, err = types.ParseSelectionMode("3")
	require.NoError(t, err)
	require.Equal(t, types.SelectionMode{Kind: types.SelectPartitioned, Partitions: 3}, m)
	require.Equal(t, "3", m.String())

	_, err = types.ParseSelectionMode("0")
	require.True(t, errors.Is(err, types.ErrConfig))

	_, err = types.ParseSelectionMode("sideways")
	require.True(t, errors.Is(err, types.ErrConfig))
}

func TestLoadTestSpec_Transfer(t *testing.T) {
	yml := []byte(`
name: transfers
kind: transfer
sender_key_file: /keys/sender.json
tps: 2
strategy_config:
  amount: "5"
  mode: round_robin
  seed: 42
`)
	var spec loadtesttypes.LoadTestSpec
	require.NoError(t, yaml.Unmarshal(yml, &spec))
	spec.ApplyDefaults()
	require.NoError(t, spec.Validate())

	require.Equal(t, loadtesttypes.DefaultNodeAddress, spec.NodeAddress)
	require.Equal(t, uint32(loadtesttypes.DefaultExpiry), spec.Expiry)
	require.Equal(t, 500*time.Millisecond, spec.SendInterval())

	cfg, ok := spec.StrategyCfg.(*types.TransferConfig)
	require.True(t, ok)
	require.Equal(t, "5", cfg.Amount)
	require.Equal(t, "round_robin", cfg.Mode)
	require.NotNil(t, cfg.Seed)
	require.Equal(t, int64(42), *cfg.Seed)
}

func TestLoadTestSpec_MarshalUnmarshal(t *testing.T) {
	seed := uint16(3)
	spec := loadtesttypes.LoadTestSpec{
		Name:          "nft",
		Kind:          types.KindMint,
		NodeAddress:   "http://node:20000",
		SenderKeyFile: "/keys/sender.json",
		TPS:           10,
		Expiry:        100,
		MaxTxs:        50,
		StrategyCfg: &types.MintConfig{ContractConfig: types.ContractConfig{
			ModulePath: "/modules/cis2_nft.wasm.v1",
			InitParam:  &seed,
		}},
	}

	out, err := yaml.Marshal(&spec)
	require.NoError(t, err)

	var decoded loadtesttypes.LoadTestSpec
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.Equal(t, spec, decoded)
}

func TestLoadTestSpec_ValidationErrors(t *testing.T) {
	base := func() loadtesttypes.LoadTestSpec {
		return loadtesttypes.LoadTestSpec{
			Kind:          types.KindTransfer,
			NodeAddress:   "http://node:20000",
			SenderKeyFile: "sender.json",
			TPS:           1,
			StrategyCfg:   &types.TransferConfig{Amount: "1"},
		}
	}

	spec := base()
	require.NoError(t, spec.Validate())

	spec = base()
	spec.TPS = 0
	require.Error(t, spec.Validate())

	spec = base()
	spec.StrategyCfg = &types.TransferConfig{Amount: "1", Mode: "0"}
	require.ErrorIs(t, spec.Validate(), types.ErrConfig)

	spec = base()
	spec.StrategyCfg = &types.TransferConfig{Amount: "one"}
	require.ErrorIs(t, spec.Validate(), types.ErrConfig)

	spec = base()
	spec.Kind = types.KindAssetTransfer
	spec.StrategyCfg = &types.AssetTransferConfig{}
	require.ErrorIs(t, spec.Validate(), types.ErrConfig)
}

func TestLoadTestSpec_UnknownKind(t *testing.T) {
	var spec loadtesttypes.LoadTestSpec
	require.Error(t, yaml.Unmarshal([]byte("kind: swap\n"), &spec))
}

func TestBlockItemSummary_ContractInit(t *testing.T) {
	summary := &types.BlockItemSummary{
		Outcome: types.OutcomeSuccess,
		Effects: &types.Effects{
			Type:                types.EffectContractInitialized,
			ContractInitialized: &types.ContractInitialized{Address: types.ContractAddress{Index: 4}},
		},
	}
	initialized, ok := summary.ContractInit()
	require.True(t, ok)
	require.Equal(t, "<4,0>", initialized.Address.String())

	summary.Outcome = types.OutcomeReject
	_, ok = summary.ContractInit()
	require.False(t, ok)

	var nilSummary *types.BlockItemSummary
	require.False(t, nilSummary.IsSuccess())
}
