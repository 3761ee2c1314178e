package txfactory

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/skip-mev/txgen/chains/ledger/contracts"
	"github.com/skip-mev/txgen/chains/ledger/types"
	"github.com/skip-mev/txgen/chains/ledger/wallet"
	"github.com/skip-mev/txgen/chains/ledger/wallet/wallettest"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

var sender = wallettest.Address(0xaa)

func newArgs(t *testing.T, client wallet.Client) CommonArgs {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return CommonArgs{
		Logger: zaptest.NewLogger(t),
		Wallet: wallet.NewInteractingWallet(key, sender, client),
		Expiry: 7200,
		Clock:  func() time.Time { return time.Unix(1_700_000_000, 0) },
	}
}

func writeModule(t *testing.T) string {
	t.Helper()
	m := contracts.VersionedModule{Version: 1, Source: []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}}
	path := filepath.Join(t.TempDir(), "module.wasm.v1")
	require.NoError(t, os.WriteFile(path, m.Bytes(), 0o600))
	return path
}

// transferTo decodes the receiver of a transfer payload.
func transferTo(t *testing.T, tx *types.AccountTransaction) types.AccountAddress {
	t.Helper()
	require.Equal(t, types.PayloadTransfer, tx.Payload.Type())
	var to types.AccountAddress
	copy(to[:], tx.Payload[1:1+types.AccountAddressLength])
	return to
}

// updateMessage decodes the target and message of an update payload.
func updateMessage(t *testing.T, tx *types.AccountTransaction) (types.ContractAddress, string, []byte) {
	t.Helper()
	p := tx.Payload
	require.Equal(t, types.PayloadUpdate, p.Type())
	p = p[1+8:]
	addr := types.ContractAddress{Index: binary.BigEndian.Uint64(p[0:8]), Subindex: binary.BigEndian.Uint64(p[8:16])}
	p = p[16:]
	n := int(binary.BigEndian.Uint16(p[0:2]))
	name := string(p[2 : 2+n])
	p = p[2+n:]
	m := int(binary.BigEndian.Uint16(p[0:2]))
	require.Len(t, p[2:], m)
	return addr, name, p[2:]
}

func TestTransferGenerator_RoundRobinSequence(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(4)
	client.Nonce = types.NextNonce{Nonce: 100, AllFinal: true}
	args := newArgs(t, client)

	gen, err := NewTransferGenerator(context.Background(), args, types.TransferConfig{Amount: "5", Mode: "round_robin"})
	require.NoError(t, err)
	require.Equal(t, types.MsgTransfer, gen.MsgType())

	for i := range 10 {
		tx, err := gen.Generate()
		require.NoError(t, err)
		require.Equal(t, types.Nonce(100+i), tx.Header.Nonce)
		require.Equal(t, client.Accounts[i%4], transferTo(t, tx))
		require.Equal(t, uint64(5_000_000), binary.BigEndian.Uint64(tx.Payload[1+types.AccountAddressLength:]))
		require.Equal(t, types.SimpleTransferEnergy, tx.Header.Energy)
		require.Equal(t, types.TransactionTime(1_700_007_200), tx.Header.Expiry)
		require.Equal(t, sender, tx.Header.Sender)
		require.True(t, wallet.VerifySignature(args.Wallet.GetSigner().PublicKey(), tx))
	}
	require.Empty(t, client.Sent())
}

func TestTransferGenerator_DefaultModeIsRoundRobin(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(4)
	gen, err := NewTransferGenerator(context.Background(), newArgs(t, client), types.TransferConfig{Amount: "5"})
	require.NoError(t, err)

	for i := range 8 {
		tx, err := gen.Generate()
		require.NoError(t, err)
		require.Equal(t, client.Accounts[i%4], transferTo(t, tx))
	}
}

func TestTransferGenerator_SeededRandom(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(5)
	seed := int64(7)

	receivers := func() []types.AccountAddress {
		gen, err := NewTransferGenerator(context.Background(), newArgs(t, client), types.TransferConfig{Amount: "1", Mode: "random", Seed: &seed})
		require.NoError(t, err)
		out := make([]types.AccountAddress, 0, 20)
		for range 20 {
			tx, err := gen.Generate()
			require.NoError(t, err)
			out = append(out, transferTo(t, tx))
		}
		return out
	}
	require.Equal(t, receivers(), receivers())
}

func TestTransferGenerator_RequiresFinalNonce(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(2)
	client.Nonce = types.NextNonce{Nonce: 3, AllFinal: false}

	_, err := NewTransferGenerator(context.Background(), newArgs(t, client), types.TransferConfig{Amount: "1"})
	require.ErrorIs(t, err, types.ErrSetup)
}

func TestTransferGenerator_EmptyReceivers(t *testing.T) {
	client := wallettest.NewFakeClient()
	_, err := NewTransferGenerator(context.Background(), newArgs(t, client), types.TransferConfig{Amount: "1"})
	require.ErrorIs(t, err, types.ErrSetup)
	require.ErrorContains(t, err, "must not be empty")
}

func TestTransferGenerator_Partitioned(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(10)

	_, err := NewTransferGenerator(context.Background(), newArgs(t, client), types.TransferConfig{Amount: "1", Mode: "3"})
	require.ErrorIs(t, err, types.ErrConfig)

	client.Info = types.NodeInfo{Validator: &types.ValidatorInfo{ID: 2}}
	gen, err := NewTransferGenerator(context.Background(), newArgs(t, client), types.TransferConfig{Amount: "1", Mode: "3"})
	require.NoError(t, err)
	for i := range 6 {
		tx, err := gen.Generate()
		require.NoError(t, err)
		require.Equal(t, client.Accounts[6+i%3], transferTo(t, tx))
	}
}

func TestMintGenerator(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Nonce = types.NextNonce{Nonce: 5, AllFinal: true}
	client.ContractAddress = types.ContractAddress{Index: 7}
	args := newArgs(t, client)

	gen, err := NewMintGenerator(context.Background(), args, types.MintConfig{ContractConfig: types.ContractConfig{ModulePath: writeModule(t)}})
	require.NoError(t, err)
	require.Equal(t, types.ContractAddress{Index: 7}, gen.Contract())

	sent := client.Sent()
	require.Len(t, sent, 2)
	require.Equal(t, types.PayloadDeployModule, sent[0].Payload.Type())
	require.Equal(t, types.Nonce(5), sent[0].Header.Nonce)
	require.Equal(t, types.PayloadInitContract, sent[1].Payload.Type())
	require.Equal(t, types.Nonce(6), sent[1].Header.Nonce)
	require.Equal(t, nftInitEnergy, sent[1].Header.Energy)

	boot := gen.BootstrapTxs()
	require.Len(t, boot, 2)
	require.Equal(t, types.MsgInitContract, boot[1].MsgType)
	require.Equal(t, "<7,0>", boot[1].ContractAddress)

	for i := range 3 {
		tx, err := gen.Generate()
		require.NoError(t, err)
		require.Equal(t, types.Nonce(7+i), tx.Header.Nonce)
		require.Equal(t, nftMintEnergy, tx.Header.Energy)

		addr, name, msg := updateMessage(t, tx)
		require.Equal(t, client.ContractAddress, addr)
		require.Equal(t, contracts.NFTMintReceiveName, name)
		want, err := contracts.ParameterFromSerial(contracts.NFTMintParams{
			Owner:  contracts.AccountAddr(sender),
			Tokens: []contracts.TokenID{contracts.TokenIDFromUint32(uint32(i))},
		})
		require.NoError(t, err)
		require.Equal(t, []byte(want), msg)
	}
	require.Len(t, client.Sent(), 2)
}

func TestMintGenerator_RequiresFinalNonce(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Nonce = types.NextNonce{Nonce: 5, AllFinal: false}

	_, err := NewMintGenerator(context.Background(), newArgs(t, client), types.MintConfig{ContractConfig: types.ContractConfig{ModulePath: writeModule(t)}})
	require.ErrorIs(t, err, types.ErrSetup)
	require.Empty(t, client.Sent())
}

func TestMintGenerator_InitParam(t *testing.T) {
	client := wallettest.NewFakeClient()
	seed := uint16(9)
	_, err := NewMintGenerator(context.Background(), newArgs(t, client), types.MintConfig{ContractConfig: types.ContractConfig{
		ModulePath: writeModule(t),
		InitParam:  &seed,
	}})
	require.NoError(t, err)

	initPayload := client.Sent()[1].Payload
	require.Equal(t, []byte{0x00, 0x02, 0x09, 0x00}, []byte(initPayload[len(initPayload)-4:]))
}

func TestMintGenerator_InitFailure(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Reject[types.PayloadInitContract] = true

	_, err := NewMintGenerator(context.Background(), newArgs(t, client), types.MintConfig{ContractConfig: types.ContractConfig{ModulePath: writeModule(t)}})
	require.ErrorIs(t, err, types.ErrSetup)
	require.Len(t, client.Sent(), 2)
}

func TestMintGenerator_MissingModule(t *testing.T) {
	client := wallettest.NewFakeClient()
	_, err := NewMintGenerator(context.Background(), newArgs(t, client), types.MintConfig{ContractConfig: types.ContractConfig{
		ModulePath: filepath.Join(t.TempDir(), "missing.wasm.v1"),
	}})
	require.ErrorIs(t, err, types.ErrConfig)
	require.Empty(t, client.Sent())
}

func TestMintGenerator_TokenIDsExhausted(t *testing.T) {
	client := wallettest.NewFakeClient()
	gen, err := NewMintGenerator(context.Background(), newArgs(t, client), types.MintConfig{ContractConfig: types.ContractConfig{ModulePath: writeModule(t)}})
	require.NoError(t, err)

	gen.nextID = math.MaxUint32
	_, err = gen.Generate()
	require.NoError(t, err)

	nonce := gen.nonce
	_, err = gen.Generate()
	require.ErrorIs(t, err, ErrTokenIDsExhausted)
	require.ErrorIs(t, err, types.ErrGeneration)
	require.Equal(t, nonce, gen.nonce)
}

func TestAssetTransferGenerator(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(3)
	client.Nonce = types.NextNonce{Nonce: 1, AllFinal: true}
	client.ContractAddress = types.ContractAddress{Index: 12, Subindex: 0}
	args := newArgs(t, client)

	gen, err := NewAssetTransferGenerator(context.Background(), args, types.AssetTransferConfig{
		ContractConfig: types.ContractConfig{ModulePath: writeModule(t)},
	})
	require.NoError(t, err)

	sent := client.Sent()
	require.Len(t, sent, 3)
	require.Equal(t, types.Nonce(3), sent[2].Header.Nonce)
	require.Equal(t, multiMintEnergy, sent[2].Header.Energy)
	_, name, msg := updateMessage(t, sent[2])
	require.Equal(t, contracts.MultiMintReceiveName, name)
	wantMint, err := contracts.ParameterFromSerial(contracts.MultiMintParams{
		Owner: contracts.AccountAddr(sender),
		Tokens: []contracts.MintToken{{
			ID:       contracts.TokenIDFromUint8(0),
			Amount:   math.MaxUint64,
			Metadata: contracts.MetadataURL{URL: "https://example.com"},
		}},
	})
	require.NoError(t, err)
	require.Equal(t, []byte(wantMint), msg)

	boot := gen.BootstrapTxs()
	require.Len(t, boot, 3)
	require.Equal(t, types.MsgMintSupply, boot[2].MsgType)
	require.NotZero(t, boot[2].EnergyCost)

	for i := range 6 {
		tx, err := gen.Generate()
		require.NoError(t, err)
		require.Equal(t, types.Nonce(4+i), tx.Header.Nonce)
		require.Equal(t, multiTransferEnergy, tx.Header.Energy)

		addr, name, msg := updateMessage(t, tx)
		require.Equal(t, client.ContractAddress, addr)
		require.Equal(t, contracts.MultiTransferReceiveName, name)
		want, err := contracts.ParameterFromSerial(contracts.TransferParams{{
			TokenID: contracts.TokenIDFromUint8(0),
			Amount:  1,
			From:    contracts.AccountAddr(sender),
			To:      contracts.AccountReceiver(client.Accounts[i%3]),
			Data:    contracts.AdditionalData{},
		}})
		require.NoError(t, err)
		require.Equal(t, []byte(want), msg)
	}
}

func TestAssetTransferGenerator_RequiresFinalNonce(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(3)
	client.Nonce = types.NextNonce{Nonce: 4, AllFinal: false}

	_, err := NewAssetTransferGenerator(context.Background(), newArgs(t, client), types.AssetTransferConfig{
		ContractConfig: types.ContractConfig{ModulePath: writeModule(t)},
	})
	require.ErrorIs(t, err, types.ErrSetup)
	require.Empty(t, client.Sent())
}

func TestAssetTransferGenerator_SupplyMintFailure(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(3)
	client.Reject[types.PayloadUpdate] = true

	_, err := NewAssetTransferGenerator(context.Background(), newArgs(t, client), types.AssetTransferConfig{
		ContractConfig: types.ContractConfig{ModulePath: writeModule(t)},
	})
	require.ErrorIs(t, err, types.ErrSetup)
	require.Len(t, client.Sent(), 3)
}

func TestLoadAccounts_File(t *testing.T) {
	accs := accounts(2)
	raw := `["` + accs[0].String() + `","` + accs[1].String() + `"]`
	path := filepath.Join(t.TempDir(), "receivers.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	got, err := LoadAccounts(context.Background(), wallettest.NewFakeClient(), path)
	require.NoError(t, err)
	require.Equal(t, accs, got)

	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))
	_, err = LoadAccounts(context.Background(), wallettest.NewFakeClient(), path)
	require.ErrorIs(t, err, types.ErrSetup)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err = LoadAccounts(context.Background(), wallettest.NewFakeClient(), path)
	require.ErrorIs(t, err, types.ErrSetup)
}

func TestNewGenerator(t *testing.T) {
	client := wallettest.NewFakeClient()
	client.Accounts = accounts(2)

	gen, err := NewGenerator(context.Background(), newArgs(t, client), loadtesttypes.LoadTestSpec{
		Kind:        types.KindTransfer,
		StrategyCfg: &types.TransferConfig{Amount: "1"},
	})
	require.NoError(t, err)
	require.IsType(t, &TransferGenerator{}, gen)

	gen, err = NewGenerator(context.Background(), newArgs(t, client), loadtesttypes.LoadTestSpec{
		Kind:        types.KindAssetTransfer,
		StrategyCfg: &types.AssetTransferConfig{ContractConfig: types.ContractConfig{ModulePath: writeModule(t)}},
	})
	require.NoError(t, err)
	require.IsType(t, &AssetTransferGenerator{}, gen)

	_, err = NewGenerator(context.Background(), newArgs(t, client), loadtesttypes.LoadTestSpec{Kind: "swap"})
	require.ErrorIs(t, err, types.ErrConfig)
}
