// Package wallettest provides an in-memory node for tests.
package wallettest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skip-mev/txgen/chains/ledger/types"
	"github.com/skip-mev/txgen/chains/ledger/wallet"
)

var _ wallet.Client = (*FakeClient)(nil)

// FakeClient accepts every submitted transaction and finalizes it immediately.
// Init transactions report ContractAddress as the new instance.
type FakeClient struct {
	Accounts        []types.AccountAddress
	AccountsErr     error
	Nonce           types.NextNonce
	Info            types.NodeInfo
	ContractAddress types.ContractAddress
	// Reject makes transactions with the given payload type finalize as rejected.
	Reject map[types.PayloadType]bool
	// SendErr is returned for every submission after the first SendErrAfter ones.
	SendErr      error
	SendErrAfter int

	mu     sync.Mutex
	sent   []*types.AccountTransaction
	sentAt []time.Time
	byHash map[types.TransactionHash]*types.AccountTransaction
	closed bool
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Nonce:  types.NextNonce{AllFinal: true},
		Reject: map[types.PayloadType]bool{},
		byHash: map[types.TransactionHash]*types.AccountTransaction{},
	}
}

func (f *FakeClient) SendBlockItem(_ context.Context, tx *types.AccountTransaction) (types.TransactionHash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil && len(f.sent) >= f.SendErrAfter {
		return types.TransactionHash{}, f.SendErr
	}
	hash := tx.Hash()
	f.sent = append(f.sent, tx)
	f.sentAt = append(f.sentAt, time.Now())
	f.byHash[hash] = tx
	return hash, nil
}

func (f *FakeClient) WaitUntilFinalized(_ context.Context, hash types.TransactionHash) (*types.BlockItemSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("unknown block item %s", hash)
	}
	energy := tx.Header.Energy / 2
	if f.Reject[tx.Payload.Type()] {
		return &types.BlockItemSummary{Hash: hash, EnergyCost: energy, Outcome: types.OutcomeReject, RejectReason: "rejected"}, nil
	}
	summary := &types.BlockItemSummary{Hash: hash, EnergyCost: energy, Outcome: types.OutcomeSuccess}
	switch tx.Payload.Type() {
	case types.PayloadInitContract:
		summary.Effects = &types.Effects{
			Type:                types.EffectContractInitialized,
			ContractInitialized: &types.ContractInitialized{Address: f.ContractAddress},
		}
	case types.PayloadUpdate:
		summary.Effects = &types.Effects{Type: types.EffectContractUpdated}
	case types.PayloadTransfer:
		summary.Effects = &types.Effects{Type: types.EffectAccountTransfer}
	case types.PayloadDeployModule:
		summary.Effects = &types.Effects{Type: types.EffectModuleDeployed}
	}
	return summary, nil
}

func (f *FakeClient) AccountList(context.Context, types.BlockIdentifier) ([]types.AccountAddress, error) {
	return f.Accounts, f.AccountsErr
}

func (f *FakeClient) NextSequenceNumber(context.Context, types.AccountAddress) (types.NextNonce, error) {
	return f.Nonce, nil
}

func (f *FakeClient) NodeInfo(context.Context) (types.NodeInfo, error) {
	return f.Info, nil
}

func (f *FakeClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Sent returns the accepted transactions in submission order.
func (f *FakeClient) Sent() []*types.AccountTransaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.AccountTransaction(nil), f.sent...)
}

// SentAt returns the acceptance time of every transaction in Sent.
func (f *FakeClient) SentAt() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.sentAt...)
}

// Closed reports whether Close was called.
func (f *FakeClient) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Address returns an address with every byte set to b.
func Address(b byte) types.AccountAddress {
	var a types.AccountAddress
	for i := range a {
		a[i] = b
	}
	return a
}
