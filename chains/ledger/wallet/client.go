package wallet

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/skip-mev/txgen/chains/ledger/types"
)

// Client is the subset of the node API the generator needs.
type Client interface {
	SendBlockItem(ctx context.Context, tx *types.AccountTransaction) (types.TransactionHash, error)
	WaitUntilFinalized(ctx context.Context, hash types.TransactionHash) (*types.BlockItemSummary, error)
	AccountList(ctx context.Context, block types.BlockIdentifier) ([]types.AccountAddress, error)
	NextSequenceNumber(ctx context.Context, addr types.AccountAddress) (types.NextNonce, error)
	NodeInfo(ctx context.Context) (types.NodeInfo, error)
	Close()
}

var _ Client = (*RPCClient)(nil)

// DefaultPollInterval is how often WaitUntilFinalized asks for the status of a block item.
const DefaultPollInterval = 500 * time.Millisecond

// RPCClient talks to the node over JSON-RPC, in the "ledger" namespace.
type RPCClient struct {
	rpc          *rpc.Client
	pollInterval time.Duration
}

// Dial connects to the node at endpoint. https endpoints use TLS. connectTimeout bounds establishing
// the connection only; once connected, requests are not timed out.
func Dial(ctx context.Context, endpoint string, connectTimeout time.Duration) (*RPCClient, error) {
	tr := &http.Transport{
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: connectTimeout,
	}
	hc := &http.Client{Transport: tr}
	c, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(hc))
	if err != nil {
		return nil, fmt.Errorf("failed to construct RPC client for %s: %w", endpoint, err)
	}
	return NewRPCClient(c), nil
}

// NewRPCClient wraps an established rpc connection.
func NewRPCClient(c *rpc.Client) *RPCClient {
	return &RPCClient{rpc: c, pollInterval: DefaultPollInterval}
}

// WithPollInterval overrides DefaultPollInterval.
func (c *RPCClient) WithPollInterval(d time.Duration) *RPCClient {
	c.pollInterval = d
	return c
}

func (c *RPCClient) SendBlockItem(ctx context.Context, tx *types.AccountTransaction) (types.TransactionHash, error) {
	var hash types.TransactionHash
	if err := c.rpc.CallContext(ctx, &hash, "ledger_sendBlockItem", hexutil.Bytes(tx.Bytes())); err != nil {
		return types.TransactionHash{}, err
	}
	return hash, nil
}

func (c *RPCClient) transactionStatus(ctx context.Context, hash types.TransactionHash) (*types.TransactionStatus, error) {
	var status types.TransactionStatus
	if err := c.rpc.CallContext(ctx, &status, "ledger_getBlockItemStatus", hash); err != nil {
		return nil, fmt.Errorf("failed to query status of %s: %w", hash, err)
	}
	return &status, nil
}

// WaitUntilFinalized blocks until the block item is finalized and returns its outcome.
func (c *RPCClient) WaitUntilFinalized(ctx context.Context, hash types.TransactionHash) (*types.BlockItemSummary, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.transactionStatus(ctx, hash)
		if err != nil {
			return nil, err
		}
		if status.Status == types.StatusFinalized {
			if status.Outcome == nil {
				return nil, fmt.Errorf("finalized block item %s has no outcome", hash)
			}
			return status.Outcome, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *RPCClient) AccountList(ctx context.Context, block types.BlockIdentifier) ([]types.AccountAddress, error) {
	var accounts []types.AccountAddress
	if err := c.rpc.CallContext(ctx, &accounts, "ledger_getAccountList", block); err != nil {
		return nil, fmt.Errorf("failed to get account list: %w", err)
	}
	return accounts, nil
}

func (c *RPCClient) NextSequenceNumber(ctx context.Context, addr types.AccountAddress) (types.NextNonce, error) {
	var nonce types.NextNonce
	if err := c.rpc.CallContext(ctx, &nonce, "ledger_getNextAccountSequenceNumber", addr); err != nil {
		return types.NextNonce{}, fmt.Errorf("failed to get nonce of %s: %w", addr, err)
	}
	return nonce, nil
}

func (c *RPCClient) NodeInfo(ctx context.Context) (types.NodeInfo, error) {
	var info types.NodeInfo
	if err := c.rpc.CallContext(ctx, &info, "ledger_getNodeInfo"); err != nil {
		return types.NodeInfo{}, fmt.Errorf("failed to get node info: %w", err)
	}
	return info, nil
}

func (c *RPCClient) Close() {
	c.rpc.Close()
}
