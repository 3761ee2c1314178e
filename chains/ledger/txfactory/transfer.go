package txfactory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skip-mev/txgen/chains/ledger/types"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

var _ Generator = &TransferGenerator{}

// TransferGenerator sends a fixed amount of the native currency to receivers picked by a selector.
type TransferGenerator struct {
	args     CommonArgs
	selector ReceiverSelector
	amount   types.Amount
	nonce    types.Nonce
}

// NewTransferGenerator resolves the receivers and the starting nonce. Partitioned selection asks the node
// for its validator id, and fails on nodes that are not validators.
func NewTransferGenerator(ctx context.Context, args CommonArgs, cfg types.TransferConfig) (*TransferGenerator, error) {
	amount, err := types.ParseAmount(cfg.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}
	mode, err := types.ParseSelectionMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	accounts, err := LoadAccounts(ctx, args.client(), cfg.ReceiversFile)
	if err != nil {
		return nil, err
	}

	nonce, err := initialNonce(ctx, args)
	if err != nil {
		return nil, err
	}

	var selector ReceiverSelector
	switch mode.Kind {
	case types.SelectRandom:
		selector, err = NewRandom(accounts, cfg.Seed)
	case types.SelectRoundRobin:
		selector, err = NewRoundRobin(accounts)
	case types.SelectPartitioned:
		selector, err = partitionedSelector(ctx, args, accounts, mode.Partitions)
	default:
		err = fmt.Errorf("%w: unsupported selection mode %s", types.ErrConfig, mode)
	}
	if err != nil {
		return nil, err
	}

	args.logger().Info("transfer generator ready",
		zap.Int("receivers", len(accounts)),
		zap.Stringer("mode", mode),
		zap.Stringer("amount", amount),
		zap.Uint64("nonce", uint64(nonce)))

	return &TransferGenerator{
		args:     args,
		selector: selector,
		amount:   amount,
		nonce:    nonce,
	}, nil
}

func partitionedSelector(ctx context.Context, args CommonArgs, accounts []types.AccountAddress, partitions uint64) (ReceiverSelector, error) {
	info, err := args.client().NodeInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSetup, err)
	}
	if info.Validator == nil {
		return nil, fmt.Errorf("%w: partitioned mode requires the node to be a validator", types.ErrConfig)
	}
	return NewPartitioned(accounts, partitions, info.Validator.ID)
}

func (g *TransferGenerator) Generate() (*types.AccountTransaction, error) {
	to := g.selector.Next()
	tx, err := g.args.Wallet.CreateTransfer(to, g.amount, g.nonce, g.args.expiry())
	if err != nil {
		return nil, fmt.Errorf("%w: transfer (nonce = %d): %w", types.ErrGeneration, g.nonce, err)
	}
	g.nonce = g.nonce.Next()
	return tx, nil
}

func (g *TransferGenerator) MsgType() loadtesttypes.MsgType {
	return types.MsgTransfer
}
