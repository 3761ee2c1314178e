package txfactory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skip-mev/txgen/chains/ledger/types"
	"github.com/skip-mev/txgen/chains/ledger/wallet"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

// Generator produces the next signed transaction of a strategy. Generate does no network I/O and every
// returned transaction carries the nonce following the previous one. An error is a defect and ends the run.
type Generator interface {
	Generate() (*types.AccountTransaction, error)
	MsgType() loadtesttypes.MsgType
}

// Bootstrapped is implemented by generators that sent transactions while being constructed.
type Bootstrapped interface {
	BootstrapTxs() []loadtesttypes.BootstrapTx
}

// CommonArgs are shared by every strategy.
type CommonArgs struct {
	Logger *zap.Logger
	Wallet *wallet.InteractingWallet
	// Expiry of generated transactions, in seconds after they are built.
	Expiry uint32
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (a CommonArgs) client() wallet.Client {
	return a.Wallet.GetClient()
}

func (a CommonArgs) expiry() types.TransactionTime {
	now := time.Now
	if a.Clock != nil {
		now = a.Clock
	}
	return types.TransactionTimeSecondsAfter(now(), a.Expiry)
}

func (a CommonArgs) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// NewGenerator builds the generator of spec.Kind, running its bootstrap if it has one.
func NewGenerator(ctx context.Context, args CommonArgs, spec loadtesttypes.LoadTestSpec) (Generator, error) {
	switch cfg := spec.StrategyCfg.(type) {
	case *types.TransferConfig:
		return NewTransferGenerator(ctx, args, *cfg)
	case *types.MintConfig:
		return NewMintGenerator(ctx, args, *cfg)
	case *types.AssetTransferConfig:
		return NewAssetTransferGenerator(ctx, args, *cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported strategy config %T for kind %q", types.ErrConfig, spec.StrategyCfg, spec.Kind)
	}
}

// initialNonce queries the next nonce of the sender. Pending transactions of the sender are an error.
func initialNonce(ctx context.Context, args CommonArgs) (types.Nonce, error) {
	next, err := args.Wallet.GetNonce(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrSetup, err)
	}
	if !next.AllFinal {
		return 0, fmt.Errorf("%w: not all transactions of %s are finalized", types.ErrSetup, args.Wallet.Address())
	}
	return next.Nonce, nil
}
