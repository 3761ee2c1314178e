package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/skip-mev/txgen/chains/ledger/metrics"
	"github.com/skip-mev/txgen/chains/ledger/txfactory"
	"github.com/skip-mev/txgen/chains/ledger/types"
	"github.com/skip-mev/txgen/chains/ledger/wallet"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

// Runner is the load test runner for a ledger node.
type Runner struct {
	logger    *zap.Logger
	spec      loadtesttypes.LoadTestSpec
	wallet    *wallet.InteractingWallet
	generator txfactory.Generator
	collector *metrics.Collector
	pacer     Pacer
}

// NewRunner connects to the node, loads the sender keys and builds the generator of spec.Kind. Strategies
// with a bootstrap deploy their program here.
func NewRunner(ctx context.Context, logger *zap.Logger, spec loadtesttypes.LoadTestSpec) (*Runner, error) {
	client, err := wallet.Dial(ctx, spec.NodeAddress, spec.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSetup, err)
	}
	w, err := wallet.NewWalletFromKeyFile(spec.SenderKeyFile, client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}
	r, err := NewRunnerWithWallet(ctx, logger, spec, w, prometheus.DefaultRegisterer)
	if err != nil {
		client.Close()
		return nil, err
	}
	return r, nil
}

// NewRunnerWithWallet builds a runner sending from w. Metrics are registered with reg.
func NewRunnerWithWallet(ctx context.Context, logger *zap.Logger, spec loadtesttypes.LoadTestSpec,
	w *wallet.InteractingWallet, reg prometheus.Registerer,
) (*Runner, error) {
	logger = logger.With(zap.String("kind", spec.Kind), zap.Stringer("sender", w.Address()))

	gen, err := txfactory.NewGenerator(ctx, txfactory.CommonArgs{
		Logger: logger.With(zap.String("module", "tx_factory")),
		Wallet: w,
		Expiry: spec.Expiry,
	}, spec)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(metrics.NewMetrics(reg))
	if b, ok := gen.(txfactory.Bootstrapped); ok {
		collector.RecordBootstrap(b.BootstrapTxs())
	}

	return &Runner{
		logger:    logger,
		spec:      spec,
		wallet:    w,
		generator: gen,
		collector: collector,
		pacer:     NewUniformPacer(spec.SendInterval()),
	}, nil
}

// WithPacer overrides the uniform pacer derived from the target rate.
func (r *Runner) WithPacer(p Pacer) *Runner {
	r.pacer = p
	return r
}

// Run submits transactions until the pipeline stops and summarizes the run.
func (r *Runner) Run(ctx context.Context) (loadtesttypes.LoadTestResult, error) {
	runID := ulid.Make().String()
	r.logger.Info("starting load test",
		zap.String("run_id", runID),
		zap.Uint16("tps", r.spec.TPS),
		zap.Int("max_txs", r.spec.MaxTxs))

	pipeline := NewPipeline(r.logger, r.generator, r.wallet, r.pacer, r.collector, r.spec.MaxTxs)

	start := time.Now()
	err := pipeline.Run(ctx)
	end := time.Now()

	result := loadtesttypes.LoadTestResult{
		RunID:     runID,
		Kind:      r.spec.Kind,
		Overall:   r.collector.Overall(start, end, float64(r.spec.TPS)),
		ByMessage: r.collector.ByMessage(),
	}
	if b, ok := r.generator.(txfactory.Bootstrapped); ok {
		result.Bootstrap = b.BootstrapTxs()
	}
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	r.logger.Info("load test finished", zap.Int("submitted", result.Overall.TotalTransactions))
	return result, nil
}

func (r *Runner) PrintResults(result loadtesttypes.LoadTestResult) {
	metrics.PrintResults(result)
}

// Close releases the node connection.
func (r *Runner) Close() {
	r.wallet.GetClient().Close()
}
