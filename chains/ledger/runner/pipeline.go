package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/skip-mev/txgen/chains/ledger/metrics"
	"github.com/skip-mev/txgen/chains/ledger/txfactory"
	"github.com/skip-mev/txgen/chains/ledger/types"
)

// QueueCapacity bounds the number of generated transactions waiting to be submitted.
const QueueCapacity = 100

// Pacer blocks until the next submission may start.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewUniformPacer spaces submissions interval apart. The first one is not delayed.
func NewUniformPacer(interval time.Duration) Pacer {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Submitter sends a signed transaction to the node.
type Submitter interface {
	SendTransaction(ctx context.Context, tx *types.AccountTransaction) (types.TransactionHash, error)
}

type queueItem struct {
	tx  *types.AccountTransaction
	err error
}

// Pipeline generates transactions as fast as the queue allows and submits them at the pace set by its Pacer.
// A single producer and a single consumer share the queue, so transactions are submitted in generation order.
type Pipeline struct {
	logger    *zap.Logger
	gen       txfactory.Generator
	submitter Submitter
	pacer     Pacer
	collector *metrics.Collector
	// maxTxs ends the run after that many transactions were generated. 0 is unbounded.
	maxTxs int
}

func NewPipeline(logger *zap.Logger, gen txfactory.Generator, submitter Submitter, pacer Pacer,
	collector *metrics.Collector, maxTxs int,
) *Pipeline {
	return &Pipeline{
		logger:    logger.With(zap.String("module", "pipeline")),
		gen:       gen,
		submitter: submitter,
		pacer:     pacer,
		collector: collector,
		maxTxs:    maxTxs,
	}
}

// Run drives the pipeline until a transaction cannot be built or submitted, until maxTxs transactions were
// submitted, or until ctx is cancelled. Only the first two return an error.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	queue := make(chan queueItem, QueueCapacity)

	g.Go(func() error {
		defer close(queue)
		return p.produce(gctx, queue)
	})
	g.Go(func() error {
		// the producer must not block on a queue nobody drains
		defer cancel()
		return p.consume(gctx, queue)
	})

	return g.Wait()
}

func (p *Pipeline) produce(ctx context.Context, queue chan<- queueItem) error {
	for n := 0; p.maxTxs == 0 || n < p.maxTxs; n++ {
		tx, err := p.gen.Generate()
		select {
		case queue <- queueItem{tx: tx, err: err}:
		case <-ctx.Done():
			return nil
		}
		if err != nil {
			// the consumer reports it
			return nil
		}
	}
	return nil
}

func (p *Pipeline) consume(ctx context.Context, queue <-chan queueItem) error {
	msgType := p.gen.MsgType()
	for {
		if err := p.pacer.Wait(ctx); err != nil {
			// the limiter only fails once ctx is done or its deadline comes before the next slot
			p.logger.Debug("pacer stopped", zap.Error(err))
			return nil
		}

		var item queueItem
		select {
		case <-ctx.Done():
			return nil
		case it, ok := <-queue:
			if !ok {
				p.logger.Info("all transactions submitted")
				return nil
			}
			item = it
		}

		if item.err != nil {
			p.collector.RecordGenerationFailure()
			p.logger.Error("could not generate transaction", zap.Error(item.err))
			return item.err
		}

		tx := item.tx
		start := time.Now()
		hash, err := p.submitter.SendTransaction(ctx, tx)
		sent := types.SentTx{
			TxHash:  hash,
			Nonce:   tx.Header.Nonce,
			Energy:  tx.Header.Energy,
			MsgType: msgType,
			Err:     err,
			Latency: time.Since(start),
		}
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			// shutdown interrupted the submission
			return nil
		}
		p.collector.RecordSubmission(sent)
		if err != nil {
			p.logger.Error("could not submit transaction",
				zap.Uint64("nonce", uint64(tx.Header.Nonce)),
				zap.Error(err))
			return fmt.Errorf("%w: nonce %d: %w", types.ErrSubmission, tx.Header.Nonce, err)
		}

		p.logger.Info("transaction submitted",
			zap.Stringer("tx_hash", hash),
			zap.Uint64("nonce", uint64(tx.Header.Nonce)),
			zap.Uint64("energy", uint64(tx.Header.Energy)),
			zap.Duration("latency", sent.Latency))
	}
}
