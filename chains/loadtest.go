package chains

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	ledgerrunner "github.com/skip-mev/txgen/chains/ledger/runner"
	ledgertypes "github.com/skip-mev/txgen/chains/ledger/types"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

// ResultsFile is the name of the results file written to the results directory.
const ResultsFile = "load_test.json"

// Runner defines the interface that all strategy runners must implement
type Runner interface {
	Run(ctx context.Context) (loadtesttypes.LoadTestResult, error)
	PrintResults(result loadtesttypes.LoadTestResult)
	Close()
}

// LoadTest represents a load test that can be executed for any strategy kind
type LoadTest struct {
	runner Runner
	spec   loadtesttypes.LoadTestSpec
}

// NewLoadTest creates a new load test from a LoadTestSpec. Strategies with a bootstrap deploy their
// program here, before Run.
func NewLoadTest(ctx context.Context, logger *zap.Logger, spec loadtesttypes.LoadTestSpec) (*LoadTest, error) {
	switch spec.Kind {
	case ledgertypes.KindTransfer, ledgertypes.KindMint, ledgertypes.KindAssetTransfer:
		runner, err := ledgerrunner.NewRunner(ctx, logger, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s runner: %w", spec.Kind, err)
		}
		return newLoadTest(runner, spec), nil
	default:
		return nil, fmt.Errorf("%w: unsupported kind: %s", ledgertypes.ErrConfig, spec.Kind)
	}
}

func newLoadTest(runner Runner, spec loadtesttypes.LoadTestSpec) *LoadTest {
	return &LoadTest{runner: runner, spec: spec}
}

// Run executes the load test and returns the results
func (lt *LoadTest) Run(ctx context.Context, logger *zap.Logger) (loadtesttypes.LoadTestResult, error) {
	defer lt.runner.Close()

	if lt.spec.MetricsAddr != "" {
		srv := StartPrometheusServer(lt.spec.MetricsAddr, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("starting new load test run")
	results, err := lt.runner.Run(ctx)
	if err != nil {
		results.Error = err.Error()
	}
	logger.Info("runner results", zap.Any("results", results))

	lt.runner.PrintResults(results)

	logger.Info("load test run completed, saving results")

	if saveErr := SaveResults(results, lt.spec.ResultsDir, logger); saveErr != nil {
		return results, fmt.Errorf("failed to save results: %w", saveErr)
	}

	return results, err
}

// SaveResults saves the load test results to <dir>/load_test.json
func SaveResults(results loadtesttypes.LoadTestResult, dir string, logger *zap.Logger) error {
	if dir == "" {
		dir = loadtesttypes.DefaultResultsDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("failed to create results directory",
			zap.String("dir", dir),
			zap.Error(err))
		return err
	}

	jsonData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		logger.Error("failed to marshal results to JSON",
			zap.Error(err))
		return err
	}

	filePath := filepath.Join(dir, ResultsFile)
	if err := os.WriteFile(filePath, jsonData, 0o644); err != nil { //nolint:gosec // G306: results are not secret
		logger.Error("failed to write results to file",
			zap.String("path", filePath),
			zap.Error(err))
		return err
	}

	logger.Debug("successfully saved load test results",
		zap.String("path", filePath))

	return nil
}
