package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/skip-mev/txgen/chains"
	logging "github.com/skip-mev/txgen/chains/log"
	"github.com/skip-mev/txgen/chains/types"
	"github.com/skip-mev/txgen/config"
)

func main() {
	env := config.ParseEnv()
	logging.SetLogDir(env.LogDir)

	logger, _ := logging.DefaultLogger(env.DevLogging)
	defer logging.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = config.WithEnv(ctx, env)
	ctx = logging.WithLogger(ctx, logger)

	resultsDir := types.DefaultResultsDir
	exitIfErr := func(err error, message string) {
		if err == nil {
			return
		}

		err = errors.Wrap(err, message)
		saveConfigError(err, resultsDir, logger)
		stop()
		logger.Fatal("Failure", zap.Error(err))
	}

	var ran bool
	root := newRootCmd(func(ctx context.Context, spec types.LoadTestSpec) error {
		resultsDir = spec.ResultsDir

		test, err := chains.NewLoadTest(ctx, logger, spec)
		exitIfErr(err, "failed to create "+spec.Kind+" test")

		ran = true
		_, err = test.Run(ctx, logger)
		return err
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if ran {
			// the results file already carries the error.
			stop()
			logger.Fatal("failed to run load test", zap.Error(err))
		}
		exitIfErr(err, "invalid invocation")
	}
}

func saveConfigError(err error, dir string, logger *zap.Logger) {
	out := types.LoadTestResult{
		Error: err.Error(),
	}

	if errSave := chains.SaveResults(out, dir, logger); errSave != nil {
		logger.Error("failed to save results", zap.Error(errSave))
	}
}
