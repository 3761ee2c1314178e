package config

import (
	"context"
	"os"
	"strconv"
)

type Env struct {
	DevLogging bool
	LogDir     string
}

type Config struct {
	ConfigPath string
}

const (
	// EnvDevLogging enabled verbose & console logging
	EnvDevLogging = "DEV_LOGGING"

	// EnvLogDir overrides the directory log files are written to
	EnvLogDir = "TXGEN_LOG_DIR"
)

type envContextKey struct{}

func ParseEnv() Env {
	return Env{
		DevLogging: boolEnv(EnvDevLogging),
		LogDir:     os.Getenv(EnvLogDir),
	}
}

func WithEnv(ctx context.Context, env Env) context.Context {
	return context.WithValue(ctx, envContextKey{}, env)
}

func EnvFromContext(ctx context.Context) Env {
	if env, ok := ctx.Value(envContextKey{}).(Env); ok {
		return env
	}

	return Env{}
}

func boolEnv(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
