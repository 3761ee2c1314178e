package types

import "fmt"

// StrategyConfig is the kind specific part of a LoadTestSpec, decoded from `strategy_config`.
type StrategyConfig interface {
	Validate(LoadTestSpec) error
	IsStrategyConfig()
}

// Factory returns a fresh concrete StrategyConfig for a given kind (e.g. "transfer", "mint").
type Factory func() StrategyConfig

var registry = map[string]Factory{}

func Register(kind string, fn Factory) {
	// overwriting is fine...
	registry[kind] = fn
}

func NewForKind(kind string) (StrategyConfig, error) {
	fn, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown strategy_config kind %q", kind)
	}
	return fn(), nil
}

// Kinds returns the registered kinds.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	return kinds
}
