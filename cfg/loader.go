package cfg

import (
	"errors"
	"sync"
)

var (
	loader     Loader
	loaderOnce sync.Once
)

// Loader produces the config of the process: from files and environment, or fixed values in tests.
type Loader interface {
	Load() (*Config, error)
}

// NewLoader registers the process-wide loader. The first registered loader wins.
func NewLoader(l Loader) (Loader, error) {
	if l == nil {
		return nil, errors.New("[ERROR][CONFIG] nil loader")
	}
	loaderOnce.Do(func() {
		loader = l
	})
	return loader, nil
}

// LoadWithArgs loads the config and binds the positional command line values onto it.
// Nothing is returned when an argument is missing, so a run never starts half configured.
func LoadWithArgs(l Loader, args []string) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}
	if err := config.ApplyArgs(args); err != nil {
		return nil, err
	}
	return config, nil
}
