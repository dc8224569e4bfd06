package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: destination must not be nil")
	// ErrParsing wraps env parse failures.
	ErrParsing = errors.New("config: failed to parse environment")
)

var dotenvOnce sync.Once

// Load fills v from environment variables according to its `env` tags.
// A .env file in the working directory is loaded once per process if
// present; a missing file is not an error.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}

// MustLoad is Load that panics on failure. Use for configuration the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
