package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	t.Run("flatfile backend", func(t *testing.T) {
		cfg := Config{Backend: BackendFlatFile, DataDir: "/tmp/data"}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected valid config, got %v", err)
		}
	})

	t.Run("sqlite backend", func(t *testing.T) {
		cfg := Config{Backend: BackendSQLite}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected valid config, got %v", err)
		}
	})

	t.Run("empty backend", func(t *testing.T) {
		cfg := Config{}
		if err := cfg.Validate(); !errors.Is(err, ErrBackendEmpty) {
			t.Fatalf("expected ErrBackendEmpty, got %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := Config{Backend: "postgres"}
		if err := cfg.Validate(); !errors.Is(err, ErrBackendUnknown) {
			t.Fatalf("expected ErrBackendUnknown, got %v", err)
		}
	})
}
