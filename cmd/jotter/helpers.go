// Shared helpers for jotter CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jotterhq/jotter/internal/flatfile"
	"github.com/jotterhq/jotter/internal/logging"
	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/internal/sqlite"
	"github.com/jotterhq/jotter/pkg/types"
)

const sessionFileName = "session"

// openServices resolves the configuration, opens the configured backend,
// and builds the service bundle. The caller must defer store.Close().
func openServices() (types.Store, *service.Services, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}
	filesDir := configFilesDir
	if filesDir == "" {
		filesDir = filepath.Join(dataDir, "files")
	}

	cfg := types.Config{
		Backend:  configBackend,
		DataDir:  dataDir,
		FilesDir: filesDir,
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := commandLogger()

	var store types.Store
	switch cfg.Backend {
	case types.BackendFlatFile:
		store = flatfile.NewStore(logger)
	case types.BackendSQLite:
		store = sqlite.NewStore(logger)
	}
	if err := store.Open(cfg); err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	return store, service.New(store, cfg, logger), nil
}

func sessionPath() (string, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, sessionFileName), nil
}

// saveSession stores the login token for subsequent commands.
func saveSession(token string) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func clearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// currentUser resolves the stored session token to a user. A missing or
// stale session reports ErrUnauthorized; the fix is `jotter login`.
func currentUser(svc *service.Services) (types.User, error) {
	path, err := sessionPath()
	if err != nil {
		return types.User{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.User{}, fmt.Errorf("%w: not logged in", types.ErrUnauthorized)
		}
		return types.User{}, err
	}
	return svc.Users.Authenticate(strings.TrimSpace(string(raw)))
}

// printResult writes v as indented JSON under --json, otherwise prints the
// plain lines.
func printResult(v any, plain ...string) error {
	if flagJSON {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	for _, line := range plain {
		fmt.Println(line)
	}
	return nil
}

// commandLogger keeps command output clean unless development logging is on.
func commandLogger() *zap.Logger {
	if configDevLog {
		logger, err := logging.New(true)
		if err == nil {
			return logger
		}
	}
	return zap.NewNop()
}
