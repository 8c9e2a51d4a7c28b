package flatfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/jotterhq/jotter/pkg/types"
)

// fileExt is the extension of table files under the data directory.
const fileExt = ".txt"

// Store implements types.Store over one directory of table files.
type Store struct {
	mu     sync.RWMutex
	open   bool
	config types.Config
	logger *zap.Logger
	locks  *lockRegistry
	tables map[string]*table
}

// NewStore creates an unopened flat-file store. The logger is required; the
// store reports skipped corrupt records through it.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		logger: logger,
		locks:  newLockRegistry(),
		tables: make(map[string]*table),
	}
}

// Open creates the data directory and an empty file per standard table,
// then builds the table accessors. Existing files are left untouched.
func (s *Store) Open(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return types.ErrAlreadyOpen
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating data dir %s: %v", types.ErrStorageFailure, dataDir, err)
	}

	for _, name := range types.StandardTableNames {
		path := filepath.Join(dataDir, name+fileExt)
		if err := touch(path); err != nil {
			return err
		}
		s.tables[name] = &table{
			path:   path,
			schema: types.Schemas[name],
			locks:  s.locks,
			logger: s.logger,
		}
	}

	s.config = config
	s.open = true
	return nil
}

// Table returns the accessor for the given standard table name.
func (s *Store) Table(name string) (types.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, types.ErrStoreClosed
	}
	t, ok := s.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

// Close marks the store closed. Idempotent; no file handles outlive an
// operation, so there is nothing else to release.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	s.tables = make(map[string]*table)
	return nil
}

// touch creates an empty file if the path does not exist yet.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", types.ErrStorageFailure, path, err)
	}
	return f.Close()
}
