package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jotterhq/jotter/pkg/types"
)

// dbFileName is the database file created under the data directory.
const dbFileName = "jotter.db"

// Store implements types.Store over one SQLite database.
type Store struct {
	mu     sync.RWMutex
	open   bool
	config types.Config
	logger *zap.Logger
	db     *sql.DB
	tables map[string]*table
}

// NewStore creates an unopened SQLite store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		logger: logger,
		tables: make(map[string]*table),
	}
}

// Open creates the data directory, opens the database, and applies the
// schema. Existing data is kept; the DDL is idempotent.
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

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("%w: opening database: %v", types.ErrStorageFailure, err)
	}
	// One writer at a time keeps modernc's serialization simple and matches
	// the whole-file lock discipline of the flat-file backend.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("%w: applying schema: %v", types.ErrStorageFailure, err)
		}
	}

	s.db = db
	s.config = config
	s.open = true
	for _, name := range types.StandardTableNames {
		s.tables[name] = &table{store: s, schema: types.Schemas[name]}
	}
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

// Close closes the database connection. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	s.tables = make(map[string]*table)
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.db = nil
			return fmt.Errorf("%w: closing database: %v", types.ErrStorageFailure, err)
		}
		s.db = nil
	}
	return nil
}
