package types

// Store provides backend-agnostic access to the standard tables. Callers
// open a store with a Config, fetch tables by name, and close it when done.
type Store interface {
	// Table returns the Table for the given standard table name.
	// Returns ErrTableNotFound if the name is not recognized and
	// ErrStoreClosed if the store is not open.
	Table(name string) (Table, error)

	// Open attaches the store to the backend described by config, creating
	// the data directory if needed. Returns ErrAlreadyOpen on a second call.
	Open(config Config) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Table is one entity table as an unordered multiset of records. Both
// backends implement identical pre- and post-conditions; the only permitted
// behavioral divergence is the cross-table race window of the flat-file
// backend, where an existence check against one table and an append to
// another span two lock acquisitions.
type Table interface {
	// Select re-reads the table and returns the records matching the
	// equality filter, in storage order. A table that does not exist yet
	// yields an empty result, never an error. Corrupt records are skipped.
	Select(match Match) ([]Record, error)

	// Append adds one record. It performs no invariant checks against
	// existing content; the relational backend additionally rejects
	// storage-level uniqueness violations with ErrConflict.
	Append(rec Record) error

	// Update sets the given columns on every matching record and returns
	// the number of records changed. Zero matches is not an error. The
	// whole read-modify-write is atomic with respect to other operations
	// on the same table.
	Update(match Match, set Record) (int, error)

	// Delete removes every matching record and returns the removed
	// records. Read and removal happen in the same atomic rewrite (or
	// transaction), so a caller can consume a record exactly once.
	Delete(match Match) ([]Record, error)
}
