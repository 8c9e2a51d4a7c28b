package sqlite

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jotterhq/jotter/pkg/types"
)

// table implements types.Table for one relational table. The same equality
// filters the flat-file backend evaluates in Go become WHERE clauses here;
// update and delete use the backend's native atomicity (one conditional
// statement, or one transaction for read-and-remove), which closes the
// check-then-mutate race the flat-file path documents.
type table struct {
	store  *Store
	schema types.Schema
}

func (t *table) Select(match types.Match) ([]types.Record, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if !t.store.open {
		return nil, types.ErrStoreClosed
	}

	where, args := whereClause(match)
	query := fmt.Sprintf("SELECT %s FROM %s%s",
		strings.Join(t.schema.Columns, ", "), t.schema.Table, where)

	rows, err := t.store.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	defer rows.Close()

	var out []types.Record
	values := make([]string, len(t.schema.Columns))
	dest := make([]any, len(t.schema.Columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			// A row the schema cannot hold is the relational analogue of a
			// corrupt line: logged and skipped, never fatal to the scan.
			t.store.logger.Warn("skipping unreadable row",
				zap.String("table", t.schema.Table), zap.Error(err))
			continue
		}
		rec := make(types.Record, len(t.schema.Columns))
		for i, col := range t.schema.Columns {
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s rows: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	return out, nil
}

func (t *table) Append(rec types.Record) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if !t.store.open {
		return types.ErrStoreClosed
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.schema.Columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.schema.Table, strings.Join(t.schema.Columns, ", "), placeholders)

	args := make([]any, len(t.schema.Columns))
	for i, col := range t.schema.Columns {
		args[i] = rec[col]
	}
	if _, err := t.store.db.Exec(query, args...); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %s", types.ErrConflict, t.schema.Table)
		}
		return fmt.Errorf("%w: inserting into %s: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	return nil
}

func (t *table) Update(match types.Match, set types.Record) (int, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if !t.store.open {
		return 0, types.ErrStoreClosed
	}

	setCols, setArgs := assignments(set)
	where, whereArgs := whereClause(match)
	query := fmt.Sprintf("UPDATE %s SET %s%s", t.schema.Table, setCols, where)

	res, err := t.store.db.Exec(query, append(setArgs, whereArgs...)...)
	if err != nil {
		return 0, fmt.Errorf("%w: updating %s: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: row count for %s: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	return int(n), nil
}

func (t *table) Delete(match types.Match) ([]types.Record, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if !t.store.open {
		return nil, types.ErrStoreClosed
	}

	// Read and remove inside one transaction so a matched record is
	// consumed exactly once, matching the flat-file single-rewrite
	// guarantee.
	tx, err := t.store.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: beginning delete on %s: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	defer tx.Rollback()

	where, args := whereClause(match)
	query := fmt.Sprintf("SELECT %s FROM %s%s",
		strings.Join(t.schema.Columns, ", "), t.schema.Table, where)
	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", types.ErrStorageFailure, t.schema.Table, err)
	}

	var removed []types.Record
	values := make([]string, len(t.schema.Columns))
	dest := make([]any, len(t.schema.Columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: scanning %s row: %v", types.ErrStorageFailure, t.schema.Table, err)
		}
		rec := make(types.Record, len(t.schema.Columns))
		for i, col := range t.schema.Columns {
			rec[col] = values[i]
		}
		removed = append(removed, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: reading %s rows: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	rows.Close()

	if len(removed) == 0 {
		return nil, nil
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s%s", t.schema.Table, where), args...); err != nil {
		return nil, fmt.Errorf("%w: deleting from %s: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing delete on %s: %v", types.ErrStorageFailure, t.schema.Table, err)
	}
	return removed, nil
}

// whereClause builds a deterministic WHERE clause from the filter. Columns
// are sorted so identical filters produce identical SQL.
func whereClause(match types.Match) (string, []any) {
	if len(match) == 0 {
		return "", nil
	}
	cols := make([]string, 0, len(match))
	for col := range match {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	conds := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		conds[i] = col + " = ?"
		args[i] = match[col]
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// assignments builds the SET clause from the update columns, sorted for
// determinism.
func assignments(set types.Record) (string, []any) {
	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		parts[i] = col + " = ?"
		args[i] = set[col]
	}
	return strings.Join(parts, ", "), args
}

// isConstraintViolation reports whether the error is any SQLITE_CONSTRAINT
// result (unique, primary key).
func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
