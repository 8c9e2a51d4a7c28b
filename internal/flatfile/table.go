package flatfile

import (
	"go.uber.org/zap"

	"github.com/jotterhq/jotter/pkg/types"
)

// table makes one text file behave like an unordered multiset of records.
// Every operation runs under exactly one session acquisition; operations on
// the same file are fully serialized, operations on different files are
// unordered relative to each other.
type table struct {
	path   string
	schema types.Schema
	locks  *lockRegistry
	logger *zap.Logger
}

// Select re-reads the file fresh and returns decoded records matching the
// filter. Corrupt lines are logged and skipped, never fatal. A missing file
// yields an empty result.
func (t *table) Select(match types.Match) ([]types.Record, error) {
	sess, err := t.locks.acquire(t.path)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	lines, err := sess.readLines()
	if err != nil {
		return nil, err
	}

	var out []types.Record
	for i, line := range lines {
		if line == "" {
			continue
		}
		rec, err := decodeRecord(t.schema, line)
		if err != nil {
			t.logger.Warn("skipping corrupt record",
				zap.String("table", t.schema.Table),
				zap.Int("line", i+1),
				zap.Error(err))
			continue
		}
		if match.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Append encodes the record and writes one line. It checks no invariants
// about existing content; existence and uniqueness scans belong to the
// services, which either run them session-serialized against this table or
// accept the documented cross-table race window.
func (t *table) Append(rec types.Record) error {
	line, err := encodeRecord(t.schema, rec)
	if err != nil {
		return err
	}

	sess, err := t.locks.acquire(t.path)
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.appendLine(line)
}

// Update sets the given columns on every matching record under one
// continuous lock: read, transform, then atomically replace the file.
// Non-matching and corrupt lines are carried over verbatim, so an update
// that matches nothing leaves the file byte-identical. Returns the number
// of records changed.
func (t *table) Update(match types.Match, set types.Record) (int, error) {
	for col, v := range set {
		if err := checkField(col, v); err != nil {
			return 0, err
		}
	}

	sess, err := t.locks.acquire(t.path)
	if err != nil {
		return 0, err
	}
	defer sess.Close()

	lines, err := sess.readLines()
	if err != nil {
		return 0, err
	}

	changed := 0
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		rec, decErr := decodeRecord(t.schema, line)
		if line == "" || decErr != nil || !match.Matches(rec) {
			out = append(out, line)
			continue
		}
		for col, v := range set {
			rec[col] = v
		}
		encoded, err := encodeRecord(t.schema, rec)
		if err != nil {
			return 0, err
		}
		out = append(out, encoded)
		changed++
	}

	if changed == 0 {
		return 0, nil
	}
	if err := sess.replaceLines(out); err != nil {
		return 0, err
	}
	return changed, nil
}

// Delete removes every matching record in the same rewrite that reads it
// and returns the removed records, so a caller can consume a record exactly
// once. Zero matches succeeds without touching the file.
func (t *table) Delete(match types.Match) ([]types.Record, error) {
	sess, err := t.locks.acquire(t.path)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	lines, err := sess.readLines()
	if err != nil {
		return nil, err
	}

	var removed []types.Record
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		rec, decErr := decodeRecord(t.schema, line)
		if line == "" || decErr != nil || !match.Matches(rec) {
			out = append(out, line)
			continue
		}
		removed = append(removed, rec)
	}

	if len(removed) == 0 {
		return nil, nil
	}
	if err := sess.replaceLines(out); err != nil {
		return nil, err
	}
	return removed, nil
}
