package flatfile

import (
	"fmt"
	"strings"

	"github.com/jotterhq/jotter/pkg/types"
)

// delimiter separates fields within a line. Field values must never contain
// it or a newline; the validation boundary rejects such input before it
// reaches storage, and the encoder refuses it as a second line of defense
// rather than escaping.
const delimiter = ":"

// encodeRecord serializes one record as the schema-ordered fields joined by
// the delimiter.
func encodeRecord(schema types.Schema, rec types.Record) (string, error) {
	fields := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		v := rec[col]
		if err := checkField(col, v); err != nil {
			return "", err
		}
		fields[i] = v
	}
	return strings.Join(fields, delimiter), nil
}

// decodeRecord parses one line against the schema. A line with fewer fields
// than the schema requires is corrupt; extra fields are tolerated and
// ignored so that a future trailing column does not invalidate old readers.
func decodeRecord(schema types.Schema, line string) (types.Record, error) {
	fields := strings.Split(line, delimiter)
	if len(fields) < len(schema.Columns) {
		return nil, fmt.Errorf("%w: %d fields, schema %s needs %d",
			types.ErrCorruptRecord, len(fields), schema.Table, len(schema.Columns))
	}
	rec := make(types.Record, len(schema.Columns))
	for i, col := range schema.Columns {
		rec[col] = fields[i]
	}
	return rec, nil
}

// checkField rejects values that cannot survive the line format.
func checkField(col, v string) error {
	if strings.Contains(v, delimiter) {
		return fmt.Errorf("%w: field %s contains the delimiter", types.ErrInvalidArgument, col)
	}
	if strings.ContainsAny(v, "\n\r") {
		return fmt.Errorf("%w: field %s contains a line break", types.ErrInvalidArgument, col)
	}
	return nil
}
