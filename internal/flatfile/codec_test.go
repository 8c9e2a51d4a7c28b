package flatfile

import (
	"errors"
	"testing"

	"github.com/jotterhq/jotter/pkg/types"
)

var subtaskSchema = types.Schemas[types.SubtasksTable]

func TestEncodeRecord(t *testing.T) {
	t.Run("schema order", func(t *testing.T) {
		rec := types.Record{
			"id": "aaaa", "task_id": "bbbb", "user_id": "cccc",
			"title": "buy milk", "completed": "0",
		}
		line, err := encodeRecord(subtaskSchema, rec)
		if err != nil {
			t.Fatal(err)
		}
		if line != "aaaa:bbbb:cccc:buy milk:0" {
			t.Fatalf("unexpected line %q", line)
		}
	})

	t.Run("missing column encodes empty", func(t *testing.T) {
		line, err := encodeRecord(subtaskSchema, types.Record{"id": "aaaa"})
		if err != nil {
			t.Fatal(err)
		}
		if line != "aaaa::::" {
			t.Fatalf("unexpected line %q", line)
		}
	})

	t.Run("delimiter in field rejected", func(t *testing.T) {
		rec := types.Record{"id": "aaaa", "title": "a:b"}
		_, err := encodeRecord(subtaskSchema, rec)
		if !errors.Is(err, types.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("newline in field rejected", func(t *testing.T) {
		rec := types.Record{"id": "aaaa", "title": "a\nb"}
		_, err := encodeRecord(subtaskSchema, rec)
		if !errors.Is(err, types.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestDecodeRecord(t *testing.T) {
	t.Run("well-formed line", func(t *testing.T) {
		rec, err := decodeRecord(subtaskSchema, "aaaa:bbbb:cccc:buy milk:1")
		if err != nil {
			t.Fatal(err)
		}
		if rec["title"] != "buy milk" || rec["completed"] != "1" {
			t.Fatalf("unexpected record %v", rec)
		}
	})

	t.Run("short line is corrupt", func(t *testing.T) {
		_, err := decodeRecord(subtaskSchema, "aaaa:bbbb")
		if !errors.Is(err, types.ErrCorruptRecord) {
			t.Fatalf("expected ErrCorruptRecord, got %v", err)
		}
	})

	t.Run("extra fields tolerated", func(t *testing.T) {
		rec, err := decodeRecord(subtaskSchema, "aaaa:bbbb:cccc:title:0:future")
		if err != nil {
			t.Fatal(err)
		}
		if rec["completed"] != "0" {
			t.Fatalf("unexpected record %v", rec)
		}
		if _, ok := rec["future"]; ok {
			t.Fatal("extra field should be ignored")
		}
	})

	t.Run("empty fields preserved", func(t *testing.T) {
		rec, err := decodeRecord(subtaskSchema, "aaaa::cccc::0")
		if err != nil {
			t.Fatal(err)
		}
		if rec["task_id"] != "" || rec["title"] != "" {
			t.Fatalf("unexpected record %v", rec)
		}
	})
}
