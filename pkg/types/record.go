package types

// Record is one row of a table, keyed by column name. Values are stored as
// text in both backends; numeric columns hold decimal strings and flag
// columns hold "0" or "1".
type Record map[string]string

// Match is an equality filter over record columns. An empty Match matches
// every record.
type Match map[string]string

// Matches reports whether every column in m equals the record's value.
func (m Match) Matches(rec Record) bool {
	for col, want := range m {
		if rec[col] != want {
			return false
		}
	}
	return true
}

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Schema fixes the column order of one table. The flat-file backend encodes
// records as the schema-ordered fields joined by the delimiter; the
// relational backend derives its column lists from the same schema.
type Schema struct {
	Table   string
	Columns []string
}

// Flag values for deleted and completed columns.
const (
	FlagClear = "0"
	FlagSet   = "1"
)

// Standard table names.
const (
	UsersTable       = "users"
	TasksTable       = "tasks"
	NotesTable       = "notes"
	SubtasksTable    = "subtasks"
	SharedNotesTable = "shared_notes"
	FilesTable       = "files"
	ResetTokensTable = "reset_tokens"
)

// Schemas maps each standard table name to its fixed schema. Adding or
// removing a column is a backward-incompatible format change.
var Schemas = map[string]Schema{
	UsersTable: {
		Table:   UsersTable,
		Columns: []string{"id", "username", "password_hash", "email", "token", "locale", "theme"},
	},
	TasksTable: {
		Table:   TasksTable,
		Columns: []string{"id", "user_id", "title", "description", "status", "created_at", "deleted"},
	},
	NotesTable: {
		Table:   NotesTable,
		Columns: []string{"id", "user_id", "task_id", "content", "created_at", "deleted"},
	},
	SubtasksTable: {
		Table:   SubtasksTable,
		Columns: []string{"id", "task_id", "user_id", "title", "completed"},
	},
	SharedNotesTable: {
		Table:   SharedNotesTable,
		Columns: []string{"note_id", "sharer_id", "target_id"},
	},
	FilesTable: {
		Table:   FilesTable,
		Columns: []string{"id", "user_id", "task_id", "filename", "mime", "path"},
	},
	ResetTokensTable: {
		Table:   ResetTokensTable,
		Columns: []string{"user_id", "token", "expiry"},
	},
}

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	UsersTable,
	TasksTable,
	NotesTable,
	SubtasksTable,
	SharedNotesTable,
	FilesTable,
	ResetTokensTable,
}
