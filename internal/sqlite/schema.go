// Package sqlite implements the relational storage backend. It exposes the
// same table contract as the flat-file backend, using single-statement
// conditional updates and transactions where the flat-file path relies on
// whole-file locks.
package sqlite

// Schema DDL, applied idempotently on every Open. Column sets mirror the
// flat-file schemas in pkg/types; flag and time columns are INTEGER.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    email TEXT NOT NULL,
    token TEXT NOT NULL DEFAULT '',
    locale TEXT NOT NULL DEFAULT 'en',
    theme TEXT NOT NULL DEFAULT 'light'
);`

	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    deleted INTEGER NOT NULL DEFAULT 0
);`

	createNotes = `CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    task_id TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    deleted INTEGER NOT NULL DEFAULT 0
);`

	createSubtasks = `CREATE TABLE IF NOT EXISTS subtasks (
    id TEXT PRIMARY KEY,
    task_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0
);`

	createSharedNotes = `CREATE TABLE IF NOT EXISTS shared_notes (
    note_id TEXT NOT NULL,
    sharer_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    PRIMARY KEY (note_id, target_id)
);`

	createFiles = `CREATE TABLE IF NOT EXISTS files (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    task_id TEXT NOT NULL,
    filename TEXT NOT NULL,
    mime TEXT NOT NULL,
    path TEXT NOT NULL
);`

	createResetTokens = `CREATE TABLE IF NOT EXISTS reset_tokens (
    user_id TEXT PRIMARY KEY,
    token TEXT NOT NULL,
    expiry INTEGER NOT NULL
);`
)

// schemaStatements lists the DDL in creation order.
var schemaStatements = []string{
	createUsers,
	createTasks,
	createNotes,
	createSubtasks,
	createSharedNotes,
	createFiles,
	createResetTokens,
}
