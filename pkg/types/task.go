package types

import (
	"strconv"
	"time"
)

// Task states.
const (
	TaskStatusPending = "pending"
	TaskStatusDone    = "done"
)

// Task is a top-level work item owned by exactly one user. Deletion is a
// soft delete: the record stays on disk with the flag set and its ID stays
// reserved, but normal queries exclude it and hide its notes and subtasks.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
	Deleted     bool
}

// Record converts the task to its storage form. Timestamps are stored as
// Unix seconds; the delimiter rules out RFC 3339 text.
func (t Task) Record() Record {
	return Record{
		"id":          t.ID,
		"user_id":     t.UserID,
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"created_at":  strconv.FormatInt(t.CreatedAt.Unix(), 10),
		"deleted":     flag(t.Deleted),
	}
}

// TaskFromRecord converts a storage record to a Task.
func TaskFromRecord(rec Record) Task {
	return Task{
		ID:          rec["id"],
		UserID:      rec["user_id"],
		Title:       rec["title"],
		Description: rec["description"],
		Status:      rec["status"],
		CreatedAt:   unixTime(rec["created_at"]),
		Deleted:     rec["deleted"] == FlagSet,
	}
}

func flag(b bool) string {
	if b {
		return FlagSet
	}
	return FlagClear
}

func unixTime(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
