package types

// Subtask is a checklist item under a task. UserID denormalizes the owner;
// it is the authoritative ownership column, with the parent task checked on
// creation and on each operation.
type Subtask struct {
	ID        string
	TaskID    string
	UserID    string
	Title     string
	Completed bool
}

// Record converts the subtask to its storage form.
func (s Subtask) Record() Record {
	return Record{
		"id":        s.ID,
		"task_id":   s.TaskID,
		"user_id":   s.UserID,
		"title":     s.Title,
		"completed": flag(s.Completed),
	}
}

// SubtaskFromRecord converts a storage record to a Subtask.
func SubtaskFromRecord(rec Record) Subtask {
	return Subtask{
		ID:        rec["id"],
		TaskID:    rec["task_id"],
		UserID:    rec["user_id"],
		Title:     rec["title"],
		Completed: rec["completed"] == FlagSet,
	}
}
