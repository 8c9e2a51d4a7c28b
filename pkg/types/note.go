package types

import (
	"strconv"
	"time"
)

// Note is a text note attached to a task. The parent task must exist, be
// owned by the note's owner, and not be deleted at the moment the note is
// created; the invariant is not re-checked afterwards.
type Note struct {
	ID        string
	UserID    string
	TaskID    string
	Content   string
	CreatedAt time.Time
	Deleted   bool
}

// Record converts the note to its storage form.
func (n Note) Record() Record {
	return Record{
		"id":         n.ID,
		"user_id":    n.UserID,
		"task_id":    n.TaskID,
		"content":    n.Content,
		"created_at": strconv.FormatInt(n.CreatedAt.Unix(), 10),
		"deleted":    flag(n.Deleted),
	}
}

// NoteFromRecord converts a storage record to a Note.
func NoteFromRecord(rec Record) Note {
	return Note{
		ID:        rec["id"],
		UserID:    rec["user_id"],
		TaskID:    rec["task_id"],
		Content:   rec["content"],
		CreatedAt: unixTime(rec["created_at"]),
		Deleted:   rec["deleted"] == FlagSet,
	}
}

// SharedNote is a visibility grant: the sharer makes one of their notes
// readable by the target user without transferring ownership. All edges for
// a note are removed when the note is deleted; readers additionally filter
// edges whose note is gone, so an orphan edge left by a partial delete is
// never served.
type SharedNote struct {
	NoteID   string
	SharerID string
	TargetID string
}

// Record converts the edge to its storage form.
func (s SharedNote) Record() Record {
	return Record{
		"note_id":   s.NoteID,
		"sharer_id": s.SharerID,
		"target_id": s.TargetID,
	}
}

// SharedNoteFromRecord converts a storage record to a SharedNote.
func SharedNoteFromRecord(rec Record) SharedNote {
	return SharedNote{
		NoteID:   rec["note_id"],
		SharerID: rec["sharer_id"],
		TargetID: rec["target_id"],
	}
}
