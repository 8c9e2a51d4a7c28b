package types

// FileRef is the stored metadata of an uploaded attachment. Path is the
// on-disk location under the per-owner directory; Filename is the name the
// file was uploaded with, possibly de-duplicated with a counter suffix.
type FileRef struct {
	ID       string
	UserID   string
	TaskID   string
	Filename string
	MIME     string
	Path     string
}

// Record converts the file reference to its storage form.
func (f FileRef) Record() Record {
	return Record{
		"id":       f.ID,
		"user_id":  f.UserID,
		"task_id":  f.TaskID,
		"filename": f.Filename,
		"mime":     f.MIME,
		"path":     f.Path,
	}
}

// FileRefFromRecord converts a storage record to a FileRef.
func FileRefFromRecord(rec Record) FileRef {
	return FileRef{
		ID:       rec["id"],
		UserID:   rec["user_id"],
		TaskID:   rec["task_id"],
		Filename: rec["filename"],
		MIME:     rec["mime"],
		Path:     rec["path"],
	}
}
