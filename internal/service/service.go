// Package service implements the entity operations on top of a types.Store.
// Services compose table operations with cross-entity referential checks;
// they never reach around the Table interface, so every operation behaves
// identically under the flat-file and relational backends.
//
// Consistency note: a check against one table followed by an append to
// another spans two lock acquisitions in the flat-file backend. A parent
// soft delete interleaved between the two can leave a child whose parent
// vanished mid-create. This is an accepted weak-consistency property, not a
// defect; reads always re-check the parent, so such children stay hidden.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jotterhq/jotter/pkg/types"
)

// Services bundles every entity service over one store.
type Services struct {
	Users    *UserService
	Tasks    *TaskService
	Notes    *NoteService
	Subtasks *SubtaskService
	Files    *FileService
}

// New builds the service bundle. The config supplies the attachment
// directory; the store must already be open.
func New(store types.Store, config types.Config, logger *zap.Logger) *Services {
	return &Services{
		Users:    &UserService{store: store, logger: logger, now: time.Now},
		Tasks:    &TaskService{store: store, logger: logger, now: time.Now},
		Notes:    &NoteService{store: store, logger: logger, now: time.Now},
		Subtasks: &SubtaskService{store: store, logger: logger},
		Files:    &FileService{store: store, logger: logger, filesDir: config.FilesDir},
	}
}

// newID returns a fresh 16-hex-digit identifier. IDs are never reused; a
// soft-deleted record keeps its ID reserved forever.
func newID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: generating id: %v", types.ErrStorageFailure, err)
	}
	return hex.EncodeToString(b), nil
}

// liveMatch adds the not-deleted condition to an equality filter.
func liveMatch(m types.Match) types.Match {
	out := make(types.Match, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out["deleted"] = types.FlagClear
	return out
}

// ownedTask verifies that the task exists, belongs to the user, and is not
// soft-deleted. Absence and foreign ownership are indistinguishable to the
// caller. The check holds no lock beyond its own scan; see the package
// consistency note.
func ownedTask(store types.Store, userID, taskID string) (types.Task, error) {
	tbl, err := store.Table(types.TasksTable)
	if err != nil {
		return types.Task{}, err
	}
	recs, err := tbl.Select(liveMatch(types.Match{"id": taskID, "user_id": userID}))
	if err != nil {
		return types.Task{}, err
	}
	if len(recs) == 0 {
		return types.Task{}, fmt.Errorf("%w: task", types.ErrNotFound)
	}
	return types.TaskFromRecord(recs[0]), nil
}
