package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jotterhq/jotter/internal/validate"
	"github.com/jotterhq/jotter/pkg/types"
)

// SubtaskService implements the checklist items attached to a task.
// Subtasks carry the owner's id alongside the task id; the stored user_id
// is authoritative and every operation also verifies the parent task.
type SubtaskService struct {
	store  types.Store
	logger *zap.Logger
}

// Create adds a subtask under a live, caller-owned task.
func (s *SubtaskService) Create(userID, taskID, title string) (types.Subtask, error) {
	if err := validate.ID(userID); err != nil {
		return types.Subtask{}, err
	}
	if err := validate.ID(taskID); err != nil {
		return types.Subtask{}, err
	}
	if err := validate.Title(title); err != nil {
		return types.Subtask{}, err
	}
	if _, err := ownedTask(s.store, userID, taskID); err != nil {
		return types.Subtask{}, err
	}

	id, err := newID()
	if err != nil {
		return types.Subtask{}, err
	}
	sub := types.Subtask{
		ID:     id,
		TaskID: taskID,
		UserID: userID,
		Title:  title,
	}

	tbl, err := s.store.Table(types.SubtasksTable)
	if err != nil {
		return types.Subtask{}, err
	}
	if err := tbl.Append(sub.Record()); err != nil {
		return types.Subtask{}, err
	}
	s.logger.Info("subtask created", zap.String("subtask_id", id), zap.String("task_id", taskID))
	return sub, nil
}

// List returns the subtasks of a live, caller-owned task.
func (s *SubtaskService) List(userID, taskID string) ([]types.Subtask, error) {
	if err := validate.ID(userID); err != nil {
		return nil, err
	}
	if err := validate.ID(taskID); err != nil {
		return nil, err
	}
	if _, err := ownedTask(s.store, userID, taskID); err != nil {
		return nil, err
	}

	tbl, err := s.store.Table(types.SubtasksTable)
	if err != nil {
		return nil, err
	}
	recs, err := tbl.Select(types.Match{"task_id": taskID, "user_id": userID})
	if err != nil {
		return nil, err
	}
	subs := make([]types.Subtask, len(recs))
	for i, rec := range recs {
		subs[i] = types.SubtaskFromRecord(rec)
	}
	return subs, nil
}

// Complete marks a subtask done. The match pins the subtask to both the
// task and the owner, so a foreign id completes nothing and reports not
// found, same as a missing one.
func (s *SubtaskService) Complete(userID, taskID, subtaskID string) error {
	if err := validate.ID(userID); err != nil {
		return err
	}
	if err := validate.ID(taskID); err != nil {
		return err
	}
	if err := validate.ID(subtaskID); err != nil {
		return err
	}
	if _, err := ownedTask(s.store, userID, taskID); err != nil {
		return err
	}

	tbl, err := s.store.Table(types.SubtasksTable)
	if err != nil {
		return err
	}
	n, err := tbl.Update(
		types.Match{"id": subtaskID, "task_id": taskID, "user_id": userID},
		types.Record{"completed": types.FlagSet},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: subtask", types.ErrNotFound)
	}
	return nil
}
