package service

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jotterhq/jotter/internal/validate"
	"github.com/jotterhq/jotter/pkg/types"
)

// Sort orders accepted by List operations.
const (
	SortByCreated = "created_at"
	SortByTitle   = "title"
)

// TaskService implements task CRUD. Deletion is a soft delete: the record
// keeps its ID and stays on disk, but normal queries exclude it and its
// notes and subtasks become invisible through the parent check.
type TaskService struct {
	store  types.Store
	logger *zap.Logger
	now    func() time.Time
}

// Create adds a task owned by the user.
func (s *TaskService) Create(userID, title, description string) (types.Task, error) {
	if err := validate.ID(userID); err != nil {
		return types.Task{}, err
	}
	if err := validate.Title(title); err != nil {
		return types.Task{}, err
	}
	if err := validate.Description(description); err != nil {
		return types.Task{}, err
	}

	id, err := newID()
	if err != nil {
		return types.Task{}, err
	}
	task := types.Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      types.TaskStatusPending,
		CreatedAt:   s.now().Truncate(time.Second),
	}

	tbl, err := s.store.Table(types.TasksTable)
	if err != nil {
		return types.Task{}, err
	}
	if err := tbl.Append(task.Record()); err != nil {
		return types.Task{}, err
	}
	s.logger.Info("task created", zap.String("task_id", id), zap.String("user_id", userID))
	return task, nil
}

// Get returns one live task owned by the user.
func (s *TaskService) Get(userID, taskID string) (types.Task, error) {
	if err := validate.ID(userID); err != nil {
		return types.Task{}, err
	}
	if err := validate.ID(taskID); err != nil {
		return types.Task{}, err
	}
	return ownedTask(s.store, userID, taskID)
}

// List returns the user's live tasks, sorted by creation time (newest
// first) or by title.
func (s *TaskService) List(userID, sortBy string) ([]types.Task, error) {
	if err := validate.ID(userID); err != nil {
		return nil, err
	}
	if sortBy == "" {
		sortBy = SortByCreated
	}
	if sortBy != SortByCreated && sortBy != SortByTitle {
		return nil, fmt.Errorf("%w: sort order %q", types.ErrInvalidArgument, sortBy)
	}

	tbl, err := s.store.Table(types.TasksTable)
	if err != nil {
		return nil, err
	}
	recs, err := tbl.Select(liveMatch(types.Match{"user_id": userID}))
	if err != nil {
		return nil, err
	}

	tasks := make([]types.Task, len(recs))
	for i, rec := range recs {
		tasks[i] = types.TaskFromRecord(rec)
	}
	if sortBy == SortByTitle {
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].Title < tasks[j].Title })
	} else {
		sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	}
	return tasks, nil
}

// Complete marks a live task done. Only the owner may complete a task;
// anyone else sees not-found.
func (s *TaskService) Complete(userID, taskID string) error {
	if err := validate.ID(userID); err != nil {
		return err
	}
	if err := validate.ID(taskID); err != nil {
		return err
	}

	tbl, err := s.store.Table(types.TasksTable)
	if err != nil {
		return err
	}
	n, err := tbl.Update(
		liveMatch(types.Match{"id": taskID, "user_id": userID}),
		types.Record{"status": types.TaskStatusDone},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: task", types.ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a live task. A second delete of the same task
// reports not-found and changes nothing else. Existing notes and subtasks
// are kept but hidden from normal queries; creating new children fails
// from this point on, subject to the package consistency note.
func (s *TaskService) Delete(userID, taskID string) error {
	if err := validate.ID(userID); err != nil {
		return err
	}
	if err := validate.ID(taskID); err != nil {
		return err
	}

	tbl, err := s.store.Table(types.TasksTable)
	if err != nil {
		return err
	}
	n, err := tbl.Update(
		liveMatch(types.Match{"id": taskID, "user_id": userID}),
		types.Record{"deleted": types.FlagSet},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: task", types.ErrNotFound)
	}
	s.logger.Info("task deleted", zap.String("task_id", taskID), zap.String("user_id", userID))
	return nil
}
