package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jotterhq/jotter/internal/validate"
	"github.com/jotterhq/jotter/pkg/types"
)

// NoteService implements notes and the share edges that grant other users
// read access to them.
type NoteService struct {
	store  types.Store
	logger *zap.Logger
	now    func() time.Time
}

// SharedNoteView is a note visible to a user through a share edge, together
// with the sharer's username.
type SharedNoteView struct {
	Note     types.Note
	SharedBy string
}

// Create adds a note under a task. The parent must exist, belong to the
// caller, and not be deleted at the moment of insertion; the invariant is
// checked here, not enforced continuously.
func (s *NoteService) Create(userID, taskID, content string) (types.Note, error) {
	if err := validate.ID(userID); err != nil {
		return types.Note{}, err
	}
	if err := validate.ID(taskID); err != nil {
		return types.Note{}, err
	}
	if err := validate.Content(content); err != nil {
		return types.Note{}, err
	}
	if _, err := ownedTask(s.store, userID, taskID); err != nil {
		return types.Note{}, err
	}

	id, err := newID()
	if err != nil {
		return types.Note{}, err
	}
	note := types.Note{
		ID:        id,
		UserID:    userID,
		TaskID:    taskID,
		Content:   content,
		CreatedAt: s.now().Truncate(time.Second),
	}

	tbl, err := s.store.Table(types.NotesTable)
	if err != nil {
		return types.Note{}, err
	}
	if err := tbl.Append(note.Record()); err != nil {
		return types.Note{}, err
	}
	s.logger.Info("note created", zap.String("note_id", id), zap.String("task_id", taskID))
	return note, nil
}

// Edit replaces the content of a live note owned by the caller.
func (s *NoteService) Edit(userID, noteID, content string) error {
	if err := validate.ID(userID); err != nil {
		return err
	}
	if err := validate.ID(noteID); err != nil {
		return err
	}
	if err := validate.Content(content); err != nil {
		return err
	}

	tbl, err := s.store.Table(types.NotesTable)
	if err != nil {
		return err
	}
	n, err := tbl.Update(
		liveMatch(types.Match{"id": noteID, "user_id": userID}),
		types.Record{"content": content},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: note", types.ErrNotFound)
	}
	return nil
}

// List returns the live notes under a task, newest first. A soft-deleted
// parent hides its notes: the parent check fails before any note is read.
func (s *NoteService) List(userID, taskID string) ([]types.Note, error) {
	if err := validate.ID(userID); err != nil {
		return nil, err
	}
	if err := validate.ID(taskID); err != nil {
		return nil, err
	}
	if _, err := ownedTask(s.store, userID, taskID); err != nil {
		return nil, err
	}

	tbl, err := s.store.Table(types.NotesTable)
	if err != nil {
		return nil, err
	}
	recs, err := tbl.Select(liveMatch(types.Match{"task_id": taskID, "user_id": userID}))
	if err != nil {
		return nil, err
	}

	notes := make([]types.Note, len(recs))
	for i, rec := range recs {
		notes[i] = types.NoteFromRecord(rec)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes, nil
}

// Delete soft-deletes a note and removes all its share edges. The two
// steps touch different tables and are sequential, not atomic: if the edge
// cleanup fails after the note delete succeeded, an orphan edge remains.
// ListShared filters such orphans, so they are never served.
func (s *NoteService) Delete(userID, noteID string) error {
	if err := validate.ID(userID); err != nil {
		return err
	}
	if err := validate.ID(noteID); err != nil {
		return err
	}

	notes, err := s.store.Table(types.NotesTable)
	if err != nil {
		return err
	}
	n, err := notes.Update(
		liveMatch(types.Match{"id": noteID, "user_id": userID}),
		types.Record{"deleted": types.FlagSet},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: note", types.ErrNotFound)
	}

	shares, err := s.store.Table(types.SharedNotesTable)
	if err != nil {
		return err
	}
	if _, err := shares.Delete(types.Match{"note_id": noteID}); err != nil {
		s.logger.Error("share edges left behind after note delete",
			zap.String("note_id", noteID), zap.Error(err))
		return fmt.Errorf("note deleted but share cleanup failed: %w", err)
	}
	s.logger.Info("note deleted", zap.String("note_id", noteID))
	return nil
}

// Share grants the target user read access to one of the sharer's live
// notes. Sharing the same note with the same user twice is a no-op.
func (s *NoteService) Share(sharerID, noteID, targetUsername string) error {
	if err := validate.ID(sharerID); err != nil {
		return err
	}
	if err := validate.ID(noteID); err != nil {
		return err
	}
	if err := validate.Username(targetUsername); err != nil {
		return err
	}

	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return err
	}
	targets, err := users.Select(types.Match{"username": targetUsername})
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("%w: user", types.ErrNotFound)
	}
	targetID := targets[0]["id"]
	if targetID == sharerID {
		return fmt.Errorf("%w: cannot share a note with its owner", types.ErrInvalidArgument)
	}

	notes, err := s.store.Table(types.NotesTable)
	if err != nil {
		return err
	}
	owned, err := notes.Select(liveMatch(types.Match{"id": noteID, "user_id": sharerID}))
	if err != nil {
		return err
	}
	if len(owned) == 0 {
		return fmt.Errorf("%w: note", types.ErrNotFound)
	}

	shares, err := s.store.Table(types.SharedNotesTable)
	if err != nil {
		return err
	}
	existing, err := shares.Select(types.Match{"note_id": noteID, "target_id": targetID})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	edge := types.SharedNote{NoteID: noteID, SharerID: sharerID, TargetID: targetID}
	if err := shares.Append(edge.Record()); err != nil {
		// The relational backend's primary key may reject a duplicate the
		// pre-scan raced past; sharing stays idempotent either way.
		if errors.Is(err, types.ErrConflict) {
			return nil
		}
		return err
	}
	s.logger.Info("note shared",
		zap.String("note_id", noteID), zap.String("target", targetUsername))
	return nil
}

// ListShared returns the notes shared with the user. Edges whose note is
// deleted or missing are filtered out, which also hides the orphans a
// partial delete may leave.
func (s *NoteService) ListShared(userID string) ([]SharedNoteView, error) {
	if err := validate.ID(userID); err != nil {
		return nil, err
	}

	shares, err := s.store.Table(types.SharedNotesTable)
	if err != nil {
		return nil, err
	}
	edges, err := shares.Select(types.Match{"target_id": userID})
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, nil
	}

	notes, err := s.store.Table(types.NotesTable)
	if err != nil {
		return nil, err
	}
	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return nil, err
	}

	var out []SharedNoteView
	for _, rec := range edges {
		edge := types.SharedNoteFromRecord(rec)
		found, err := notes.Select(liveMatch(types.Match{"id": edge.NoteID}))
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			continue // orphan edge
		}
		sharedBy := edge.SharerID
		if sharers, err := users.Select(types.Match{"id": edge.SharerID}); err == nil && len(sharers) > 0 {
			sharedBy = sharers[0]["username"]
		}
		out = append(out, SharedNoteView{
			Note:     types.NoteFromRecord(found[0]),
			SharedBy: sharedBy,
		})
	}
	return out, nil
}
