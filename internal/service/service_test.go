package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jotterhq/jotter/internal/flatfile"
	"github.com/jotterhq/jotter/internal/sqlite"
	"github.com/jotterhq/jotter/pkg/types"
)

// Every scenario runs against both backends; the services must be unable
// to tell them apart.
func forEachBackend(t *testing.T, fn func(t *testing.T, svc *Services)) {
	t.Helper()
	backends := []string{types.BackendFlatFile, types.BackendSQLite}
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			config := types.Config{
				Backend:  backend,
				DataDir:  filepath.Join(dir, "db"),
				FilesDir: filepath.Join(dir, "files"),
			}
			logger := zap.NewNop()
			var store types.Store
			switch backend {
			case types.BackendFlatFile:
				store = flatfile.NewStore(logger)
			case types.BackendSQLite:
				store = sqlite.NewStore(logger)
			}
			require.NoError(t, store.Open(config))
			t.Cleanup(func() { store.Close() })
			fn(t, New(store, config, logger))
		})
	}
}

func register(t *testing.T, svc *Services, username string) types.User {
	t.Helper()
	user, err := svc.Users.Register(username, "hunter2secret", username+"@example.com")
	require.NoError(t, err)
	return user
}

func createTask(t *testing.T, svc *Services, userID, title string) types.Task {
	t.Helper()
	task, err := svc.Tasks.Create(userID, title, "a description")
	require.NoError(t, err)
	return task
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		register(t, svc, "alice")
		_, err := svc.Users.Register("alice", "otherpassword", "other@example.com")
		require.ErrorIs(t, err, types.ErrConflict)
	})
}

func TestLoginLogoutAuthenticate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		register(t, svc, "alice")

		_, err := svc.Users.Login("alice", "wrongpassword")
		require.ErrorIs(t, err, types.ErrInvalidCredentials)

		user, err := svc.Users.Login("alice", "hunter2secret")
		require.NoError(t, err)
		require.NotEmpty(t, user.Token)

		authed, err := svc.Users.Authenticate(user.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, authed.ID)

		require.NoError(t, svc.Users.Logout(user.ID))
		_, err = svc.Users.Authenticate(user.Token)
		require.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

func TestTaskOwnershipIsolation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		bob := register(t, svc, "bob")
		task := createTask(t, svc, alice.ID, "private work")

		// A foreign task id is indistinguishable from a missing one.
		_, err := svc.Tasks.Get(bob.ID, task.ID)
		require.ErrorIs(t, err, types.ErrNotFound)
		require.ErrorIs(t, svc.Tasks.Complete(bob.ID, task.ID), types.ErrNotFound)
		require.ErrorIs(t, svc.Tasks.Delete(bob.ID, task.ID), types.ErrNotFound)

		// The owner still sees the task untouched.
		got, err := svc.Tasks.Get(alice.ID, task.ID)
		require.NoError(t, err)
		require.Equal(t, types.TaskStatusPending, got.Status)
	})
}

func TestTaskSoftDeleteHidesAndIsNotIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		task := createTask(t, svc, alice.ID, "doomed")

		require.NoError(t, svc.Tasks.Delete(alice.ID, task.ID))

		_, err := svc.Tasks.Get(alice.ID, task.ID)
		require.ErrorIs(t, err, types.ErrNotFound)
		tasks, err := svc.Tasks.List(alice.ID, SortByCreated)
		require.NoError(t, err)
		require.Empty(t, tasks)

		// Already-deleted behaves exactly like never-existed.
		require.ErrorIs(t, svc.Tasks.Delete(alice.ID, task.ID), types.ErrNotFound)
	})
}

func TestTaskListSorting(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		svc.Tasks.now = stepClock(time.Unix(1_700_000_000, 0))
		createTask(t, svc, alice.ID, "charlie")
		createTask(t, svc, alice.ID, "alpha")
		createTask(t, svc, alice.ID, "bravo")

		byTitle, err := svc.Tasks.List(alice.ID, SortByTitle)
		require.NoError(t, err)
		require.Equal(t, []string{"alpha", "bravo", "charlie"}, titles(byTitle))

		byCreated, err := svc.Tasks.List(alice.ID, SortByCreated)
		require.NoError(t, err)
		require.Equal(t, []string{"bravo", "alpha", "charlie"}, titles(byCreated))

		_, err = svc.Tasks.List(alice.ID, "status")
		require.ErrorIs(t, err, types.ErrInvalidArgument)
	})
}

func TestDeletedTaskBlocksChildCreation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		task := createTask(t, svc, alice.ID, "parent")
		require.NoError(t, svc.Tasks.Delete(alice.ID, task.ID))

		_, err := svc.Notes.Create(alice.ID, task.ID, "too late")
		require.ErrorIs(t, err, types.ErrNotFound)
		_, err = svc.Subtasks.Create(alice.ID, task.ID, "too late")
		require.ErrorIs(t, err, types.ErrNotFound)
		_, err = svc.Files.Attach(alice.ID, task.ID, "late.txt", "text/plain", []byte("x"))
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestDeletedTaskHidesChildren(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		task := createTask(t, svc, alice.ID, "parent")
		_, err := svc.Notes.Create(alice.ID, task.ID, "a note")
		require.NoError(t, err)
		_, err = svc.Subtasks.Create(alice.ID, task.ID, "a subtask")
		require.NoError(t, err)

		require.NoError(t, svc.Tasks.Delete(alice.ID, task.ID))

		// Children are never read through a deleted parent.
		_, err = svc.Notes.List(alice.ID, task.ID)
		require.ErrorIs(t, err, types.ErrNotFound)
		_, err = svc.Subtasks.List(alice.ID, task.ID)
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestNoteEditAndList(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		task := createTask(t, svc, alice.ID, "notes")
		svc.Notes.now = stepClock(time.Unix(1_700_000_000, 0))

		first, err := svc.Notes.Create(alice.ID, task.ID, "first")
		require.NoError(t, err)
		second, err := svc.Notes.Create(alice.ID, task.ID, "second")
		require.NoError(t, err)

		require.NoError(t, svc.Notes.Edit(alice.ID, first.ID, "first, edited"))

		notes, err := svc.Notes.List(alice.ID, task.ID)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		// Newest first.
		require.Equal(t, second.ID, notes[0].ID)
		require.Equal(t, "first, edited", notes[1].Content)

		bob := register(t, svc, "bob")
		require.ErrorIs(t, svc.Notes.Edit(bob.ID, first.ID, "hijack"), types.ErrNotFound)
	})
}

func TestNoteShareThenDeleteRemovesAccess(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		bob := register(t, svc, "bob")
		task := createTask(t, svc, alice.ID, "shared")
		note, err := svc.Notes.Create(alice.ID, task.ID, "for bob")
		require.NoError(t, err)

		require.NoError(t, svc.Notes.Share(alice.ID, note.ID, "bob"))
		// Sharing twice is a no-op, not a conflict.
		require.NoError(t, svc.Notes.Share(alice.ID, note.ID, "bob"))

		shared, err := svc.Notes.ListShared(bob.ID)
		require.NoError(t, err)
		require.Len(t, shared, 1)
		require.Equal(t, "for bob", shared[0].Note.Content)
		require.Equal(t, "alice", shared[0].SharedBy)

		require.NoError(t, svc.Notes.Delete(alice.ID, note.ID))
		shared, err = svc.Notes.ListShared(bob.ID)
		require.NoError(t, err)
		require.Empty(t, shared)
	})
}

func TestNoteShareValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		task := createTask(t, svc, alice.ID, "shared")
		note, err := svc.Notes.Create(alice.ID, task.ID, "mine")
		require.NoError(t, err)

		err = svc.Notes.Share(alice.ID, note.ID, "nobody")
		require.ErrorIs(t, err, types.ErrNotFound)
		err = svc.Notes.Share(alice.ID, note.ID, "alice")
		require.ErrorIs(t, err, types.ErrInvalidArgument)

		bob := register(t, svc, "bob")
		// Only the owner can share.
		err = svc.Notes.Share(bob.ID, note.ID, "alice")
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestSubtaskCompleteScopedToOwnerAndTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		bob := register(t, svc, "bob")
		task := createTask(t, svc, alice.ID, "parent")
		sub, err := svc.Subtasks.Create(alice.ID, task.ID, "step one")
		require.NoError(t, err)

		err = svc.Subtasks.Complete(bob.ID, task.ID, sub.ID)
		require.ErrorIs(t, err, types.ErrNotFound)

		require.NoError(t, svc.Subtasks.Complete(alice.ID, task.ID, sub.ID))
		subs, err := svc.Subtasks.List(alice.ID, task.ID)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		require.True(t, subs[0].Completed)
	})
}

func TestFileAttachGetDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		task := createTask(t, svc, alice.ID, "docs")

		ref, err := svc.Files.Attach(alice.ID, task.ID, "report.txt", "text/plain", []byte("hello"))
		require.NoError(t, err)
		require.Equal(t, "report.txt", ref.Filename)

		got, content, err := svc.Files.Get(alice.ID, ref.ID)
		require.NoError(t, err)
		require.Equal(t, ref.ID, got.ID)
		require.Equal(t, "hello", string(content))

		require.NoError(t, svc.Files.Delete(alice.ID, ref.ID))
		_, _, err = svc.Files.Get(alice.ID, ref.ID)
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestFileNameCollisionGetsCounter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		task := createTask(t, svc, alice.ID, "docs")

		first, err := svc.Files.Attach(alice.ID, task.ID, "report.txt", "text/plain", []byte("one"))
		require.NoError(t, err)
		second, err := svc.Files.Attach(alice.ID, task.ID, "report.txt", "text/plain", []byte("two"))
		require.NoError(t, err)

		require.Equal(t, "report.txt", first.Filename)
		require.Equal(t, "report_1.txt", second.Filename)

		_, content, err := svc.Files.Get(alice.ID, second.ID)
		require.NoError(t, err)
		require.Equal(t, "two", string(content))
	})
}

func TestPasswordResetSingleUse(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		register(t, svc, "alice")

		tok, err := svc.Users.RequestPasswordReset("alice@example.com")
		require.NoError(t, err)

		require.NoError(t, svc.Users.ResetPassword(tok.Token, "brandnewsecret"))
		// Redemption consumed the token.
		err = svc.Users.ResetPassword(tok.Token, "anothersecret")
		require.ErrorIs(t, err, types.ErrInvalidToken)

		_, err = svc.Users.Login("alice", "hunter2secret")
		require.ErrorIs(t, err, types.ErrInvalidCredentials)
		_, err = svc.Users.Login("alice", "brandnewsecret")
		require.NoError(t, err)
	})
}

func TestPasswordResetSupersedesOlderToken(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		register(t, svc, "alice")

		first, err := svc.Users.RequestPasswordReset("alice@example.com")
		require.NoError(t, err)
		second, err := svc.Users.RequestPasswordReset("alice@example.com")
		require.NoError(t, err)

		err = svc.Users.ResetPassword(first.Token, "brandnewsecret")
		require.ErrorIs(t, err, types.ErrInvalidToken)
		require.NoError(t, svc.Users.ResetPassword(second.Token, "brandnewsecret"))
	})
}

func TestPasswordResetExpiredToken(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		register(t, svc, "alice")

		tok, err := svc.Users.RequestPasswordReset("alice@example.com")
		require.NoError(t, err)

		svc.Users.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		err = svc.Users.ResetPassword(tok.Token, "brandnewsecret")
		require.ErrorIs(t, err, types.ErrInvalidToken)
		// An expired token is consumed on the failed attempt.
		err = svc.Users.ResetPassword(tok.Token, "brandnewsecret")
		require.ErrorIs(t, err, types.ErrInvalidToken)
	})
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		_, err := svc.Users.RequestPasswordReset("ghost@example.com")
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdatePreferences(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		require.NoError(t, svc.Users.UpdatePreferences(alice.ID, "fr", "dark"))

		name, err := svc.Users.GetUsername(alice.ID)
		require.NoError(t, err)
		require.Equal(t, "alice", name)

		err = svc.Users.UpdatePreferences(alice.ID, "no good", "dark")
		require.ErrorIs(t, err, types.ErrInvalidArgument)
	})
}

func TestInvalidInputRejectedBeforeStorage(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")

		_, err := svc.Tasks.Create(alice.ID, "bad:title", "desc")
		require.ErrorIs(t, err, types.ErrInvalidArgument)
		_, err = svc.Tasks.Create(alice.ID, "", "desc")
		require.ErrorIs(t, err, types.ErrInvalidArgument)
		_, err = svc.Users.Register("ab", "longenoughpw", "x@example.com")
		require.ErrorIs(t, err, types.ErrInvalidArgument)
		_, err = svc.Tasks.Get(alice.ID, "not-an-id")
		require.ErrorIs(t, err, types.ErrInvalidArgument)
	})
}

// A parent check and a child append span two lock acquisitions, so a task
// delete can land between them. The child record then exists on disk but is
// never served, because reads re-check the parent.
func TestChildAppendedDuringParentDeleteStaysHidden(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services) {
		alice := register(t, svc, "alice")
		task := createTask(t, svc, alice.ID, "parent")

		require.NoError(t, svc.Tasks.Delete(alice.ID, task.ID))

		// Simulate the losing side of the race: the note passed its parent
		// check before the delete and lands afterwards.
		note := types.Note{
			ID:      "00000000000000aa",
			UserID:  alice.ID,
			TaskID:  task.ID,
			Content: "raced in",
		}
		notes, err := svc.Notes.store.Table(types.NotesTable)
		require.NoError(t, err)
		require.NoError(t, notes.Append(note.Record()))

		recs, err := notes.Select(types.Match{"id": note.ID})
		require.NoError(t, err)
		require.Len(t, recs, 1, "the orphan record stays on disk")

		_, err = svc.Notes.List(alice.ID, task.ID)
		require.ErrorIs(t, err, types.ErrNotFound, "but no read path serves it")
	})
}

// stepClock returns a clock that advances one second per call, so creation
// order is recoverable from timestamps.
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func titles(tasks []types.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}
