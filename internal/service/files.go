package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jotterhq/jotter/internal/validate"
	"github.com/jotterhq/jotter/pkg/types"
)

// FileService stores attachment metadata in the files table and the bytes
// under filesDir/<user_id>/. Filenames are deduplicated per user with a
// numeric suffix, so two attachments named report.txt land as report.txt
// and report_1.txt.
type FileService struct {
	store    types.Store
	logger   *zap.Logger
	filesDir string
}

// Attach writes the content to disk and records the attachment under a
// live, caller-owned task. A metadata write failure removes the file
// again so the directory does not accumulate unreferenced blobs.
func (s *FileService) Attach(userID, taskID, filename, mime string, content []byte) (types.FileRef, error) {
	if err := validate.ID(userID); err != nil {
		return types.FileRef{}, err
	}
	if err := validate.ID(taskID); err != nil {
		return types.FileRef{}, err
	}
	if err := validate.Filename(filename); err != nil {
		return types.FileRef{}, err
	}
	if err := validate.MIME(mime); err != nil {
		return types.FileRef{}, err
	}
	if _, err := ownedTask(s.store, userID, taskID); err != nil {
		return types.FileRef{}, err
	}

	userDir := filepath.Join(s.filesDir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return types.FileRef{}, fmt.Errorf("%w: %v", types.ErrStorageFailure, err)
	}
	stored, path, err := claimPath(userDir, filename)
	if err != nil {
		return types.FileRef{}, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return types.FileRef{}, fmt.Errorf("%w: %v", types.ErrStorageFailure, err)
	}

	id, err := newID()
	if err != nil {
		os.Remove(path)
		return types.FileRef{}, err
	}
	ref := types.FileRef{
		ID:       id,
		UserID:   userID,
		TaskID:   taskID,
		Filename: stored,
		MIME:     mime,
		Path:     path,
	}

	tbl, err := s.store.Table(types.FilesTable)
	if err != nil {
		os.Remove(path)
		return types.FileRef{}, err
	}
	if err := tbl.Append(ref.Record()); err != nil {
		os.Remove(path)
		return types.FileRef{}, err
	}
	s.logger.Info("file attached",
		zap.String("file_id", id), zap.String("task_id", taskID), zap.String("name", stored))
	return ref, nil
}

// List returns the attachments of a live, caller-owned task.
func (s *FileService) List(userID, taskID string) ([]types.FileRef, error) {
	if err := validate.ID(userID); err != nil {
		return nil, err
	}
	if err := validate.ID(taskID); err != nil {
		return nil, err
	}
	if _, err := ownedTask(s.store, userID, taskID); err != nil {
		return nil, err
	}

	tbl, err := s.store.Table(types.FilesTable)
	if err != nil {
		return nil, err
	}
	recs, err := tbl.Select(types.Match{"task_id": taskID, "user_id": userID})
	if err != nil {
		return nil, err
	}
	refs := make([]types.FileRef, len(recs))
	for i, rec := range recs {
		refs[i] = types.FileRefFromRecord(rec)
	}
	return refs, nil
}

// Get returns an attachment's metadata and its content.
func (s *FileService) Get(userID, fileID string) (types.FileRef, []byte, error) {
	if err := validate.ID(userID); err != nil {
		return types.FileRef{}, nil, err
	}
	if err := validate.ID(fileID); err != nil {
		return types.FileRef{}, nil, err
	}

	tbl, err := s.store.Table(types.FilesTable)
	if err != nil {
		return types.FileRef{}, nil, err
	}
	recs, err := tbl.Select(types.Match{"id": fileID, "user_id": userID})
	if err != nil {
		return types.FileRef{}, nil, err
	}
	if len(recs) == 0 {
		return types.FileRef{}, nil, fmt.Errorf("%w: file", types.ErrNotFound)
	}
	ref := types.FileRefFromRecord(recs[0])
	content, err := os.ReadFile(ref.Path)
	if err != nil {
		return types.FileRef{}, nil, fmt.Errorf("%w: %v", types.ErrStorageFailure, err)
	}
	return ref, content, nil
}

// Delete removes the attachment record, then the bytes. A missing blob is
// logged, not surfaced: the record was the source of truth and it is gone.
func (s *FileService) Delete(userID, fileID string) error {
	if err := validate.ID(userID); err != nil {
		return err
	}
	if err := validate.ID(fileID); err != nil {
		return err
	}

	tbl, err := s.store.Table(types.FilesTable)
	if err != nil {
		return err
	}
	removed, err := tbl.Delete(types.Match{"id": fileID, "user_id": userID})
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		return fmt.Errorf("%w: file", types.ErrNotFound)
	}
	ref := types.FileRefFromRecord(removed[0])
	if err := os.Remove(ref.Path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("attachment blob left behind",
			zap.String("file_id", fileID), zap.String("path", ref.Path), zap.Error(err))
	}
	s.logger.Info("file deleted", zap.String("file_id", fileID))
	return nil
}

// claimPath finds an unused name in dir derived from filename, inserting a
// counter before the extension when the plain name is taken.
func claimPath(dir, filename string) (string, string, error) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	name := filename
	for i := 1; ; i++ {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return name, path, nil
		} else if err != nil {
			return "", "", fmt.Errorf("%w: %v", types.ErrStorageFailure, err)
		}
		name = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}
