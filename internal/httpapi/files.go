package httpapi

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jotterhq/jotter/pkg/types"
)

type fileResponse struct {
	ID       string `json:"id"`
	TaskID   string `json:"task_id"`
	Filename string `json:"filename"`
	MIME     string `json:"mime"`
}

func toFileResponse(f types.FileRef) fileResponse {
	return fileResponse{ID: f.ID, TaskID: f.TaskID, Filename: f.Filename, MIME: f.MIME}
}

// handleFileAttach takes the content base64-encoded in the JSON body; the
// stored filename may differ from the requested one when it collides.
func (s *Server) handleFileAttach(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
		MIME     string `json:"mime"`
		Content  string `json:"content"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: content must be base64", types.ErrInvalidArgument))
		return
	}
	ref, err := s.services.Files.Attach(
		requestUser(r).ID, chi.URLParam(r, "taskID"), req.Filename, req.MIME, content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toFileResponse(ref))
}

func (s *Server) handleFileList(w http.ResponseWriter, r *http.Request) {
	refs, err := s.services.Files.List(requestUser(r).ID, chi.URLParam(r, "taskID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]fileResponse, len(refs))
	for i, ref := range refs {
		out[i] = toFileResponse(ref)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleFileGet serves the raw bytes under the stored media type.
func (s *Server) handleFileGet(w http.ResponseWriter, r *http.Request) {
	ref, content, err := s.services.Files.Get(requestUser(r).ID, chi.URLParam(r, "fileID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", ref.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ref.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (s *Server) handleFileDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Files.Delete(requestUser(r).ID, chi.URLParam(r, "fileID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}
