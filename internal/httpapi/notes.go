package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jotterhq/jotter/pkg/types"
)

type noteResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toNoteResponse(n types.Note) noteResponse {
	return noteResponse{ID: n.ID, TaskID: n.TaskID, Content: n.Content, CreatedAt: n.CreatedAt}
}

func (s *Server) handleNoteCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	note, err := s.services.Notes.Create(requestUser(r).ID, chi.URLParam(r, "taskID"), req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

func (s *Server) handleNoteList(w http.ResponseWriter, r *http.Request) {
	notes, err := s.services.Notes.List(requestUser(r).ID, chi.URLParam(r, "taskID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]noteResponse, len(notes))
	for i, n := range notes {
		out[i] = toNoteResponse(n)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNoteEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.services.Notes.Edit(requestUser(r).ID, chi.URLParam(r, "noteID"), req.Content); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleNoteDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Notes.Delete(requestUser(r).ID, chi.URLParam(r, "noteID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleNoteShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.services.Notes.Share(requestUser(r).ID, chi.URLParam(r, "noteID"), req.Username); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleSharedNotes(w http.ResponseWriter, r *http.Request) {
	shared, err := s.services.Notes.ListShared(requestUser(r).ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	type sharedResponse struct {
		noteResponse
		SharedBy string `json:"shared_by"`
	}
	out := make([]sharedResponse, len(shared))
	for i, sn := range shared {
		out[i] = sharedResponse{noteResponse: toNoteResponse(sn.Note), SharedBy: sn.SharedBy}
	}
	s.writeJSON(w, http.StatusOK, out)
}
