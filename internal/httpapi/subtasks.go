package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jotterhq/jotter/pkg/types"
)

type subtaskResponse struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func toSubtaskResponse(st types.Subtask) subtaskResponse {
	return subtaskResponse{ID: st.ID, TaskID: st.TaskID, Title: st.Title, Completed: st.Completed}
}

func (s *Server) handleSubtaskCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sub, err := s.services.Subtasks.Create(requestUser(r).ID, chi.URLParam(r, "taskID"), req.Title)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toSubtaskResponse(sub))
}

func (s *Server) handleSubtaskList(w http.ResponseWriter, r *http.Request) {
	subs, err := s.services.Subtasks.List(requestUser(r).ID, chi.URLParam(r, "taskID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]subtaskResponse, len(subs))
	for i, st := range subs {
		out[i] = toSubtaskResponse(st)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubtaskComplete(w http.ResponseWriter, r *http.Request) {
	err := s.services.Subtasks.Complete(
		requestUser(r).ID, chi.URLParam(r, "taskID"), chi.URLParam(r, "subtaskID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}
