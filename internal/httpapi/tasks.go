package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/types"
)

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTaskResponse(t types.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	task, err := s.services.Tasks.Create(requestUser(r).ID, req.Title, req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = service.SortByCreated
	}
	tasks, err := s.services.Tasks.List(requestUser(r).ID, sortBy)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskResponse(t)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	task, err := s.services.Tasks.Get(requestUser(r).ID, chi.URLParam(r, "taskID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Tasks.Complete(requestUser(r).ID, chi.URLParam(r, "taskID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Tasks.Delete(requestUser(r).ID, chi.URLParam(r, "taskID")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}
