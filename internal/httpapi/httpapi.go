// Package httpapi exposes the entity services over a JSON HTTP API. The
// handlers are a thin translation layer: decode, call the service, map the
// sentinel error to a status code. No business rule lives here.
package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/jotterhq/jotter/internal/service"
)

type Server struct {
	services *service.Services
	logger   *zap.Logger
}

func New(services *service.Services, logger *zap.Logger) *Server {
	return &Server{services: services, logger: logger}
}

// Router builds the route tree. Everything under /api except registration,
// login, and the password-reset pair requires a bearer token.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/password-reset/request", s.handleResetRequest)
		r.Post("/password-reset/confirm", s.handleResetConfirm)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
			r.Put("/me/preferences", s.handlePreferences)
			r.Put("/me/password", s.handleChangePassword)

			r.Get("/tasks", s.handleTaskList)
			r.Post("/tasks", s.handleTaskCreate)
			r.Get("/tasks/{taskID}", s.handleTaskGet)
			r.Put("/tasks/{taskID}/complete", s.handleTaskComplete)
			r.Delete("/tasks/{taskID}", s.handleTaskDelete)

			r.Get("/tasks/{taskID}/notes", s.handleNoteList)
			r.Post("/tasks/{taskID}/notes", s.handleNoteCreate)
			r.Put("/notes/{noteID}", s.handleNoteEdit)
			r.Delete("/notes/{noteID}", s.handleNoteDelete)
			r.Post("/notes/{noteID}/share", s.handleNoteShare)
			r.Get("/shared-notes", s.handleSharedNotes)

			r.Get("/tasks/{taskID}/subtasks", s.handleSubtaskList)
			r.Post("/tasks/{taskID}/subtasks", s.handleSubtaskCreate)
			r.Put("/tasks/{taskID}/subtasks/{subtaskID}/complete", s.handleSubtaskComplete)

			r.Get("/tasks/{taskID}/files", s.handleFileList)
			r.Post("/tasks/{taskID}/files", s.handleFileAttach)
			r.Get("/files/{fileID}", s.handleFileGet)
			r.Delete("/files/{fileID}", s.handleFileDelete)
		})
	})
	return r
}
