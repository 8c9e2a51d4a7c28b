package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jotterhq/jotter/pkg/types"
)

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		v = map[string]string{"status": "ok"}
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

// writeError maps a service error onto a status code. Unrecognized errors
// are logged and reported as a bare 500 so internals never leak.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, types.ErrInvalidCredentials),
		errors.Is(err, types.ErrUnauthorized),
		errors.Is(err, types.ErrInvalidToken):
		code = http.StatusUnauthorized
	case errors.Is(err, types.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, types.ErrConflict):
		code = http.StatusConflict
	}
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		s.writeJSON(w, code, map[string]string{"error": "internal error"})
		return
	}
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", types.ErrInvalidArgument)
	}
	return nil
}
