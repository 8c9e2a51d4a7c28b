package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jotterhq/jotter/internal/flatfile"
	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	config := types.Config{
		Backend:  types.BackendFlatFile,
		DataDir:  filepath.Join(dir, "db"),
		FilesDir: filepath.Join(dir, "files"),
	}
	logger := zap.NewNop()
	store := flatfile.NewStore(logger)
	require.NoError(t, store.Open(config))
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(New(service.New(store, config, logger), logger).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func registerAndLogin(t *testing.T, srv *httptest.Server, username string) string {
	t.Helper()
	code, _ := doJSON(t, srv, http.MethodPost, "/api/register", "", map[string]string{
		"username": username, "password": "hunter2secret", "email": username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, code)
	code, body := doJSON(t, srv, http.MethodPost, "/api/login", "", map[string]string{
		"username": username, "password": "hunter2secret",
	})
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	code, _ := doJSON(t, srv, http.MethodGet, "/api/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	code, _ = doJSON(t, srv, http.MethodGet, "/api/tasks", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRegisterConflictAndBadBody(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "alice")

	code, _ := doJSON(t, srv, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "password": "hunter2secret", "email": "dup@example.com",
	})
	require.Equal(t, http.StatusConflict, code)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/register", bytes.NewBufferString("not json"))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "alice")

	code, task := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title": "write report", "description": "quarterly numbers",
	})
	require.Equal(t, http.StatusCreated, code)
	taskID, _ := task["id"].(string)
	require.Len(t, taskID, 16)
	require.Equal(t, "pending", task["status"])

	code, _ = doJSON(t, srv, http.MethodPut, "/api/tasks/"+taskID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, got := doJSON(t, srv, http.MethodGet, "/api/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "done", got["status"])

	code, _ = doJSON(t, srv, http.MethodDelete, "/api/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, srv, http.MethodGet, "/api/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestOwnershipOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	alice := registerAndLogin(t, srv, "alice")
	bob := registerAndLogin(t, srv, "bob")

	code, task := doJSON(t, srv, http.MethodPost, "/api/tasks", alice, map[string]string{
		"title": "private", "description": "",
	})
	require.Equal(t, http.StatusCreated, code)
	taskID := task["id"].(string)

	code, _ = doJSON(t, srv, http.MethodGet, "/api/tasks/"+taskID, bob, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestNoteShareOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	alice := registerAndLogin(t, srv, "alice")
	bob := registerAndLogin(t, srv, "bob")

	_, task := doJSON(t, srv, http.MethodPost, "/api/tasks", alice, map[string]string{
		"title": "shared work", "description": "",
	})
	taskID := task["id"].(string)
	code, note := doJSON(t, srv, http.MethodPost, "/api/tasks/"+taskID+"/notes", alice, map[string]string{
		"content": "for bob",
	})
	require.Equal(t, http.StatusCreated, code)
	noteID := note["id"].(string)

	code, _ = doJSON(t, srv, http.MethodPost, "/api/notes/"+noteID+"/share", alice, map[string]string{
		"username": "bob",
	})
	require.Equal(t, http.StatusOK, code)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/shared-notes", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bob)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var shared []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&shared))
	require.Len(t, shared, 1)
	require.Equal(t, "for bob", shared[0]["content"])
	require.Equal(t, "alice", shared[0]["shared_by"])
}

func TestFileRoundTripOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "alice")

	_, task := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title": "docs", "description": "",
	})
	taskID := task["id"].(string)

	code, ref := doJSON(t, srv, http.MethodPost, "/api/tasks/"+taskID+"/files", token, map[string]string{
		"filename": "report.txt",
		"mime":     "text/plain",
		"content":  base64.StdEncoding.EncodeToString([]byte("hello")),
	})
	require.Equal(t, http.StatusCreated, code)
	fileID := ref["id"].(string)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/files/"+fileID, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(raw))
}

func TestPasswordResetOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "alice")

	code, body := doJSON(t, srv, http.MethodPost, "/api/password-reset/request", "", map[string]string{
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, code)
	resetToken := body["reset_token"].(string)

	code, _ = doJSON(t, srv, http.MethodPost, "/api/password-reset/confirm", "", map[string]string{
		"token": resetToken, "password": "brandnewsecret",
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, srv, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice", "password": "brandnewsecret",
	})
	require.Equal(t, http.StatusOK, code)
}
