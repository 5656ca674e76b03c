package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dori/punch/internal/auth"
	"github.com/dori/punch/internal/db"
	"github.com/dori/punch/internal/tracker"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "api.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	log := zerolog.Nop()
	clock := tracker.SystemClock
	sync := tracker.NewSynchronizer(database, database, clock, log)

	authSvc := auth.NewService(database, clock, time.Hour, log)
	authSvc.SetHashCost(bcrypt.MinCost)

	return NewServer(Services{
		Auth:     authSvc,
		Projects: tracker.NewProjectService(database, clock, log),
		Tasks:    tracker.NewTaskService(database, database, sync, clock, log),
		Reports:  tracker.NewReporter(database),
	}, log)
}

func call(t *testing.T, s *Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	out := map[string]any{}
	if bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: bad json %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func login(t *testing.T, s *Server, email string) string {
	t.Helper()

	code, _ := call(t, s, "POST", "/api/users/register", "", map[string]string{
		"name": "user", "email": email, "password": "secret1",
	})
	if code != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, code)
	}
	code, body := call(t, s, "POST", "/api/users/login", "", map[string]string{
		"email": email, "password": "secret1",
	})
	if code != http.StatusOK {
		t.Fatalf("login %s: status %d", email, code)
	}
	return body["token"].(string)
}

func createProject(t *testing.T, s *Server, token, name string) string {
	t.Helper()

	code, body := call(t, s, "POST", "/api/projects", token, map[string]string{
		"name": name, "description": "d", "start_time": "2024-06-03T09:00:00Z",
	})
	if code != http.StatusCreated {
		t.Fatalf("create project: status %d %v", code, body)
	}
	return body["project"].(map[string]any)["id"].(string)
}

func createTask(t *testing.T, s *Server, token, projectID, title string) string {
	t.Helper()

	code, body := call(t, s, "POST", "/api/tasks/"+projectID, token, map[string]string{"title": title})
	if code != http.StatusCreated {
		t.Fatalf("create task: status %d %v", code, body)
	}
	return body["task"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	code, body := call(t, s, "GET", "/healthz", "", nil)
	if code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", code, body)
	}
}

func TestRequiresToken(t *testing.T) {
	s := newTestServer(t)

	for _, token := range []string{"", "not-a-token"} {
		code, _ := call(t, s, "GET", "/api/projects", token, nil)
		if code != http.StatusUnauthorized {
			t.Errorf("token %q: status %d, want 401", token, code)
		}
	}
}

func TestRegisterConflictsAndBadLogin(t *testing.T) {
	s := newTestServer(t)
	login(t, s, "a@example.com")

	code, _ := call(t, s, "POST", "/api/users/register", "", map[string]string{
		"name": "again", "email": "a@example.com", "password": "secret1",
	})
	if code != http.StatusConflict {
		t.Errorf("duplicate register: status %d, want 409", code)
	}

	code, _ = call(t, s, "POST", "/api/users/login", "", map[string]string{
		"email": "a@example.com", "password": "wrong-password",
	})
	if code != http.StatusUnauthorized {
		t.Errorf("bad login: status %d, want 401", code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")

	if code, _ := call(t, s, "POST", "/api/users/logout", token, nil); code != http.StatusOK {
		t.Fatalf("logout: status %d", code)
	}
	if code, _ := call(t, s, "GET", "/api/users/profile", token, nil); code != http.StatusUnauthorized {
		t.Errorf("profile after logout: status %d, want 401", code)
	}
}

func TestTimerLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")
	projectID := createProject(t, s, token, "site")
	taskID := createTask(t, s, token, projectID, "header")

	steps := []struct {
		path string
		msg  string
	}{
		{"/api/tasks/" + taskID + "/start", "Timer started"},
		{"/api/tasks/" + taskID + "/start", "Timer already running"},
		{"/api/tasks/" + taskID + "/stop", "Timer stopped"},
		{"/api/tasks/" + taskID + "/stop", "Timer not running"},
	}
	for _, step := range steps {
		code, body := call(t, s, "POST", step.path, token, nil)
		if code != http.StatusOK {
			t.Fatalf("%s: status %d", step.path, code)
		}
		if body["message"] != step.msg {
			t.Errorf("%s: message %v, want %q", step.path, body["message"], step.msg)
		}
	}

	_, project := call(t, s, "GET", "/api/projects/"+projectID, token, nil)
	if project["is_running"] != false {
		t.Errorf("project is_running = %v after stop", project["is_running"])
	}
}

func TestStartMarksProjectRunning(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")
	projectID := createProject(t, s, token, "site")
	taskID := createTask(t, s, token, projectID, "header")

	call(t, s, "POST", "/api/tasks/"+taskID+"/start", token, nil)

	_, project := call(t, s, "GET", "/api/projects/"+projectID, token, nil)
	if project["is_running"] != true {
		t.Errorf("project is_running = %v after start", project["is_running"])
	}
}

func TestForeignAccessLooksLikeNotFound(t *testing.T) {
	s := newTestServer(t)
	owner := login(t, s, "owner@example.com")
	other := login(t, s, "other@example.com")
	projectID := createProject(t, s, owner, "site")
	taskID := createTask(t, s, owner, projectID, "header")

	_, missing := call(t, s, "GET", "/api/tasks/does-not-exist", other, nil)

	requests := []struct {
		method, path string
	}{
		{"GET", "/api/projects/" + projectID},
		{"DELETE", "/api/projects/" + projectID},
		{"GET", "/api/tasks/" + taskID},
		{"POST", "/api/tasks/" + taskID + "/start"},
		{"POST", "/api/tasks/" + taskID + "/stop"},
		{"DELETE", "/api/tasks/" + taskID},
	}
	for _, req := range requests {
		code, body := call(t, s, req.method, req.path, other, nil)
		if code != http.StatusNotFound {
			t.Errorf("%s %s: status %d, want 404", req.method, req.path, code)
		}
		if body["error"] != missing["error"] {
			t.Errorf("%s %s: body %v differs from missing entity %v", req.method, req.path, body, missing)
		}
	}

	if code, _ := call(t, s, "GET", "/api/tasks/"+taskID, owner, nil); code != http.StatusOK {
		t.Errorf("owner lost access: status %d", code)
	}
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")
	projectID := createProject(t, s, token, "site")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"project without name", "POST", "/api/projects", map[string]string{"description": "d", "start_time": "2024-06-03T09:00:00Z"}},
		{"task without title", "POST", "/api/tasks/" + projectID, map[string]string{"description": "d"}},
		{"task with bad status", "POST", "/api/tasks/" + projectID, map[string]string{"title": "t", "status": "blocked"}},
		{"activity without bounds", "GET", "/api/reports/activity?from=2024-06-01", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := call(t, s, tt.method, tt.path, token, tt.body)
			if code != http.StatusBadRequest {
				t.Errorf("status %d, want 400 (%v)", code, body)
			}
			if body["error"] == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")

	req := httptest.NewRequest("POST", "/api/projects", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestReports(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")
	projectID := createProject(t, s, token, "site")
	createTask(t, s, token, projectID, "one")
	taskID := createTask(t, s, token, projectID, "two")

	call(t, s, "PUT", "/api/tasks/"+taskID, token, map[string]any{"status": "done", "duration": 3600})

	code, stats := call(t, s, "GET", "/api/reports/task-stats", token, nil)
	if code != http.StatusOK {
		t.Fatalf("task-stats: status %d", code)
	}
	if stats["todo"] != float64(1) || stats["done"] != float64(1) || stats["in-progress"] != float64(0) {
		t.Errorf("task-stats = %v", stats)
	}

	_, spent := call(t, s, "GET", "/api/reports/time-spent", token, nil)
	if spent["formatted"] != "01:00:00" {
		t.Errorf("time-spent = %v", spent)
	}

	from := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	to := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	code, activity := call(t, s, "GET", "/api/reports/activity?from="+from+"&to="+to, token, nil)
	if code != http.StatusOK {
		t.Fatalf("activity: status %d %v", code, activity)
	}
	if activity["count"] != float64(2) {
		t.Errorf("activity count = %v, want 2", activity["count"])
	}
}

func TestEmptyListsAreArrays(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")

	get := func(path string) string {
		t.Helper()
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, rec.Code)
		}
		return strings.TrimSpace(rec.Body.String())
	}

	for _, path := range []string{"/api/projects", "/api/tasks", "/api/reports/project-summary"} {
		if body := get(path); body != "[]" {
			t.Errorf("GET %s = %s, want []", path, body)
		}
	}

	projectID := createProject(t, s, token, "site")
	if body := get("/api/tasks?project_id=" + projectID); body != "[]" {
		t.Errorf("GET tasks of empty project = %s, want []", body)
	}
}

func TestUpdateProjectRejectsBlankDescription(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")
	projectID := createProject(t, s, token, "site")

	code, _ := call(t, s, "PUT", "/api/projects/"+projectID, token, map[string]string{"description": ""})
	if code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", code)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "a@example.com")
	projectID := createProject(t, s, token, "site")
	taskID := createTask(t, s, token, projectID, "one")

	if code, _ := call(t, s, "DELETE", "/api/projects/"+projectID, token, nil); code != http.StatusOK {
		t.Fatalf("delete project: status %d", code)
	}
	if code, _ := call(t, s, "GET", "/api/tasks/"+taskID, token, nil); code != http.StatusNotFound {
		t.Errorf("task after project delete: status %d, want 404", code)
	}
}
