package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/traintrack/traintrack-go/internal/middleware"
	"github.com/traintrack/traintrack-go/internal/model"
	"github.com/traintrack/traintrack-go/internal/repository"
	"github.com/traintrack/traintrack-go/internal/service"
)

const testSecret = "test-secret"

// newTestServer wires the full API against an in-memory store, mirroring the
// route layout in cmd/api.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := repository.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	authHandler := NewAuthHandler(service.NewAuthService(repository.NewUserRepository(db), testSecret, time.Hour))
	taskHandler := NewTaskHandler(service.NewTaskService(repository.NewTaskRepository(db)))

	r := chi.NewRouter()
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	r.Post("/api/auth/register", authHandler.HandleRegister)
	r.Post("/api/auth/login", authHandler.HandleLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testSecret))
		r.Get("/api/auth/me", authHandler.HandleMe)
		r.Get("/api/tasks", taskHandler.HandleListTasks)
		r.Post("/api/tasks", taskHandler.HandleCreateTask)
		r.Put("/api/tasks/{id}", taskHandler.HandleUpdateTask)
		r.Delete("/api/tasks/{id}", taskHandler.HandleDeleteTask)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return v
}

func registerUser(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status = %d, want 201", email, resp.StatusCode)
	}
	auth := decodeBody[model.AuthResponse](t, resp)
	if auth.Token == "" {
		t.Fatal("register returned empty token")
	}
	return auth.Token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[map[string]bool](t, resp)
	if !body["ok"] {
		t.Errorf("health body = %v, want {ok:true}", body)
	}
}

// TestTaskLifecycle walks the full journey: register, create with defaults,
// complete via status, delete, delete again.
func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "a@b.com", "pass")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", token, map[string]string{"title": "Jane"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task: status = %d, want 201", resp.StatusCode)
	}
	created := decodeBody[model.Task](t, resp)
	if created.Priority != model.PriorityPT || created.Status != model.StatusScheduled || created.Completed {
		t.Errorf("created task = %+v, want pt/scheduled/false defaults", created)
	}

	url := fmt.Sprintf("%s/api/tasks/%d", srv.URL, created.ID)

	resp = doJSON(t, http.MethodPut, url, token, map[string]string{"status": "completed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update task: status = %d, want 200", resp.StatusCode)
	}
	if ok := decodeBody[model.SuccessResponse](t, resp); !ok.Success {
		t.Error("update response success = false, want true")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list tasks: status = %d, want 200", resp.StatusCode)
	}
	tasks := decodeBody[[]model.Task](t, resp)
	if len(tasks) != 1 {
		t.Fatalf("list returned %d tasks, want 1", len(tasks))
	}
	if !tasks[0].Completed || tasks[0].Status != model.StatusCompleted {
		t.Errorf("after status update task = %+v, want completed/true", tasks[0])
	}

	resp = doJSON(t, http.MethodDelete, url, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete task: status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, url, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "a@b.com", "pass")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]string{
		"email": "a@b.com", "password": "pass",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register: status = %d, want 409", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["error"] == "" {
		t.Error("error body missing human-readable message")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "a@b.com", "pass")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login: status = %d, want 401", resp.StatusCode)
	}
}

func TestTasksRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/1"},
	} {
		resp := doJSON(t, tc.method, srv.URL+tc.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestCreateTaskValidation(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "a@b.com", "pass")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", token, map[string]string{"title": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("short title: status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/tasks", token, map[string]string{
		"title": "Jane", "priority": "swimming",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad priority: status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["error"] == "" {
		t.Error("validation error body missing message")
	}
}

func TestCrossOwnerAccess(t *testing.T) {
	srv := newTestServer(t)
	aliceToken := registerUser(t, srv, "alice@b.com", "pass")
	bobToken := registerUser(t, srv, "bob@b.com", "pass")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", aliceToken, map[string]string{"title": "Alice's"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task: status = %d, want 201", resp.StatusCode)
	}
	created := decodeBody[model.Task](t, resp)
	url := fmt.Sprintf("%s/api/tasks/%d", srv.URL, created.ID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks", bobToken, nil)
	if tasks := decodeBody[[]model.Task](t, resp); len(tasks) != 0 {
		t.Errorf("bob sees %d of alice's tasks, want 0", len(tasks))
	}

	resp = doJSON(t, http.MethodPut, url, bobToken, map[string]string{"title": "hijacked"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-owner update: status = %d, want 404", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, url, bobToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-owner delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestMe(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "a@b.com", "pass")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status = %d, want 200", resp.StatusCode)
	}
	me := decodeBody[model.UserResponse](t, resp)
	if me.Email != "a@b.com" || me.ID == 0 {
		t.Errorf("me = %+v, want registered user", me)
	}
}
