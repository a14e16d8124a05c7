package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/item-cache/pkg/cache"
	"github.com/Sternrassler/item-cache/pkg/items"
	"github.com/Sternrassler/item-cache/pkg/repository"
)

func setupRouter(t *testing.T) (http.Handler, *repository.Repository) {
	t.Helper()

	repo := repository.New(repository.Config{})
	c := items.NewCache(cache.Config[items.Value]{Name: t.Name()})
	t.Cleanup(func() { c.Close() })

	svc, err := items.NewService(repo, c, items.DefaultConfig())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	return NewRouter(svc), repo
}

func do(t *testing.T, h http.Handler, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	resp := w.Result()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", data, err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := setupRouter(t)

	resp, body := do(t, h, http.MethodGet, "/health", "")

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if got := decode(t, body)["status"]; got != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", got)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupRouter(t)

	do(t, h, http.MethodGet, "/items", "")
	resp, body := do(t, h, http.MethodGet, "/metrics", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "itemcache_reads_total") {
		t.Error("metrics exposition missing itemcache_reads_total")
	}
}

func TestCreateItem(t *testing.T) {
	h, repo := setupRouter(t)

	resp, body := do(t, h, http.MethodPost, "/items", `{"name":"Alice","age":30}`)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.StatusCode, body)
	}

	got := decode(t, body)
	id, _ := got["id"].(string)
	if id == "" {
		t.Fatalf("response has no id: %v", got)
	}
	if got["name"] != "Alice" || got["age"] != float64(30) {
		t.Errorf("response = %v", got)
	}

	if _, err := repo.Read(id); err != nil {
		t.Errorf("entity not stored: %v", err)
	}
}

func TestBadRequests(t *testing.T) {
	h, repo := setupRouter(t)
	created := repo.Create(repository.Fields{"name": "Alice"})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "create array", method: http.MethodPost, path: "/items", body: `[1,2]`},
		{name: "create string", method: http.MethodPost, path: "/items", body: `"x"`},
		{name: "create null", method: http.MethodPost, path: "/items", body: `null`},
		{name: "create malformed", method: http.MethodPost, path: "/items", body: `{"name":`},
		{name: "create empty body", method: http.MethodPost, path: "/items", body: ""},
		{name: "create with id", method: http.MethodPost, path: "/items", body: `{"id":"x"}`},
		{name: "create trailing data", method: http.MethodPost, path: "/items", body: `{"a":1} junk`},
		{name: "create two objects", method: http.MethodPost, path: "/items", body: `{"a":1}{"b":2}`},
		{name: "update trailing data", method: http.MethodPut, path: "/items/" + created.ID, body: `{"a":1} 2`},
		{name: "update array", method: http.MethodPut, path: "/items/" + created.ID, body: `[]`},
		{name: "update with id", method: http.MethodPut, path: "/items/" + created.ID, body: `{"id":"y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, h, tt.method, tt.path, tt.body)

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d: %s", resp.StatusCode, body)
			}
			if msg, _ := decode(t, body)["error"].(string); msg == "" {
				t.Errorf("missing error message: %s", body)
			}
		})
	}

	if repo.Len() != 1 {
		t.Errorf("repository Len() = %d, rejected requests must not store anything", repo.Len())
	}
}

func TestContentType(t *testing.T) {
	h, repo := setupRouter(t)

	tests := []struct {
		name        string
		contentType string
		wantStatus  int
	}{
		{name: "json", contentType: "application/json", wantStatus: http.StatusCreated},
		{name: "json with charset", contentType: "application/json; charset=utf-8", wantStatus: http.StatusCreated},
		{name: "json suffix", contentType: "application/merge-patch+json", wantStatus: http.StatusCreated},
		{name: "missing", contentType: "", wantStatus: http.StatusBadRequest},
		{name: "text", contentType: "text/plain", wantStatus: http.StatusBadRequest},
		{name: "form", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"Alice"}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusBadRequest {
				if msg, _ := decode(t, w.Body.Bytes())["error"].(string); !strings.Contains(msg, "must be JSON") {
					t.Errorf("error = %q", msg)
				}
			}
		})
	}

	if repo.Len() != 3 {
		t.Errorf("repository Len() = %d, want 3 accepted creates", repo.Len())
	}
}

func TestGetSimilarIDNotFound(t *testing.T) {
	h, _ := setupRouter(t)

	resp, body := do(t, h, http.MethodPost, "/items", `{"name":"Alice"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	id := decode(t, body)["id"].(string)

	resp, _ = do(t, h, http.MethodGet, "/items/"+id+":", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /items/<id>: status = %d, want 404", resp.StatusCode)
	}

	resp, _ = do(t, h, http.MethodGet, "/items/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /items/<id> status = %d, want 200", resp.StatusCode)
	}
}

func TestNotFound(t *testing.T) {
	h, _ := setupRouter(t)

	tests := []struct {
		name   string
		method string
		body   string
	}{
		{name: "get", method: http.MethodGet},
		{name: "update", method: http.MethodPut, body: `{"a":1}`},
		{name: "delete", method: http.MethodDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, h, tt.method, "/items/missing", tt.body)

			if resp.StatusCode != http.StatusNotFound {
				t.Fatalf("Expected status 404, got %d: %s", resp.StatusCode, body)
			}
			if msg, _ := decode(t, body)["error"].(string); !strings.Contains(msg, "not found") {
				t.Errorf("error = %q", msg)
			}
		})
	}
}

func TestItemLifecycle(t *testing.T) {
	h, _ := setupRouter(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	call := func(method, path, body string) (int, map[string]any) {
		t.Helper()

		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, srv.URL+path, r)
		if err != nil {
			t.Fatalf("NewRequest() error = %v", err)
		}
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		defer resp.Body.Close()

		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, decode(t, data)
	}

	status, created := call(http.MethodPost, "/items", `{"name":"Alice","age":30}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	id := created["id"].(string)

	status, list := call(http.MethodGet, "/items", "")
	if status != http.StatusOK || list["cached"] != false {
		t.Fatalf("first list = %d %v, want uncached", status, list)
	}
	if n := len(list["items"].([]any)); n != 1 {
		t.Fatalf("first list has %d items", n)
	}

	_, again := call(http.MethodGet, "/items", "")
	if again["cached"] != true {
		t.Errorf("second list cached = %v, want true", again["cached"])
	}

	status, item := call(http.MethodGet, "/items/"+id, "")
	if status != http.StatusOK || item["cached"] != true {
		t.Errorf("get after create = %d %v, want primed hit", status, item)
	}

	status, updated := call(http.MethodPut, "/items/"+id, `{"age":31}`)
	if status != http.StatusOK || updated["age"] != float64(31) || updated["name"] != "Alice" {
		t.Fatalf("update = %d %v", status, updated)
	}

	_, item = call(http.MethodGet, "/items/"+id, "")
	entity := item["item"].(map[string]any)
	if item["cached"] != true || entity["age"] != float64(31) {
		t.Errorf("get after update = %v, want re-primed value", item)
	}

	_, list = call(http.MethodGet, "/items", "")
	if list["cached"] != false {
		t.Errorf("list after update cached = %v, want false", list["cached"])
	}

	status, cleared := call(http.MethodPost, "/cache/clear", "")
	if status != http.StatusOK || cleared["ok"] != true {
		t.Fatalf("clear = %d %v", status, cleared)
	}

	_, item = call(http.MethodGet, "/items/"+id, "")
	if item["cached"] != false {
		t.Errorf("get after clear cached = %v, want false", item["cached"])
	}

	status, deleted := call(http.MethodDelete, "/items/"+id, "")
	if status != http.StatusOK || deleted["ok"] != true {
		t.Fatalf("delete = %d %v", status, deleted)
	}

	status, _ = call(http.MethodGet, "/items/"+id, "")
	if status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", status)
	}

	_, list = call(http.MethodGet, "/items", "")
	if n := len(list["items"].([]any)); n != 0 {
		t.Errorf("list after delete has %d items", n)
	}
}
