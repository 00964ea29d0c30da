package catalogueserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/watchapi-dev/routelens/pkg/openapi"
	"github.com/watchapi-dev/routelens/pkg/route"
)

func testCatalogue() Catalogue {
	return Catalogue{
		Routes: []route.Route{
			{Method: route.MethodGet, Path: "/users/:id", Type: route.TypeNextApp, FilePath: "/work/app/api/users/[id]/route.ts"},
		},
		Routers: []route.TrpcRouter{
			{Name: "users", File: "server/routers/users.ts", Line: 3},
		},
	}
}

func TestHandleRoutes(t *testing.T) {
	srv := New(testCatalogue, openapi.Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var routes []route.Route
	if err := json.Unmarshal(rec.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if len(routes) != 1 || routes[0].Path != "/users/:id" {
		t.Errorf("routes = %+v", routes)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header to be set")
	}
}

func TestHandleOpenAPI(t *testing.T) {
	srv := New(testCatalogue, openapi.Config{Title: "Test"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	info, ok := doc["info"].(map[string]any)
	if !ok || info["title"] != "Test" {
		t.Errorf("info = %v", doc["info"])
	}
}

func TestHandleReport(t *testing.T) {
	srv := New(testCatalogue, openapi.Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/users/:id") {
		t.Errorf("expected report to mention the route path, got: %s", body)
	}
	if !strings.Contains(body, "users") {
		t.Errorf("expected report to mention the tRPC router name, got: %s", body)
	}
	ct := rec.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html prefix", ct)
	}
}
