package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cladeviz/clade/pkg/pipeline"
)

const baseTree = "(((A:0.1,B:0.2):0.1,(C:0.1,D:0.1):0.2):0.3,E:0.5):0.0;"

func newTestServer() *Server {
	return New(pipeline.NewRunner(nil, nil), nil, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newTestServer().Router(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestParseEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/api/v1/parse",
		`{"newick":"(A:0.1,B:0.2);"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp parseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got, want := resp.Newick, "(A:0.10000,B:0.20000):0.00000;"; got != want {
		t.Errorf("canonical newick = %q, want %q", got, want)
	}
	if resp.LeafCount != 2 {
		t.Errorf("leaf_count = %d, want 2", resp.LeafCount)
	}
	if len(resp.Hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(resp.Hash))
	}
}

func TestParseEndpointMalformed(t *testing.T) {
	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/api/v1/parse",
		`{"newick":"(A:0.1,B:0.2;"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
	}

	var resp errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code == "" || resp.Error == "" {
		t.Errorf("error body = %+v, want code and message", resp)
	}
}

func TestParseEndpointBadJSON(t *testing.T) {
	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/api/v1/parse", "{")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCompareEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"equal modulo child order", "(A:0.1,B:0.2);", "(B:0.2,A:0.1);", true},
		{"different distance", "(A:0.1,B:0.2);", "(A:0.1,B:0.3);", false},
	}
	router := newTestServer().Router()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(compareRequest{A: tt.a, B: tt.b})
			rec := doJSON(t, router, http.MethodPost, "/api/v1/compare", string(body))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
			}
			var resp compareResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Equal != tt.equal {
				t.Errorf("equal = %v, want %v (cmp=%d)", resp.Equal, tt.equal, resp.Cmp)
			}
		})
	}
}

func TestCompareEndpointMalformed(t *testing.T) {
	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/api/v1/compare",
		`{"a":"(A:0.1,B:0.2);","b":"(A:0.1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	body, _ := json.Marshal(pipeline.Options{Newick: baseTree, Formats: []string{"svg"}})
	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/api/v1/render", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if got, want := rec.Header().Get("Content-Type"), "image/svg+xml"; got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
	if rec.Header().Get("X-Tree-Hash") == "" {
		t.Error("missing X-Tree-Hash header")
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body = %.40q, want an SVG document", rec.Body.String())
	}
}

func TestRenderEndpointSingleFormatOnly(t *testing.T) {
	body, _ := json.Marshal(pipeline.Options{Newick: baseTree, Formats: []string{"svg", "json"}})
	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/api/v1/render", string(body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestRenderEndpointMissingNewick(t *testing.T) {
	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/api/v1/render", `{}`)
	if rec.Code == http.StatusOK {
		t.Error("render without newick should fail")
	}
}

func TestTreesWithoutStore(t *testing.T) {
	router := newTestServer().Router()
	tests := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/v1/trees/"},
		{http.MethodGet, "/api/v1/trees/"},
		{http.MethodGet, "/api/v1/trees/abc"},
		{http.MethodPut, "/api/v1/trees/abc"},
		{http.MethodDelete, "/api/v1/trees/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doJSON(t, router, tt.method, tt.path, "{}")
			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want 503", rec.Code)
			}
		})
	}
}
