package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackup/pkg/audit"
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/pipeline"
	"github.com/matzehuels/stackup/pkg/session"
)

const demo = `{
  "name": "demo",
  "outline": [[[0,0],[10,0],[10,10],[0,10]]],
  "drills": [{"x": 5, "y": 5, "diameter": 0.3, "plated": true}],
  "layers": [
    {"role": "copper", "side": "top", "polygons": [[[4,4],[6,4],[6,6],[4,6]]]},
    {"role": "copper", "side": "bottom", "polygons": [[[4,4],[6,4],[6,6],[4,6]]]}
  ]
}`

func newTestServer(t *testing.T, opts Options) (*Server, *audit.Recorder) {
	t.Helper()
	logger := log.New(io.Discard)
	rec := &audit.Recorder{}
	opts.Audit = rec
	opts.Logger = logger
	return New(pipeline.NewRunner(nil, nil, logger), session.NewMemoryStore(), opts), rec
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(method, target, r))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	w := do(s, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var h healthResponse
	if err := json.NewDecoder(w.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Build.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestRenderLifecycle(t *testing.T) {
	s, rec := newTestServer(t, Options{})

	w := do(s, http.MethodPost, "/api/renders?formats=svg,json", demo)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var created RenderResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if !session.ValidID(created.ID) || created.Board != "demo" {
		t.Fatalf("created = %+v", created)
	}
	if len(created.Artifacts) != 3 || created.Stats == nil || created.Stats.Layers != 3 {
		t.Errorf("created = %+v", created)
	}
	if got := w.Header().Get("Location"); got != "/api/renders/"+created.ID {
		t.Errorf("Location = %q", got)
	}

	w = do(s, http.MethodGet, "/api/renders/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got RenderResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != created.ID || len(got.Artifacts) != 3 || got.Stats != nil {
		t.Errorf("get = %+v", got)
	}

	w = do(s, http.MethodGet, "/api/renders/"+created.ID+"/top.svg", "")
	if w.Code != http.StatusOK {
		t.Fatalf("artifact status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "<svg") {
		t.Error("artifact is not an SVG")
	}

	w = do(s, http.MethodDelete, "/api/renders/"+created.ID, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	w = do(s, http.MethodGet, "/api/renders/"+created.ID, "")
	if w.Code != http.StatusNotFound || decodeError(t, w).Code != errors.ErrCodeSessionNotFound {
		t.Errorf("get after delete status = %d", w.Code)
	}

	events := rec.Events()
	if len(events) != 5 {
		t.Fatalf("audit events = %d, want 5", len(events))
	}
	if events[0].Action != "render.create" || events[0].SessionID != created.ID || events[0].Status != http.StatusCreated {
		t.Errorf("create event = %+v", events[0])
	}
	if events[0].Board != "demo" || len(events[0].Formats) != 2 {
		t.Errorf("create event = %+v", events[0])
	}
	for _, e := range events {
		if e.Type != audit.TypeUserAction {
			t.Errorf("unexpected event type %q", e.Type)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	s, _ := newTestServer(t, Options{MaxUpload: 1024})
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed document", "/api/renders", `{"outline": [`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty body", "/api/renders", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "/api/renders?formats=svg,pdf", demo, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad scale", "/api/renders?scale=-2", demo, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad shadow", "/api/renders?shadow=maybe", demo, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing outline", "/api/renders", `{"outline": [], "layers": []}`, http.StatusUnprocessableEntity, errors.ErrCodeMissingOutline},
		{"too large", "/api/renders", `{"name": "` + strings.Repeat("x", 2048) + `"}`, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodPost, tt.target, tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if got := decodeError(t, w); got.Code != tt.code || got.Message == "" {
				t.Errorf("error = %+v, want code %s", got, tt.code)
			}
		})
	}
}

func TestArtifactErrors(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	w := do(s, http.MethodPost, "/api/renders", demo)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var created RenderResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		target string
		status int
		code   errors.Code
	}{
		{"bad name", "/api/renders/" + created.ID + "/TOP.SVG", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"not rendered", "/api/renders/" + created.ID + "/board.stl", http.StatusNotFound, errors.ErrCodeNotFound},
		{"unknown session", "/api/renders/6ba7b810-9dad-11d1-80b4-00c04fd430c8/top.svg", http.StatusNotFound, errors.ErrCodeSessionNotFound},
		{"malformed session", "/api/renders/nope", http.StatusNotFound, errors.ErrCodeSessionNotFound},
		{"no route", "/api/unknown", http.StatusNotFound, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, http.MethodGet, tt.target, "")
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if got := decodeError(t, w); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestRenderDefaults(t *testing.T) {
	s, _ := newTestServer(t, Options{Render: pipeline.Options{Formats: []string{"json"}}})
	w := do(s, http.MethodPost, "/api/renders", demo)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var created RenderResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if len(created.Artifacts) != 1 || created.Artifacts[0].Name != "summary.json" {
		t.Errorf("artifacts = %+v", created.Artifacts)
	}
	if created.Artifacts[0].URL != "/api/renders/"+created.ID+"/summary.json" {
		t.Errorf("url = %q", created.Artifacts[0].URL)
	}
}

func TestPanicRecorded(t *testing.T) {
	s, rec := newTestServer(t, Options{})
	s.router.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	w := do(s, http.MethodGet, "/panic", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	events := rec.Events()
	if len(events) != 2 || events[1].Type != audit.TypeServerError {
		t.Errorf("events = %+v, want a user action and a server error", events)
	}
}
