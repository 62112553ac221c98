package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dotlayout/pkg/errors"
	"github.com/matzehuels/dotlayout/pkg/layout"
	"github.com/matzehuels/dotlayout/pkg/service"
)

const laidOut = `digraph G {
	graph [bb="0,0,54,36"];
	a [height=0.5, pos="27,18", width=0.75];
}
`

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(t *testing.T, loader Loader) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(Handler(loader, testLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestGraph(t *testing.T) {
	// Sources are already laid out, so the passthrough annotator suffices.
	src := fstest.MapFS{"one.gv": {Data: []byte(laidOut)}}
	runner := service.NewRunner(nil, nil, layout.Passthrough{}, src, testLogger())
	srv := newTestServer(t, runner)

	resp, body := get(t, srv.URL+"/graph?filename=one.gv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	want := `{"bb":[0,0,54,36],"edges":[],"nodes":{"a":{"height":0.5,"pos":{"x":27,"y":18},"width":0.75}}}`
	if body != want {
		t.Errorf("body =\n%s\nwant\n%s", body, want)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q", resp.Header.Get("X-Cache"))
	}
}

func TestGraphErrors(t *testing.T) {
	src := fstest.MapFS{
		"bad.gv": {Data: []byte(`a [pos="x,1"]`)},
	}
	runner := service.NewRunner(nil, nil, layout.Passthrough{}, src, testLogger())
	srv := newTestServer(t, runner)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"MissingParam", "", "Error: path cannot be empty"},
		{"Traversal", "?filename=../secret.gv", "Error: path cannot contain path traversal sequences (..)"},
		{"NotFound", "?filename=nope.gv", "Error: graph nope.gv not found"},
		{"ParseError", "?filename=bad.gv", "Error: statement \"a\": attribute pos: invalid number \"x\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, srv.URL+"/graph"+tt.query)
			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want 200", resp.StatusCode)
			}
			if !strings.HasPrefix(body, tt.want) {
				t.Errorf("body = %q, want prefix %q", body, tt.want)
			}
		})
	}
}

type stubLoader struct {
	res *service.Result
	err error
}

func (s stubLoader) Load(context.Context, string) (*service.Result, error) {
	return s.res, s.err
}

func TestGraphCachedHeader(t *testing.T) {
	srv := newTestServer(t, stubLoader{res: &service.Result{JSON: []byte("{}"), Cached: true}})
	resp, body := get(t, srv.URL+"/graph?filename=x.gv")
	if body != "{}" || resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("body = %q, X-Cache = %q", body, resp.Header.Get("X-Cache"))
	}
}

func TestGraphLayoutFailure(t *testing.T) {
	srv := newTestServer(t, stubLoader{err: errors.New(errors.ErrCodeLayout, "run dot")})
	_, body := get(t, srv.URL+"/graph?filename=x.gv")
	if body != "Error: run dot" {
		t.Errorf("body = %q", body)
	}
}

func TestGraphFailureLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"ParseError", errors.New(errors.ErrCodeNumberFormat, "invalid number"), "INFO"},
		{"LayoutError", errors.New(errors.ErrCodeLayout, "run dot"), "WARN"},
		{"NotFound", errors.New(errors.ErrCodeFileNotFound, "graph x.gv not found"), "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
			h := Handler(stubLoader{err: tt.err}, logger)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graph?filename=x.gv", nil))

			var line string
			for _, l := range strings.Split(buf.String(), "\n") {
				if strings.Contains(l, "load failed") {
					line = l
				}
			}
			if !strings.HasPrefix(line, tt.level) {
				t.Errorf("log line = %q, want level %s", line, tt.level)
			}
		})
	}
}

type panicLoader struct{}

func (panicLoader) Load(context.Context, string) (*service.Result, error) {
	panic("boom")
}

func TestGraphPanicRecovered(t *testing.T) {
	srv := newTestServer(t, panicLoader{})
	resp, _ := get(t, srv.URL+"/graph?filename=x.gv")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, stubLoader{})
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, stubLoader{})

	resp, _ := get(t, srv.URL+"/healthz")
	id := resp.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated request ID %q is not a UUID: %v", id, err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("incoming request ID not kept: %q", got)
	}
}

func TestRequestIDInContext(t *testing.T) {
	var seen string
	h := requestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen != rec.Header().Get(RequestIDHeader) {
		t.Errorf("context ID %q, header %q", seen, rec.Header().Get(RequestIDHeader))
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), testLogger())
	}()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve = %v, want nil", err)
	}
}
