package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/routefinder/pkg/cache"
	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/observability"
	"github.com/matzehuels/routefinder/pkg/pipeline"
)

const dataset = `flight_no,origin,destination,departure,arrival,base_price,bag_price,bags_allowed
F1,A,B,2023-01-01T08:00:00,2023-01-01T10:00:00,100,0,2
F2,B,A,2023-01-01T12:00:00,2023-01-01T14:00:00,80,0,2
F3,A,C,2023-01-01T07:00:00,2023-01-01T08:00:00,20,0,2
F4,C,B,2023-01-01T09:30:00,2023-01-01T11:00:00,30,0,1
`

func newTestServer(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flights.csv")
	if err := os.WriteFile(path, []byte(dataset), 0o644); err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(c, nil, logger)
	ds, err := runner.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ts := httptest.NewServer(New(runner, ds, pipeline.Options{}, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

type routesBody struct {
	ID     string `json:"id"`
	Cached bool   `json:"cached"`
	Count  int    `json:"count"`
	Routes []struct {
		TotalPrice float64 `json:"total_price"`
		TravelTime string  `json:"travel_time"`
		Origin     string  `json:"origin"`
	} `json:"routes"`
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	var body struct {
		Status  string `json:"status"`
		Flights int    `json:"flights"`
	}
	if code := getJSON(t, ts.URL+"/healthz", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Status != "ok" || body.Flights != 4 {
		t.Errorf("body = %+v", body)
	}
}

func TestAirports(t *testing.T) {
	ts := newTestServer(t, nil)
	var body struct {
		Airports []string `json:"airports"`
		Count    int      `json:"count"`
	}
	getJSON(t, ts.URL+"/v1/airports", &body)
	if fmt.Sprint(body.Airports) != "[A B C]" || body.Count != 3 {
		t.Errorf("body = %+v", body)
	}
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		prices []float64
	}{
		{"one way", "origin=A&destination=B&bags=1", []float64{50, 100}},
		{"bags exclude leg", "origin=A&destination=B&bags=2", []float64{100}},
		{"round trip", "origin=A&destination=B&bags=1&return=true", []float64{130, 180}},
		{"no routes", "origin=B&destination=C", nil},
	}

	ts := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body routesBody
			if code := getJSON(t, ts.URL+"/v1/routes?"+tt.query, &body); code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if body.ID == "" {
				t.Error("missing id")
			}
			if body.Count != len(tt.prices) || len(body.Routes) != len(tt.prices) {
				t.Fatalf("count = %d, routes = %d, want %d", body.Count, len(body.Routes), len(tt.prices))
			}
			for i, p := range tt.prices {
				if body.Routes[i].TotalPrice != p {
					t.Errorf("route %d price = %v, want %v", i, body.Routes[i].TotalPrice, p)
				}
			}
		})
	}
}

func TestRoutesEmptyIsArray(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/v1/routes?origin=B&destination=C")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["routes"]) != "[]" {
		t.Errorf("routes = %s, want []", raw["routes"])
	}
}

func TestRoutesCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, fc)
	url := ts.URL + "/v1/routes?origin=A&destination=B"

	var first, second routesBody
	getJSON(t, url, &first)
	getJSON(t, url, &second)
	if first.Cached {
		t.Error("first request served from cache")
	}
	if !second.Cached {
		t.Error("second request not served from cache")
	}
	if first.ID == second.ID {
		t.Error("requests share an id")
	}
	if second.Count != first.Count {
		t.Errorf("cached count = %d, want %d", second.Count, first.Count)
	}
}

func TestRoutesErrors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"bad bags", "origin=A&destination=B&bags=x", string(rferrors.ErrCodeInvalidInput)},
		{"negative bags", "origin=A&destination=B&bags=-1", string(rferrors.ErrCodeInvalidInput)},
		{"bad return", "origin=A&destination=B&return=maybe", string(rferrors.ErrCodeInvalidInput)},
		{"missing origin", "destination=B", ""},
	}

	ts := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorResponse
			if code := getJSON(t, ts.URL+"/v1/routes?"+tt.query, &body); code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if body.Error == "" {
				t.Error("missing error message")
			}
			if tt.wantCode != "" && body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{rferrors.New(rferrors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{rferrors.New(rferrors.ErrCodeInvalidAirport, "x"), http.StatusBadRequest},
		{rferrors.New(rferrors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{rferrors.New(rferrors.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{rferrors.New(rferrors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{rferrors.New(rferrors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{fmt.Errorf("search: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	requests []string
	statuses []int
}

func (h *recordingHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, nil)
	var ignored map[string]any
	getJSON(t, ts.URL+"/healthz", &ignored)
	getJSON(t, ts.URL+"/v1/routes?bags=x", &ignored)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if fmt.Sprint(hooks.requests) != "[GET /healthz GET /v1/routes]" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if fmt.Sprint(hooks.statuses) != "[200 400]" {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.csv")
	if err := os.WriteFile(path, []byte(dataset), 0o644); err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	ds, err := runner.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(runner, ds, pipeline.Options{}, logger).ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
