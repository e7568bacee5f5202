package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/themis/pkg/audit"
	"mercator-hq/themis/pkg/config"
	"mercator-hq/themis/pkg/policy/engine"
	"mercator-hq/themis/pkg/policy/engine/source"
	"mercator-hq/themis/pkg/telemetry/metrics"
)

func testServer(t *testing.T) (*Server, *audit.MemoryStorage) {
	t.Helper()

	src, err := source.NewMemorySource("access", "1", map[string]string{
		"can_edit":   "role = admin OR (role = editor AND status = active)",
		"adults_eu":  "age >= 18 AND country IN {DE, FR, IT}",
		"always_off": "NOT status = status",
	})
	if err != nil {
		t.Fatalf("NewMemorySource() error = %v", err)
	}

	eng, err := engine.NewInterpreterEngine(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("NewInterpreterEngine() error = %v", err)
	}
	t.Cleanup(func() { eng.Close() })

	storage := audit.NewMemoryStorage()
	recorder := audit.NewRecorder(storage, nil)
	t.Cleanup(func() { recorder.Close() })

	collector := metrics.NewCollector(metrics.Config{Enabled: true}, nil)

	cfg := &config.ServerConfig{
		ListenAddress:   "127.0.0.1:0",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: time.Second,
	}

	srv, err := NewServer(Options{
		Config:    cfg,
		Engine:    eng,
		Recorder:  recorder,
		Collector: collector,
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv, storage
}

func postDecision(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/decisions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestDecisionAllow(t *testing.T) {
	srv, _ := testServer(t)

	rec := postDecision(t, srv.Handler(),
		`{"rule": "can_edit", "context": {"role": "admin"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp DecisionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !resp.Allowed || resp.Outcome != "allow" {
		t.Errorf("decision = %+v, want allow", resp)
	}
	if resp.ID == "" {
		t.Error("decision ID is empty")
	}
	if resp.RuleSet != "access" {
		t.Errorf("ruleset = %q, want access", resp.RuleSet)
	}
}

func TestDecisionDeny(t *testing.T) {
	srv, _ := testServer(t)

	rec := postDecision(t, srv.Handler(),
		`{"rule": "adults_eu", "context": {"age": 16, "country": "DE"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp DecisionResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Allowed || resp.Outcome != "deny" {
		t.Errorf("decision = %+v, want deny", resp)
	}
}

func TestDecisionErrors(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"unknown rule", `{"rule": "nope", "context": {}}`, http.StatusNotFound},
		{"missing rule", `{"context": {}}`, http.StatusBadRequest},
		{"invalid json", `{not json`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postDecision(t, handler, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestDecisionRecordsAudit(t *testing.T) {
	srv, storage := testServer(t)

	rec := postDecision(t, srv.Handler(),
		`{"rule": "can_edit", "context": {"role": "editor", "status": "active"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp DecisionResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)

	// Recorder writes asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if record, err := storage.Get(context.Background(), resp.ID); err == nil {
			if record.Rule != "can_edit" || !record.Allowed {
				t.Errorf("audit record = %+v, want can_edit/allow", record)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("audit record never appeared")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRuleSetEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/v1/ruleset", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/ruleset status = %d, want 200", rec.Code)
	}
	var resp RuleSetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Name != "access" || len(resp.Rules) != 3 {
		t.Errorf("ruleset = %+v, want access with 3 rules", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	postDecision(t, handler, `{"rule": "can_edit", "context": {"role": "admin"}}`)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "themis_decisions_total") {
		t.Error("metrics exposition missing themis_decisions_total")
	}
}
