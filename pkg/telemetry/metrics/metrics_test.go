package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRecordDecision(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(Config{Enabled: true}, registry)

	collector.Decisions().RecordDecision("access", "can_edit", "allow", 50*time.Microsecond)
	collector.Decisions().RecordDecision("access", "can_edit", "allow", 70*time.Microsecond)
	collector.Decisions().RecordDecision("access", "can_edit", "deny", 40*time.Microsecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	byName := map[string]bool{}
	for _, mf := range families {
		byName[mf.GetName()] = true
		if mf.GetName() == "themis_decisions_total" {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			if total != 3 {
				t.Errorf("themis_decisions_total = %v, want 3", total)
			}
		}
	}
	if !byName["themis_decisions_total"] {
		t.Error("themis_decisions_total not registered")
	}
	if !byName["themis_decision_duration_seconds"] {
		t.Error("themis_decision_duration_seconds not registered")
	}
}

func TestRecordReloadUpdatesGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(Config{Enabled: true}, registry)

	collector.Engine().RecordReload("success", 5)
	collector.Engine().RecordReload("failure", 0)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	for _, mf := range families {
		switch mf.GetName() {
		case "themis_ruleset_rules":
			if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 5 {
				t.Errorf("themis_ruleset_rules = %v, want 5", got)
			}
		case "themis_ruleset_reloads_total":
			if len(mf.GetMetric()) != 2 {
				t.Errorf("reloads_total has %d label sets, want 2", len(mf.GetMetric()))
			}
		}
	}
}

func TestDisabledCollectorRecordsNothing(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(Config{Enabled: false}, registry)

	collector.Decisions().RecordDecision("access", "can_edit", "allow", time.Microsecond)
	collector.Engine().RecordParseError()
	collector.Engine().RecordAuditDrop()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil && m.GetCounter().GetValue() != 0 {
				t.Errorf("%s recorded %v while disabled", mf.GetName(), m.GetCounter().GetValue())
			}
		}
	}
}

func TestHandlerServesExposition(t *testing.T) {
	collector := NewCollector(Config{Enabled: true}, nil)
	collector.Decisions().RecordDecision("access", "can_edit", "allow", time.Microsecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("GET /metrics status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "themis_decisions_total") {
		t.Errorf("exposition missing themis_decisions_total:\n%s", body)
	}
}
