package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"mercator-hq/themis/pkg/audit"
	"mercator-hq/themis/pkg/policy/engine"
)

// DecisionRequest is the body of POST /v1/decisions.
type DecisionRequest struct {
	// Rule is the name of the rule to evaluate.
	Rule string `json:"rule"`

	// Context is the input the rule is evaluated against.
	Context map[string]any `json:"context"`
}

// DecisionResponse is the body returned for a successful decision.
type DecisionResponse struct {
	ID      string `json:"id"`
	Rule    string `json:"rule"`
	RuleSet string `json:"ruleset"`
	Allowed bool   `json:"allowed"`
	Outcome string `json:"outcome"`
}

// RuleSetResponse describes the active ruleset for GET /v1/ruleset.
type RuleSetResponse struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Rules   []string `json:"rules"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Rule == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "rule is required"})
		return
	}

	decision, err := s.engine.Evaluate(r.Context(), req.Rule, req.Context)
	if err != nil {
		switch {
		case engine.IsRuleNotFound(err):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, engine.ErrClosed):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		default:
			s.logger.Error("evaluation failed", "rule", req.Rule, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "evaluation failed"})
		}
		return
	}

	if s.recorder != nil {
		s.recorder.Record(audit.FromDecision(decision))
	}
	if s.collector != nil {
		s.collector.Decisions().RecordDecision(
			decision.RuleSet, decision.Rule, decision.Outcome(), decision.Duration)
	}

	writeJSON(w, http.StatusOK, DecisionResponse{
		ID:      decision.ID,
		Rule:    decision.Rule,
		RuleSet: decision.RuleSet,
		Allowed: decision.Allowed,
		Outcome: decision.Outcome(),
	})
}

func (s *Server) handleRuleSet(w http.ResponseWriter, r *http.Request) {
	rs := s.engine.RuleSet()
	if rs == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no ruleset loaded"})
		return
	}

	writeJSON(w, http.StatusOK, RuleSetResponse{
		Name:    rs.Name,
		Version: rs.Version,
		Rules:   rs.Names(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
