// Package server provides the HTTP decision server.
//
// It mounts three surfaces: POST /v1/decisions evaluates a named rule
// against a JSON context and returns the decision, GET /v1/ruleset
// describes the active ruleset, and GET /healthz reports liveness. When a
// metrics collector is attached, the Prometheus exposition endpoint is
// mounted as well. Shutdown is graceful with a configurable timeout.
package server
