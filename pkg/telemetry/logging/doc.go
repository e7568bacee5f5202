// Package logging configures structured logging for the decision service.
//
// It builds log/slog loggers from a small Config (level, format, source
// annotations) and provides context helpers for threading decision IDs
// and rule names through evaluation call chains.
package logging
