package audit

import (
	"log/slog"
)

// EventEmitter accepts structured audit events for recording.
type EventEmitter interface {
	Emit(Event) error
}

// NopEmitter discards all events. Use when no audit backend is configured.
type NopEmitter struct{}

// Emit discards the event.
func (NopEmitter) Emit(Event) error { return nil }

// LogEmitter writes events to a slog logger. It is the default backend for
// the daemon's console output.
type LogEmitter struct {
	logger *slog.Logger
}

// NewLogEmitter creates an emitter writing to logger, or slog.Default() if
// logger is nil.
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger}
}

// Emit logs the event at a level derived from its severity.
func (e *LogEmitter) Emit(ev Event) error {
	attrs := []any{
		"event", string(ev.Type),
		"severity", ev.Severity.String(),
		"id", ev.ID,
	}
	if ev.Credential != "" {
		attrs = append(attrs, "credential", ev.Credential)
	}
	for k, v := range ev.Details {
		attrs = append(attrs, k, v)
	}

	switch {
	case ev.Severity <= SeverityCritical:
		e.logger.Error("audit", attrs...)
	case ev.Severity <= SeverityWarning:
		e.logger.Warn("audit", attrs...)
	default:
		e.logger.Info("audit", attrs...)
	}
	return nil
}

// Recorder fans events out to one or more backends. Backend failures are
// logged and swallowed; audit must never block or fail the control loop.
type Recorder struct {
	backends []EventEmitter
	logger   *slog.Logger
}

// NewRecorder creates a recorder that forwards events to the given backends.
// If logger is nil, slog.Default() is used for error reporting.
func NewRecorder(logger *slog.Logger, backends ...EventEmitter) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{backends: backends, logger: logger}
}

// Record writes the event to all backends.
func (r *Recorder) Record(ev Event) {
	for _, b := range r.backends {
		if err := b.Emit(ev); err != nil {
			r.logger.Error("audit emit failed", "event", string(ev.Type), "error", err)
		}
	}
}
