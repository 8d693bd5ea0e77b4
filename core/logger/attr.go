package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers follow the empty-Attr pattern for nil safety:
// log.Info("msg", logger.Error(err)) needs no explicit nil check,
// because slog drops empty attributes.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component identifies the subsystem emitting the log record.
func Component(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("component", name)
}

// Event names a discrete occurrence, e.g. "startup" or "session.sweep".
func Event(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("event", name)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Count creates an attribute for a quantity of items.
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// ID creates a generic identifier attribute with a custom key.
func ID(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}
