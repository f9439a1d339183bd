// Package attr provides slog attribute helpers shared across modules so log
// fields keep consistent keys and types everywhere.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

func Error(err error) slog.Attr { return slog.Any("error", err) }

type correlationIDKey struct{}

// ContextWithCorrelationID stores a correlation ID for later extraction by
// ExtractCorrelationID. Handlers call this once when a message enters.
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// ExtractCorrelationID returns the correlation ID attribute from a context,
// or an empty-valued attribute when none was set.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return slog.String("correlation_id", id)
}

// CorrelationIDFromMsg reads the watermill correlation ID metadata.
func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	return slog.String("correlation_id", middleware.MessageCorrelationID(msg))
}
