package composables

import (
	"context"

	"github.com/sirupsen/logrus"
)

// WithLogger returns a new context carrying the logger entry.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// UseLogger returns the logger from the context.
// Falls back to the standard logrus logger when none is set.
func UseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Entry); ok && logger != nil {
		return logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
