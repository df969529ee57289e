package observability

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err with its oops code and context when it carries them.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.ErrorContext(ctx, msg, "error", err)
		return
	}

	attrs := []any{
		"error", oopsErr.Error(),
	}
	if code := oopsErr.Code(); code != nil && code != "" {
		attrs = append(attrs, "code", code)
	}
	if c := oopsErr.Context(); len(c) > 0 {
		attrs = append(attrs, "context", c)
	}
	logger.ErrorContext(ctx, msg, attrs...)
}
