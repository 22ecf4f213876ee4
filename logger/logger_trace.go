//go:build debug_trace
// +build debug_trace

package logger

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
)

func Tracef(ctx context.Context, format string, args ...any) {
	logger.Tracef(ctx, format, args...)
}

func IsTraceEnabled(ctx context.Context) bool {
	return logger.FromCtx(ctx).Level() >= logger.LevelTrace
}
