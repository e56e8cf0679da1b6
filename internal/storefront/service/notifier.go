package service

import (
	"context"
	"log/slog"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

// LogNotifier writes notifications to a logger, for headless use.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, level Level, message string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch level {
	case LevelError:
		logger.ErrorContext(ctx, message, "notification", level)
	case LevelWarning:
		logger.WarnContext(ctx, message, "notification", level)
	default:
		logger.InfoContext(ctx, message, "notification", level)
	}
}
