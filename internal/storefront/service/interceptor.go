package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/metrics"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
)

// Interceptor turns failed backend calls into user feedback and, for auth
// failures, into a forced logout. It is installed as the shopsdk client's
// ErrorInterceptor.
type Interceptor struct {
	Invalidator SessionEnder
	Notifier    Notifier
	Messages    domain.Catalog
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

func NewInterceptor(invalidator SessionEnder, notifier Notifier, messages domain.Catalog, logger *slog.Logger) *Interceptor {
	return &Interceptor{
		Invalidator: invalidator,
		Notifier:    notifier,
		Messages:    messages,
		Logger:      logger,
	}
}

// Intercept reports whether the error was fully handled at this layer (the
// session was ended or a permission notice shown). Unhandled errors have
// still been surfaced to the user and are returned to the caller.
func (i *Interceptor) Intercept(ctx context.Context, err error) bool {
	apiErr, ok := shopsdk.AsAPIError(err)
	if !ok {
		i.notify(ctx, LevelError, i.Messages.Unknown)
		return false
	}

	if i.Metrics != nil {
		i.Metrics.APIErrors.WithLabelValues(metrics.StatusClass(apiErr.StatusCode)).Inc()
	}

	switch status := apiErr.StatusCode; {
	case status == 0:
		i.notify(ctx, LevelError, i.Messages.NetworkError)
		return false

	case status == http.StatusUnauthorized:
		// Wrong credentials on login are not a session problem.
		if !apiErr.Authenticated {
			i.notify(ctx, LevelError, apiErr.Message)
			return false
		}

		reason := Classify(apiErr.Code, apiErr.Message)
		message := i.Messages.LoginAgain
		if reason == domain.AuthErrTokenExpired || reason == domain.AuthErrInvalidToken {
			message = i.Messages.ForAuthError(reason)
		}
		i.invalidate(ctx, reason, message)
		return true

	case status == http.StatusForbidden:
		reason := Classify(apiErr.Code, apiErr.Message)
		if endsSession(reason) {
			i.invalidate(ctx, reason, i.Messages.ForAuthError(reason))
			return true
		}
		i.notify(ctx, LevelWarning, i.Messages.PermissionDenied)
		return true

	case status >= http.StatusInternalServerError:
		i.logger().WarnContext(ctx, "backend error", "status", status, "message", apiErr.Message)
		i.notify(ctx, LevelError, i.Messages.ServerError)
		return false

	default:
		i.notify(ctx, LevelError, apiErr.Message)
		return false
	}
}

func (i *Interceptor) invalidate(ctx context.Context, reason domain.AuthErrorReason, message string) {
	i.logger().InfoContext(ctx, "backend rejected session", "reason", reason)
	if i.Invalidator != nil {
		i.Invalidator.Invalidate(ctx, string(reason), message)
	}
}

func (i *Interceptor) notify(ctx context.Context, level Level, message string) {
	if i.Notifier == nil || message == "" {
		return
	}
	i.Notifier.Notify(ctx, level, message)
}

func (i *Interceptor) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.Default()
	}
	return i.Logger
}
