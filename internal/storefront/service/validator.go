package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/metrics"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
)

// Checker computes the current auth verdict.
type Checker interface {
	Validate(ctx context.Context) domain.Verdict
}

// Validator decides whether the locally stored session is usable. It only
// reads storage, it never talks to the backend.
type Validator struct {
	Store    store.Store
	Messages domain.Catalog
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

func NewValidator(st store.Store, messages domain.Catalog, logger *slog.Logger) *Validator {
	return &Validator{
		Store:    st,
		Messages: messages,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Validate checks, in order: a token is stored, the token has not expired, a
// user record is stored, the user is active. The first failing check decides
// the verdict.
func (v *Validator) Validate(ctx context.Context) domain.Verdict {
	verdict := v.validate(ctx)

	if v.Metrics != nil {
		result := "valid"
		if !verdict.Valid {
			result = string(verdict.Reason)
		}
		v.Metrics.AuthChecks.WithLabelValues(result).Inc()
	}
	return verdict
}

func (v *Validator) validate(ctx context.Context) domain.Verdict {
	token, err := v.Store.Tokens().GetToken(ctx)
	if err != nil {
		v.logReadError(ctx, "token", err)
		return v.invalid(domain.ReasonNoToken)
	}

	if err := jwtx.CheckExpiry(token, v.now()); err != nil {
		// Malformed and exp-less tokens share the expired verdict.
		if v.Logger != nil {
			v.Logger.DebugContext(ctx, "stored token rejected", "cause", err)
		}
		return v.invalid(domain.ReasonTokenExpired)
	}

	user, err := v.Store.Users().GetUser(ctx)
	if err != nil {
		v.logReadError(ctx, "user", err)
		return v.invalid(domain.ReasonNoUserData)
	}

	if !user.Active {
		return v.invalid(domain.ReasonUserInactive)
	}

	return domain.ValidVerdict()
}

// IsAuthenticated is Validate reduced to a bool.
func (v *Validator) IsAuthenticated(ctx context.Context) bool {
	return v.validate(ctx).Valid
}

func (v *Validator) invalid(reason domain.Reason) domain.Verdict {
	return domain.InvalidVerdict(reason, v.Messages.ForReason(reason))
}

// logReadError reports storage failures other than absence. Either way the
// entry counts as missing.
func (v *Validator) logReadError(ctx context.Context, entry string, err error) {
	if errors.Is(err, store.ErrNotFound) || v.Logger == nil {
		return
	}
	v.Logger.WarnContext(ctx, "failed to read session entry", "entry", entry, "error", err)
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}
