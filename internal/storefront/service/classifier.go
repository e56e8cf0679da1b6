package service

import (
	"strings"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
)

// specificCodes are backend error codes that name the failure precisely.
var specificCodes = map[string]domain.AuthErrorReason{
	"TOKEN_EXPIRED":         domain.AuthErrTokenExpired,
	"EXPIRED_TOKEN":         domain.AuthErrTokenExpired,
	"JWT_EXPIRED":           domain.AuthErrTokenExpired,
	"ACCOUNT_BANNED":        domain.AuthErrAccountBanned,
	"ACCOUNT_LOCKED":        domain.AuthErrAccountBanned,
	"ACCOUNT_DISABLED":      domain.AuthErrAccountBanned,
	"ACCOUNT_SUSPENDED":     domain.AuthErrAccountBanned,
	"USER_BANNED":           domain.AuthErrAccountBanned,
	"USER_LOCKED":           domain.AuthErrAccountBanned,
	"ACCOUNT_INACTIVE":      domain.AuthErrAccountInactive,
	"ACCOUNT_NOT_ACTIVATED": domain.AuthErrAccountInactive,
	"USER_INACTIVE":         domain.AuthErrAccountInactive,
	"TOKEN_INVALID":         domain.AuthErrInvalidToken,
	"MALFORMED_TOKEN":       domain.AuthErrInvalidToken,
	"JWT_INVALID":           domain.AuthErrInvalidToken,
}

// genericCodes only apply when the message names nothing more specific.
// OAuth2's invalid_token covers expired and revoked tokens alike.
var genericCodes = map[string]domain.AuthErrorReason{
	"INVALID_TOKEN":   domain.AuthErrInvalidToken,
	"UNAUTHORIZED":    domain.AuthErrUnauthorized,
	"UNAUTHENTICATED": domain.AuthErrUnauthorized,
}

// keywordRules are matched in order, the first rule with a matching keyword
// wins. Keywords are lower case and include the Vietnamese phrases the
// backend emits.
var keywordRules = []struct {
	reason   domain.AuthErrorReason
	keywords []string
}{
	{domain.AuthErrTokenExpired, []string{"expired", "hết hạn"}},
	{domain.AuthErrAccountBanned, []string{"banned", "locked", "disabled", "suspended", "blocked", "bị khóa"}},
	{domain.AuthErrAccountInactive, []string{"inactive", "not active", "deactivated", "not activated", "chưa kích hoạt"}},
	{domain.AuthErrInvalidToken, []string{"invalid token", "token is invalid", "invalid jwt", "malformed", "signature", "không hợp lệ"}},
	{domain.AuthErrUnauthorized, []string{"unauthorized", "unauthenticated", "not authorized", "authentication required", "full authentication"}},
}

// Classify maps a failed call's error code and message to an auth failure
// reason. A specific structured code wins; otherwise the message is matched
// against keyword lists, falling back to a generic code and finally to
// UNKNOWN_ERROR. Keyword matching is best effort: it depends on the
// backend's wording.
func Classify(code, message string) domain.AuthErrorReason {
	normalized := normalizeCode(code)

	if reason, ok := specificCodes[normalized]; ok {
		return reason
	}

	if reason, ok := ClassifyMessage(message); ok {
		return reason
	}

	if reason, ok := genericCodes[normalized]; ok {
		return reason
	}

	return domain.AuthErrUnknown
}

// ClassifyMessage runs the keyword matcher alone.
func ClassifyMessage(message string) (domain.AuthErrorReason, bool) {
	lower := strings.ToLower(strings.TrimSpace(message))
	if lower == "" {
		return domain.AuthErrUnknown, false
	}

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reason, true
			}
		}
	}
	return domain.AuthErrUnknown, false
}

func normalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(code)
}

// endsSession reports whether a 403 reason means the account can no longer
// be used.
func endsSession(r domain.AuthErrorReason) bool {
	return r == domain.AuthErrAccountBanned || r == domain.AuthErrAccountInactive
}
