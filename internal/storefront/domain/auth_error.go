package domain

// AuthErrorReason classifies an authentication failure reported by the
// backend.
type AuthErrorReason string

const (
	AuthErrTokenExpired    AuthErrorReason = "TOKEN_EXPIRED"
	AuthErrAccountBanned   AuthErrorReason = "ACCOUNT_BANNED"
	AuthErrAccountInactive AuthErrorReason = "ACCOUNT_INACTIVE"
	AuthErrInvalidToken    AuthErrorReason = "INVALID_TOKEN"
	AuthErrUnauthorized    AuthErrorReason = "UNAUTHORIZED"
	AuthErrUnknown         AuthErrorReason = "UNKNOWN_ERROR"
)
