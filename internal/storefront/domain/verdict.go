package domain

// Reason explains why a session is not valid.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNoToken      Reason = "NO_TOKEN"
	ReasonTokenExpired Reason = "TOKEN_EXPIRED"
	ReasonNoUserData   Reason = "NO_USER_DATA"
	ReasonUserInactive Reason = "USER_INACTIVE"
)

// Verdict is the outcome of one auth state check. It is recomputed on every
// check and never stored.
type Verdict struct {
	Valid   bool
	Reason  Reason
	Message string
}

func ValidVerdict() Verdict { return Verdict{Valid: true} }

func InvalidVerdict(reason Reason, message string) Verdict {
	return Verdict{Valid: false, Reason: reason, Message: message}
}
