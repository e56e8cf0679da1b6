package domain

import "time"

// PendingLogin remembers an OAuth2 redirect between building the authorize URL
// and handling the callback.
type PendingLogin struct {
	Provider     string    `json:"provider"`
	State        string    `json:"state"`
	Verifier     string    `json:"verifier"`
	RedirectPath string    `json:"redirectPath,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Expired reports whether the pending login is older than ttl.
func (p PendingLogin) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.CreatedAt) > ttl
}
