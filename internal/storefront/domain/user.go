package domain

import (
	"encoding/json"
	"strings"
)

// User is the cached copy of the backend's user record.
//
// The backend has shipped the active flag under several names over time, so
// UnmarshalJSON folds them all into Active once. Nothing else in the client
// looks at the raw field names.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Role   string `json:"role,omitempty"`
	Active bool   `json:"active"`
}

// rawUser mirrors every shape of user payload the backend has produced.
type rawUser struct {
	ID       json.RawMessage `json:"id"`
	UserID   json.RawMessage `json:"userId"`
	Name     string          `json:"name"`
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Role     string          `json:"role"`

	Active       *bool  `json:"active"`
	IsActive     *bool  `json:"isActive"`
	IsActiveCase *bool  `json:"is_active"`
	Status       string `json:"status"`
}

// UnmarshalJSON normalises a backend user payload. Absent activity flags mean
// inactive.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw rawUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = User{
		ID:    firstID(raw.ID, raw.UserID),
		Name:  firstNonEmpty(raw.Name, raw.FullName),
		Email: raw.Email,
		Phone: raw.Phone,
		Role:  raw.Role,
		Active: isTrue(raw.Active) ||
			isTrue(raw.IsActive) ||
			isTrue(raw.IsActiveCase) ||
			strings.EqualFold(strings.TrimSpace(raw.Status), "ACTIVE"),
	}
	return nil
}

func isTrue(b *bool) bool { return b != nil && *b }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstID accepts ids as JSON strings or numbers.
func firstID(values ...json.RawMessage) string {
	for _, v := range values {
		if len(v) == 0 || string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// Address is a saved shipping address.
type Address struct {
	ID        string `json:"id,omitempty"`
	Recipient string `json:"recipientName"`
	Phone     string `json:"phone"`
	Line1     string `json:"addressLine"`
	Ward      string `json:"ward,omitempty"`
	District  string `json:"district,omitempty"`
	City      string `json:"city"`
	IsDefault bool   `json:"isDefault"`
}
