package shopsdk

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPKey is the decoded otpauth:// URL of an authenticator enrolment.
type TOTPKey struct {
	Issuer      string
	AccountName string
	Secret      string
	Period      uint64
	URL         string
}

// ParseOTPAuthURL decodes the URL returned by EnrollTOTP so it can be shown
// as a manual-entry secret.
func ParseOTPAuthURL(raw string) (*TOTPKey, error) {
	key, err := otp.NewKeyFromURL(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid otpauth url: %w", err)
	}
	if key.Type() != "totp" {
		return nil, fmt.Errorf("unsupported otp type %q", key.Type())
	}

	return &TOTPKey{
		Issuer:      key.Issuer(),
		AccountName: key.AccountName(),
		Secret:      key.Secret(),
		Period:      key.Period(),
		URL:         key.URL(),
	}, nil
}

// Code returns the current code for the key, letting a user confirm the
// enrolment from the terminal.
func (k *TOTPKey) Code(now time.Time) (string, error) {
	return totp.GenerateCode(k.Secret, now)
}
