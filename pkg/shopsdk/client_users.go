package shopsdk

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
)

// GetProfile returns the signed-in user.
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/users/me", out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetProfileWithToken fetches the profile with an explicit token instead of
// the TokenSource, used while a new session is being established.
func (c *Client) GetProfileWithToken(ctx context.Context, token string) (*domain.User, error) {
	scoped := *c
	scoped.Tokens = staticToken(token)

	return scoped.GetProfile(ctx)
}

func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, call{method: http.MethodPut, path: "/api/users/me", body: req, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ChangePassword(ctx context.Context, req PasswordChange) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/api/users/me/password", body: req})
}

// EnrollTOTP starts authenticator-app enrolment and returns the otpauth URL.
func (c *Client) EnrollTOTP(ctx context.Context) (*TOTPEnrollment, error) {
	var resp TOTPEnrollment
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/users/me/2fa/totp", out: &resp}); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	var out []domain.Address
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/users/me/addresses", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out domain.Address
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/users/me/addresses", body: a, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out domain.Address
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/users/me/addresses/" + url.PathEscape(a.ID),
		body:   a,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/api/users/me/addresses/" + url.PathEscape(id)})
}

type staticToken string

func (t staticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}
