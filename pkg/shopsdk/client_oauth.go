package shopsdk

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// OAuthConfig configures social login through the backend's OAuth2 bridge.
type OAuthConfig struct {
	ClientID    string
	RedirectURL string
	Scopes      []string
}

// OAuth2Config returns the oauth2 configuration for provider ("google",
// "facebook", ...).
func (c *Client) OAuth2Config(provider string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    c.OAuth.ClientID,
		RedirectURL: c.OAuth.RedirectURL,
		Scopes:      c.OAuth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.url("/oauth2/authorize/" + url.PathEscape(provider)),
			TokenURL:  c.url("/api/auth/oauth2/token"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthorizeURL builds the URL the user opens to start a social login. The
// verifier comes from oauth2.GenerateVerifier and must be kept for
// ExchangeCode.
func (c *Client) AuthorizeURL(provider, state, verifier string) string {
	return c.OAuth2Config(provider).AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, provider, code, verifier string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)

	tok, err := c.OAuth2Config(provider).Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			apiErr := &APIError{
				StatusCode: re.Response.StatusCode,
				Code:       re.ErrorCode,
				Message:    firstNonEmpty(re.ErrorDescription, re.ErrorCode, "token exchange failed"),
				Err:        err,
			}
			return "", c.intercept(ctx, apiErr)
		}
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return tok.AccessToken, nil
}

// Callback is what the backend's OAuth2 bridge redirects back with: either an
// access token directly or an authorization code.
type Callback struct {
	Token string
	Code  string
	State string
}

// ParseCallback parses the redirect URL of a social login. An error parameter
// yields a *CallbackError.
//
// Example:
//
//	cb, err := shopsdk.ParseCallback("https://shop.example.com/oauth2/redirect?token=xyz&state=abc")
func ParseCallback(callbackURL string) (Callback, error) {
	u, err := url.Parse(strings.TrimSpace(callbackURL))
	if err != nil {
		return Callback{}, fmt.Errorf("failed to parse callback URL: %w", err)
	}

	query := u.Query()

	if errorCode := query.Get("error"); errorCode != "" {
		return Callback{}, &CallbackError{
			Code:        errorCode,
			Description: query.Get("error_description"),
		}
	}

	cb := Callback{
		Token: query.Get("token"),
		Code:  query.Get("code"),
		State: query.Get("state"),
	}
	if cb.Token == "" && cb.Code == "" {
		return Callback{}, ErrNoCallback
	}
	return cb, nil
}
