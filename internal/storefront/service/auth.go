package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/internal/storefront/events"
	"github.com/aussiebroadwan/storefront/internal/storefront/store"
	"github.com/aussiebroadwan/storefront/pkg/cryptox"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
	"golang.org/x/oauth2"
)

// DefaultPendingLoginTTL bounds how long a social login may take.
const DefaultPendingLoginTTL = 10 * time.Minute

var (
	ErrNoTokenIssued   = errors.New("backend issued no access token")
	ErrTokenRejected   = errors.New("issued token is already expired or unreadable")
	ErrAccountInactive = errors.New("account is not active")
	ErrNoPendingLogin  = errors.New("no social login in progress")
	ErrPendingExpired  = errors.New("social login took too long")
)

// AuthService establishes and ends sessions. Every successful sign-in path
// ends in establish, which writes token and user and broadcasts the change.
type AuthService struct {
	Client    *shopsdk.Client
	Store     store.Store
	Bus       *events.Bus
	Navigator Navigator
	Notifier  Notifier
	Messages  domain.Catalog
	Logger    *slog.Logger

	LoginPath  string
	PendingTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Login signs in with email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := s.Client.Login(ctx, shopsdk.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, resp.BearerToken(), resp.User)
}

// Register creates an account. When the backend signs the new user in
// straight away the session is established, otherwise the user is nil.
func (s *AuthService) Register(ctx context.Context, req shopsdk.RegisterRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)

	resp, err := s.Client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.BearerToken() == "" {
		return nil, nil
	}

	return s.establish(ctx, resp.BearerToken(), resp.User)
}

// Logout ends the session at the user's request.
func (s *AuthService) Logout(ctx context.Context) error {
	var errs []error
	if err := s.Store.Tokens().DeleteToken(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.Store.Users().DeleteUser(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.Store.Carts().DeleteCart(ctx); err != nil {
		errs = append(errs, err)
	}

	s.publish(ctx, events.AuthChanged{Authenticated: false, Reason: "LOGOUT"})
	s.notify(ctx, LevelInfo, s.Messages.LoggedOut)
	s.navigate("/")

	return errors.Join(errs...)
}

func (s *AuthService) SendOTP(ctx context.Context, email, purpose string) error {
	return s.Client.SendOTP(ctx, shopsdk.OTPRequest{Email: strings.TrimSpace(email), Purpose: purpose})
}

// VerifyOTP checks a one-time code. For password resets the response carries
// the reset token.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code, purpose string) (*shopsdk.OTPVerifyResponse, error) {
	return s.Client.VerifyOTP(ctx, shopsdk.OTPVerifyRequest{
		Email:   strings.TrimSpace(email),
		OTP:     strings.TrimSpace(code),
		Purpose: purpose,
	})
}

// ResetPassword finishes the forgotten password flow and sends the user to
// the login route.
func (s *AuthService) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	err := s.Client.ResetPassword(ctx, shopsdk.ResetPasswordRequest{
		Email:       strings.TrimSpace(email),
		ResetToken:  resetToken,
		NewPassword: newPassword,
	})
	if err != nil {
		return err
	}

	s.navigate(s.loginPath())
	return nil
}

// BeginOAuth starts a social login and returns the URL to open. State and
// PKCE verifier are kept in the session store until the callback.
func (s *AuthService) BeginOAuth(ctx context.Context, provider, redirectPath string) (string, error) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	verifier := oauth2.GenerateVerifier()

	pending := domain.PendingLogin{
		Provider:     provider,
		State:        state,
		Verifier:     verifier,
		RedirectPath: redirectPath,
		CreatedAt:    s.now(),
	}
	if err := s.Store.PendingLogins().SavePendingLogin(ctx, pending); err != nil {
		return "", fmt.Errorf("failed to save pending login: %w", err)
	}

	return s.Client.AuthorizeURL(provider, state, verifier), nil
}

// HandleOAuthCallback finishes a social login. The steps run strictly in
// order: parse the callback, obtain the token, check it has not expired,
// fetch the profile with it, persist token and user, broadcast, navigate to
// the saved redirect path.
func (s *AuthService) HandleOAuthCallback(ctx context.Context, callbackURL string) (*domain.User, error) {
	cb, err := shopsdk.ParseCallback(callbackURL)
	if err != nil {
		return nil, s.failOAuth(ctx, s.Messages.Unknown, err)
	}

	pending, err := s.Store.PendingLogins().GetPendingLogin(ctx)
	hasPending := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if hasPending && pending.Expired(s.now(), s.pendingTTL()) {
		_ = s.Store.PendingLogins().DeletePendingLogin(ctx)
		return nil, s.failOAuth(ctx, s.Messages.LoginAgain, ErrPendingExpired)
	}
	// A code is only exchanged for the state we issued. A token redirect may
	// omit state.
	exchange := cb.Token == ""
	if hasPending && cb.State != pending.State && (exchange || cb.State != "") {
		return nil, s.failOAuth(ctx, s.Messages.InvalidToken, shopsdk.ErrStateMismatch)
	}

	token := cb.Token
	if exchange {
		if !hasPending {
			return nil, s.failOAuth(ctx, s.Messages.LoginAgain, ErrNoPendingLogin)
		}
		token, err = s.Client.ExchangeCode(ctx, pending.Provider, cb.Code, pending.Verifier)
		if err != nil {
			return nil, s.failOAuth(ctx, "", err)
		}
	}

	claims, ok := jwtx.Decode(token)
	if !ok {
		return nil, s.failOAuth(ctx, s.Messages.InvalidToken, ErrTokenRejected)
	}
	if err := claims.ValidateExpiry(s.now()); err != nil {
		return nil, s.failOAuth(ctx, s.Messages.TokenExpired, fmt.Errorf("%w: %w", ErrTokenRejected, err))
	}

	user, err := s.Client.GetProfileWithToken(ctx, token)
	if err != nil {
		return nil, s.failOAuth(ctx, "", err)
	}

	established, err := s.persist(ctx, token, user)
	if err != nil {
		return nil, s.failOAuth(ctx, "", err)
	}

	redirect := "/"
	if hasPending {
		if pending.RedirectPath != "" {
			redirect = pending.RedirectPath
		}
		_ = s.Store.PendingLogins().DeletePendingLogin(ctx)
	}

	s.navigate(redirect)
	return established, nil
}

// EnrollTOTP starts authenticator enrolment for the signed-in user.
func (s *AuthService) EnrollTOTP(ctx context.Context) (*shopsdk.TOTPKey, error) {
	enrollment, err := s.Client.EnrollTOTP(ctx)
	if err != nil {
		return nil, err
	}
	return shopsdk.ParseOTPAuthURL(enrollment.OTPAuthURL)
}

// Session describes the stored session for display.
type Session struct {
	Verdict   domain.Verdict
	User      *domain.User
	ExpiresIn time.Duration

	// ExpiringSoon is set inside jwtx.DefaultExpiryThreshold of expiry.
	ExpiringSoon bool
}

// Describe reads the session without validating it against the backend.
func (s *AuthService) Describe(ctx context.Context, validator Checker) Session {
	out := Session{Verdict: validator.Validate(ctx)}

	if token, err := s.Store.Tokens().GetToken(ctx); err == nil {
		out.ExpiresIn = time.Duration(jwtx.SecondsUntilExpiry(token, s.now())) * time.Second
		out.ExpiringSoon = jwtx.IsExpiringSoon(token, jwtx.DefaultExpiryThreshold, s.now())
	}
	if u, err := s.Store.Users().GetUser(ctx); err == nil {
		out.User = &u
	}
	return out
}

// establish validates a freshly issued token, fills in the profile when the
// response did not carry one and persists the session.
func (s *AuthService) establish(ctx context.Context, token string, user *domain.User) (*domain.User, error) {
	if token == "" {
		return nil, ErrNoTokenIssued
	}
	if jwtx.IsExpired(token, s.now()) {
		return nil, ErrTokenRejected
	}

	if user == nil || user.ID == "" {
		u, err := s.Client.GetProfileWithToken(ctx, token)
		if err != nil {
			return nil, err
		}
		user = u
	}

	return s.persist(ctx, token, user)
}

func (s *AuthService) persist(ctx context.Context, token string, user *domain.User) (*domain.User, error) {
	if !user.Active {
		s.notify(ctx, LevelError, s.Messages.AccountInactive)
		return nil, ErrAccountInactive
	}

	if err := s.Store.Tokens().SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.Store.Users().SaveUser(ctx, *user); err != nil {
		_ = s.Store.Tokens().DeleteToken(ctx)
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger().InfoContext(ctx, "session established",
		"user_id", user.ID,
		"token_fp", cryptox.FingerprintToken(token),
	)
	s.publish(ctx, events.AuthChanged{Authenticated: true, UserID: user.ID})
	s.notify(ctx, LevelSuccess, fmt.Sprintf(s.Messages.SignedIn, displayName(user)))
	return user, nil
}

// failOAuth reports a failed social login and returns to the login route.
// An empty message means the error was already surfaced by the API client.
func (s *AuthService) failOAuth(ctx context.Context, message string, err error) error {
	s.logger().WarnContext(ctx, "social login failed", "error", err)
	if message != "" {
		s.notify(ctx, LevelError, message)
	}
	s.navigate(s.loginPath())
	return err
}

func (s *AuthService) publish(ctx context.Context, ev events.AuthChanged) {
	if s.Bus != nil {
		s.Bus.Publish(ctx, ev)
	}
}

func (s *AuthService) notify(ctx context.Context, level Level, message string) {
	if s.Notifier != nil && message != "" {
		s.Notifier.Notify(ctx, level, message)
	}
}

func (s *AuthService) navigate(route string) {
	if s.Navigator != nil {
		s.Navigator.Navigate(route)
	}
}

func (s *AuthService) loginPath() string {
	if s.LoginPath == "" {
		return DefaultLoginPath
	}
	return s.LoginPath
}

func (s *AuthService) pendingTTL() time.Duration {
	if s.PendingTTL <= 0 {
		return DefaultPendingLoginTTL
	}
	return s.PendingTTL
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *AuthService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func displayName(u *domain.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
