package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in with email and password",
		Annotations: route("/login"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return c.show(user, func() error { return c.printUser(user) })
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var req shopsdk.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. Send a code first with
  storefront otp send --email <email> --purpose register
and pass it with --otp.`,
		Annotations: route("/register"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.Auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(c.out, "Account created. Sign in with storefront login.")
				return nil
			}
			return c.show(user, func() error { return c.printUser(user) })
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().StringVar(&req.OTP, "otp", "", "Code from the registration email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Sign out and forget the local session",
		Annotations: route("/"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Auth.Logout(cmd.Context())
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "status",
		Short:       "Show whether the stored session is usable",
		Annotations: route("/"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.app.Auth.Describe(cmd.Context(), c.app.Validator)

			return c.show(s, func() error {
				if !s.Verdict.Valid {
					fmt.Fprintf(c.out, "Signed out (%s): %s\n", s.Verdict.Reason, s.Verdict.Message)
					return nil
				}
				fmt.Fprintf(c.out, "Signed in as %s <%s>\n", s.User.Name, s.User.Email)
				fmt.Fprintf(c.out, "Session expires in %s\n", s.ExpiresIn.Round(time.Second))
				if s.ExpiringSoon {
					fmt.Fprintln(c.errOut, "\033[33m⚠\033[0m Session is about to expire, sign in again to renew it.")
				}
				return nil
			})
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep checking the session until interrupted",
		Long: `Re-validate the stored session every STOREFRONT_MONITOR_INTERVAL and
sign out as soon as it stops being valid. With METRICS_ADDR set the
Prometheus metrics are served on /metrics.`,
		Annotations: route("/"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return c.app.Watch(ctx)
		},
	}
}

func (c *cli) otpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Request and check one-time codes",
	}

	var email, purpose, code string
	purposeFlag := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&email, "email", "", "Account email")
		cmd.Flags().StringVar(&purpose, "purpose", "register", "register or reset")
		_ = cmd.MarkFlagRequired("email")
	}

	send := &cobra.Command{
		Use:         "send",
		Short:       "Email a one-time code",
		Annotations: route("/otp"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := otpPurpose(purpose)
			if err != nil {
				return err
			}
			if err := c.app.Auth.SendOTP(cmd.Context(), email, p); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Code sent to %s\n", email)
			return nil
		},
	}
	purposeFlag(send)

	verify := &cobra.Command{
		Use:         "verify",
		Short:       "Check a one-time code",
		Annotations: route("/otp"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := otpPurpose(purpose)
			if err != nil {
				return err
			}
			resp, err := c.app.Auth.VerifyOTP(cmd.Context(), email, code, p)
			if err != nil {
				return err
			}
			return c.show(resp, func() error {
				if !resp.Verified {
					return fmt.Errorf("code rejected")
				}
				fmt.Fprintln(c.out, "Code accepted")
				if resp.ResetToken != "" {
					fmt.Fprintf(c.out, "Reset token: %s\n", resp.ResetToken)
				}
				return nil
			})
		},
	}
	purposeFlag(verify)
	verify.Flags().StringVar(&code, "code", "", "Code from the email")
	_ = verify.MarkFlagRequired("code")

	cmd.AddCommand(send, verify)
	return cmd
}

func otpPurpose(p string) (string, error) {
	switch strings.ToLower(p) {
	case "register":
		return shopsdk.OTPPurposeRegister, nil
	case "reset", "reset-password":
		return shopsdk.OTPPurposeResetPassword, nil
	default:
		return "", fmt.Errorf("unknown purpose %q, want register or reset", p)
	}
}

func (c *cli) passwordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
	}

	var email, token, newPassword string
	reset := &cobra.Command{
		Use:         "reset",
		Short:       "Set a new password with the token from otp verify --purpose reset",
		Annotations: route("/forgot-password"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Auth.ResetPassword(cmd.Context(), email, token, newPassword); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Password changed. Sign in with storefront login.")
			return nil
		},
	}
	reset.Flags().StringVar(&email, "email", "", "Account email")
	reset.Flags().StringVar(&token, "token", "", "Reset token")
	reset.Flags().StringVar(&newPassword, "new-password", "", "New password")
	_ = reset.MarkFlagRequired("email")
	_ = reset.MarkFlagRequired("token")
	_ = reset.MarkFlagRequired("new-password")

	cmd.AddCommand(reset)
	return cmd
}

func (c *cli) oauthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Sign in with a social account",
	}

	var redirect string
	start := &cobra.Command{
		Use:         "url <provider>",
		Short:       "Print the URL to open in a browser",
		Annotations: route("/login"),
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.app.Auth.BeginOAuth(cmd.Context(), args[0], redirect)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, u)
			fmt.Fprintln(c.errOut, "Open the URL, then pass the address you land on to: storefront oauth callback <url>")
			return nil
		},
	}
	start.Flags().StringVar(&redirect, "redirect", "/", "Page to return to after signing in")

	callback := &cobra.Command{
		Use:         "callback <url>",
		Short:       "Finish a social login with the redirect URL",
		Annotations: route("/oauth2/redirect"),
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.app.Auth.HandleOAuthCallback(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.show(user, func() error { return c.printUser(user) })
		},
	}

	cmd.AddCommand(start, callback)
	return cmd
}

func (c *cli) printUser(u *domain.User) error {
	return c.table(
		[]string{"ID", "NAME", "EMAIL", "PHONE", "ROLE", "ACTIVE"},
		[][]string{{u.ID, u.Name, u.Email, u.Phone, u.Role, fmt.Sprint(u.Active)}},
	)
}
