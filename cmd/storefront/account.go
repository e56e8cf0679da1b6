package main

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
	"github.com/spf13/cobra"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and change your account",
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Show your profile",
		Annotations: route("/profile"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			u, err := c.app.Client.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			return c.show(u, func() error { return c.printUser(u) })
		},
	}

	var upd shopsdk.ProfileUpdate
	update := &cobra.Command{
		Use:         "update",
		Short:       "Change name or phone",
		Annotations: route("/profile"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			u, err := c.app.Client.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return err
			}
			// Keep the cached record in step so the validator sees the change.
			if err := c.app.Store.Users().SaveUser(cmd.Context(), *u); err != nil {
				return err
			}
			return c.show(u, func() error { return c.printUser(u) })
		},
	}
	update.Flags().StringVar(&upd.Name, "name", "", "Full name")
	update.Flags().StringVar(&upd.Phone, "phone", "", "Phone number")

	var change shopsdk.PasswordChange
	password := &cobra.Command{
		Use:         "password",
		Short:       "Change your password",
		Annotations: route("/profile"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			if err := c.app.Client.ChangePassword(cmd.Context(), change); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Password changed")
			return nil
		},
	}
	password.Flags().StringVar(&change.CurrentPassword, "current", "", "Current password")
	password.Flags().StringVar(&change.NewPassword, "new", "", "New password")
	_ = password.MarkFlagRequired("current")
	_ = password.MarkFlagRequired("new")

	totp := &cobra.Command{
		Use:         "totp",
		Short:       "Enrol an authenticator app",
		Annotations: route("/profile"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			key, err := c.app.Auth.EnrollTOTP(cmd.Context())
			if err != nil {
				return err
			}
			code, err := key.Code(time.Now())
			if err != nil {
				return err
			}
			return c.show(key, func() error {
				fmt.Fprintf(c.out, "Account: %s (%s)\n", key.AccountName, key.Issuer)
				fmt.Fprintf(c.out, "Secret:  %s\n", key.Secret)
				fmt.Fprintf(c.out, "URL:     %s\n", key.URL)
				fmt.Fprintf(c.out, "\nYour app should now show %s\n", code)
				return nil
			})
		},
	}

	cmd.AddCommand(show, update, password, totp)
	return cmd
}

func (c *cli) addressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Manage delivery addresses",
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List delivery addresses",
		Annotations: route("/addresses"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			addrs, err := c.app.Client.ListAddresses(cmd.Context())
			if err != nil {
				return err
			}
			return c.show(addrs, func() error {
				rows := make([][]string, 0, len(addrs))
				for _, a := range addrs {
					def := ""
					if a.IsDefault {
						def = "*"
					}
					rows = append(rows, []string{a.ID, def, a.Recipient, a.Phone, formatAddress(a)})
				}
				return c.table([]string{"ID", "DEFAULT", "RECIPIENT", "PHONE", "ADDRESS"}, rows)
			})
		},
	}

	var addr domain.Address
	add := &cobra.Command{
		Use:         "add",
		Short:       "Add a delivery address",
		Annotations: route("/addresses"),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			created, err := c.app.Client.AddAddress(cmd.Context(), addr)
			if err != nil {
				return err
			}
			return c.show(created, func() error {
				fmt.Fprintf(c.out, "Added %s: %s\n", created.ID, formatAddress(*created))
				return nil
			})
		},
	}
	add.Flags().StringVar(&addr.Recipient, "recipient", "", "Recipient name")
	add.Flags().StringVar(&addr.Phone, "phone", "", "Recipient phone")
	add.Flags().StringVar(&addr.Line1, "line", "", "Street address")
	add.Flags().StringVar(&addr.Ward, "ward", "", "Ward")
	add.Flags().StringVar(&addr.District, "district", "", "District")
	add.Flags().StringVar(&addr.City, "city", "", "City or province")
	add.Flags().BoolVar(&addr.IsDefault, "default", false, "Use as default address")
	_ = add.MarkFlagRequired("recipient")
	_ = add.MarkFlagRequired("line")

	del := &cobra.Command{
		Use:         "delete <id>",
		Short:       "Delete a delivery address",
		Annotations: route("/addresses"),
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(cmd); err != nil {
				return err
			}
			return c.app.Client.DeleteAddress(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

func formatAddress(a domain.Address) string {
	out := a.Line1
	for _, part := range []string{a.Ward, a.District, a.City} {
		if part != "" {
			out += ", " + part
		}
	}
	return out
}
