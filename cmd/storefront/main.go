package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aussiebroadwan/storefront/internal/storefront/app"
	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/pkg/idx"
	"github.com/aussiebroadwan/storefront/pkg/shopsdk"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
	"github.com/spf13/cobra"
)

// routeKey is the cobra annotation naming the page a command stands for.
const routeKey = "route"

// cli is shared by every command. The application is built lazily so
// version and help work without a session store.
type cli struct {
	out    io.Writer
	errOut io.Writer

	jsonOutput bool

	// loadConfig is swapped in tests.
	loadConfig func() app.Config
	options    []app.Option

	app *app.Application
}

func main() {
	c := &cli{out: os.Stdout, errOut: os.Stderr, loadConfig: app.LoadConfig}

	err := c.rootCmd().Execute()
	// Close also runs after a failed command so a pending redirect is shown.
	if closeErr := c.teardown(); err == nil {
		err = closeErr
	}

	if err != nil {
		if !alreadyReported(err) {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Shop from the terminal",
		Long: `storefront is a terminal client for the storefront backend.

It keeps your session between runs, checks it before every protected
action and signs you out as soon as the backend stops accepting it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Print results as JSON")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.statusCmd(),
		c.watchCmd(),
		c.otpCmd(),
		c.passwordCmd(),
		c.oauthCmd(),
		c.categoriesCmd(),
		c.productsCmd(),
		c.cartCmd(),
		c.ordersCmd(),
		c.profileCmd(),
		c.addressesCmd(),
		versionCmd(),
	)
	return root
}

// setup builds the application for commands that need one.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[routeKey] == "" || c.app != nil {
		return nil
	}

	nav := service.NewMemoryNavigator(cmd.Annotations[routeKey])
	nav.OnNavigate(c.navigated)

	opts := append([]app.Option{
		app.WithNotifier(terminalNotifier{w: c.errOut}),
		app.WithNavigator(nav),
	}, c.options...)

	a, err := app.New(c.loadConfig(), opts...)
	if err != nil {
		return err
	}
	c.app = a

	// One correlation id per invocation ties its backend calls together.
	ctx := slogx.WithContext(cmd.Context(), a.Logger())
	cmd.SetContext(slogx.WithRequestID(ctx, idx.New().String()))
	return nil
}

func (c *cli) teardown() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// alreadyReported is true for failures the user has been notified about.
func alreadyReported(err error) bool {
	if _, ok := shopsdk.AsAPIError(err); ok {
		return true
	}
	return errors.Is(err, service.ErrLoginRequired) || errors.Is(err, service.ErrAccountInactive)
}

func route(path string) map[string]string {
	return map[string]string{routeKey: path}
}
