package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/storefront/internal/storefront/service"
)

// terminalNotifier prints notifications to stderr so stdout stays parseable.
type terminalNotifier struct {
	w io.Writer
}

func (n terminalNotifier) Notify(_ context.Context, level service.Level, message string) {
	var prefix string
	switch level {
	case service.LevelSuccess:
		prefix = "\033[32m✓\033[0m"
	case service.LevelWarning:
		prefix = "\033[33m⚠\033[0m"
	case service.LevelError:
		prefix = "\033[31m✗\033[0m"
	default:
		prefix = "•"
	}
	fmt.Fprintf(n.w, "%s %s\n", prefix, message)
}

// navigated tells the user which command matches the page the session core
// sent them to.
func (c *cli) navigated(path string) {
	if !strings.HasPrefix(path, c.loginPath()) {
		return
	}

	hint := "storefront login --email <email> --password <password>"
	if target := service.RedirectTarget(path); target != "/" {
		hint += fmt.Sprintf("   (then return to %s)", target)
	}
	fmt.Fprintf(c.errOut, "→ sign in again: %s\n", hint)
}

func (c *cli) loginPath() string {
	if c.app != nil {
		return c.app.Config().LoginPath
	}
	return service.DefaultLoginPath
}

// printJSON writes v as indented JSON.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes aligned columns. The header row comes first.
func (c *cli) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// show prints v as JSON with --json, otherwise runs the text printer.
func (c *cli) show(v any, text func() error) error {
	if c.jsonOutput {
		return c.printJSON(v)
	}
	return text()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
