package main

import (
	"fmt"
	"runtime"

	"github.com/aussiebroadwan/storefront/internal/storefront/app"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storefront %s (%s %s/%s)\n",
				app.BuildVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
