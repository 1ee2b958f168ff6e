package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the yoda version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("yoda " + version)
		},
	}
}
