package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the gatewayd version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("gatewayd version %s (%s)\n", Version, runtime.Version())
		},
	}
}
