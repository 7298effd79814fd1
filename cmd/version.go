package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/ginjaninja78/gstr1-reconciler/cmd.Version=...".
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gstrecon version",
	Args:  cobra.NoArgs,

	// Printing the version must work without a readable gstrecon.yaml.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "gstrecon %s (built %s, %s %s/%s)\n",
		Version, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
