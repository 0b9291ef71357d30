package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the top-level streamdesk command.
var RootCmd = &cobra.Command{
	Use:   "streamdesk",
	Short: "StreamDesk admin CLI",
	Long:  "Command line interface for the StreamDesk content administration API",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// GetRoot returns the root command so subcommand packages can attach to it.
func GetRoot() *cobra.Command {
	return RootCmd
}
