package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgenviz/mgenviz/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mgenviz %s\n", version.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
