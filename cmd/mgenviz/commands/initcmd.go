package commands

import (
	"github.com/spf13/cobra"

	"github.com/mgenviz/mgenviz/internal/config"
	"github.com/mgenviz/mgenviz/internal/utils/logger"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a documented default configuration file",
	Long:  `Init writes the documented default configuration to the --config path (or the default location) without overwriting an existing file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultConfigPath
		}
		if err := config.WriteTemplate(path); err != nil {
			return err
		}
		logger.Get(cmd.Context()).Infof("Wrote default configuration to %s", path)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
