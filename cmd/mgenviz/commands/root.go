package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgenviz/mgenviz/internal/config"
	"github.com/mgenviz/mgenviz/internal/utils/logger"
)

var (
	cfgPath string
	cfg     *config.Config
)

// RootCmd is the mgenviz command tree.
var RootCmd = &cobra.Command{
	Use:   "mgenviz",
	Short: "Convert mgen traffic logs into force-directed graph JSON",
	Long: `mgenviz converts mgen network-simulation traffic logs into a JSON graph
description for force-directed (D3-style) visualization.

Each RECV record contributes one directed edge from its source to its
destination endpoint; the output is an ordered array of node records
{name, size, imports} where size counts a node's distinct outbound
neighbors.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			// init runs before any config exists; console diagnostics only.
			cfg = config.Default()
			cfg.Logging.Enabled = false
		} else {
			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = loaded
		}

		logger.Init(cfg.Logging)
		cmd.SetContext(logger.WithContext(cmd.Context(), logger.Get(nil)))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// loadConfig resolves the configuration for this invocation. An explicit
// --config that cannot be read is an error; the absence of the default
// config file is not, and built-in defaults apply.
func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
		}
		return loaded, nil
	}
	if loaded, err := config.Load(config.DefaultConfigPath); err == nil {
		return loaded, nil
	}
	return config.Default(), nil
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		fmt.Sprintf("Path to configuration file (default: %s)", config.DefaultConfigPath))
}
