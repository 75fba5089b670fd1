package cli

import (
	"fmt"
	"os"

	"github.com/mydehq/plexify/internal/config"
	"github.com/mydehq/plexify/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the global configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file interactively",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fatal("Failed to load config", err)
		}
		path := config.Path()

		if !interactive() {
			if err := config.Save(path, cfg); err != nil {
				fatal("Failed to save config", err)
			}
			logger.Info(fmt.Sprintf("%s: %s", ui.StyleHeader.Render("Created config"), ui.StylePath.Render(path)))
			return
		}

		written, err := ui.RunConfigWizard(path, cfg)
		if err != nil {
			fatal("Config wizard failed", err)
		}
		if !written {
			logger.Info(ui.StyleDim.Render("Init cancelled"))
			return
		}
		logger.Info(fmt.Sprintf("%s: %s", ui.StyleHeader.Render("Created config"), ui.StylePath.Render(path)))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fatal("Failed to load config", err)
		}
		data, err := config.Marshal(config.Redacted(cfg))
		if err != nil {
			fatal("Failed to render config", err)
		}
		os.Stdout.Write(data)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.Path())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd)
	RootCmd.AddCommand(configCmd)
}
