package cli

import (
	"fmt"

	"github.com/mydehq/plexify/internal/exclusion"
	"github.com/mydehq/plexify/internal/ui"
	"github.com/spf13/cobra"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Manage substrings removed from file names before guessing",
}

var excludeAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add entries to the exclusion list",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := exclusionStore(cmd)
		for _, a := range args {
			added, err := store.Add(a)
			if err != nil {
				fatal("Failed to load exclusion list", err)
			}
			if !added {
				logger.Warn(fmt.Sprintf("Already excluded: %q", a))
				continue
			}
			logger.Info(fmt.Sprintf("%s %q", ui.StyleHeader.Render("Excluded:"), a))
		}
		if err := store.Save(); err != nil {
			fatal("Failed to save exclusion list", err)
		}
	},
}

var excludeRemoveCmd = &cobra.Command{
	Use:     "remove <text>...",
	Aliases: []string{"rm"},
	Short:   "Remove entries from the exclusion list",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := exclusionStore(cmd)
		for _, a := range args {
			removed, err := store.Remove(a)
			if err != nil {
				fatal("Failed to load exclusion list", err)
			}
			if !removed {
				logger.Warn(fmt.Sprintf("Not in the list: %q", a))
				continue
			}
			logger.Info(fmt.Sprintf("%s %q", ui.StyleHeader.Render("Removed:"), a))
		}
		if err := store.Save(); err != nil {
			fatal("Failed to save exclusion list", err)
		}
	},
}

var excludeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print the exclusion list",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := exclusionStore(cmd)
		set, err := store.Set()
		if err != nil {
			fatal("Failed to load exclusion list", err)
		}
		fmt.Printf("%s %s\n", ui.StyleHeader.Render("Exclusions in:"), ui.StylePath.Render(store.Path()))
		if len(set) == 0 {
			fmt.Printf(" %s\n", ui.StyleDim.Render("(empty)"))
		}
		for _, e := range set {
			fmt.Printf(" %s %q\n", ui.StyleDim.Render("-"), e)
		}
	},
}

func init() {
	excludeCmd.AddCommand(excludeAddCmd, excludeRemoveCmd, excludeListCmd)
	RootCmd.AddCommand(excludeCmd)
}

func exclusionStore(cmd *cobra.Command) *exclusion.Store {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fatal("Failed to load config", err)
	}
	return exclusion.NewStore(cfg.Exclusions.File)
}
