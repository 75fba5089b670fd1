// Package cli implements the plexify command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/mydehq/plexify/internal/config"
	"github.com/mydehq/plexify/internal/formatter"
	"github.com/mydehq/plexify/internal/types"
	"github.com/mydehq/plexify/internal/ui"
	"github.com/spf13/cobra"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{})

var (
	flagRecursive  bool
	flagSilent     bool
	flagDryRun     bool
	flagYes        bool
	flagPrune      bool
	flagTag        bool
	flagVerbose    bool
	flagQuiet      bool
	flagTargetOS   string
	flagExclusions string
	flagAPIKey     string
)

// RootCmd renames the movies below [path].
var RootCmd = &cobra.Command{
	Use:   "plexify [path]",
	Short: "Rename movie files into Plex-style folders",
	Long: `Plexify looks up each movie file below a directory on OMDb and moves it to
"Title (Year)/Title (Year) (imdbID).ext" next to its current folder.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = ui.NewLogger(os.Stderr, flagVerbose, flagQuiet)
	},
	Run: func(cmd *cobra.Command, args []string) {
		runRename(cmd, pathArg(args))
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename [path]",
	Short: "Plan and apply renames (default command)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRename(cmd, pathArg(args))
	},
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.BoolVarP(&flagRecursive, "recursive", "r", false, "Process subdirectories")
	pf.StringVar(&flagExclusions, "exclusions", "", "Exclusion list file")
	pf.StringVar(&flagAPIKey, "api-key", "", "OMDb API key")
	pf.StringVar(&flagTargetOS, "target-os", "", "Name rules: windows, posix or auto")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Show debug output")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Only show warnings and errors")

	for _, cmd := range []*cobra.Command{RootCmd, renameCmd} {
		f := cmd.Flags()
		f.BoolVarP(&flagSilent, "silent", "s", false, "Never prompt; accept fallback guesses")
		f.BoolVarP(&flagDryRun, "dry-run", "n", false, "Print the plan without changing anything")
		f.BoolVarP(&flagYes, "yes", "y", false, "Apply without confirming the plan")
		f.BoolVar(&flagPrune, "prune", false, "Remove folders emptied by a move")
		f.BoolVar(&flagTag, "tag", false, "Write titles into MKV metadata")
	}

	RootCmd.AddCommand(renameCmd)
}

// Execute runs the root command with an interrupt-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// interactive reports whether prompts can be shown.
func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// loadConfig reads the global config and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*types.GlobalConfig, error) {
	cfg, err := config.LoadGlobal()
	if err != nil {
		return nil, err
	}
	if flagAPIKey != "" {
		cfg.API.OMDbKey = flagAPIKey
	}
	if flagExclusions != "" {
		cfg.Exclusions.File = flagExclusions
	}
	if flagTargetOS != "" {
		t, err := formatter.ParseTargetOS(flagTargetOS)
		if err != nil {
			return nil, err
		}
		cfg.TargetOS = t
	}
	if flagChanged(cmd, "prune") {
		cfg.PruneEmptyDirs = flagPrune
	}
	if flagChanged(cmd, "tag") {
		cfg.TagMKV = flagTag
	}
	return cfg, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// fatal logs err and exits with status 1.
func fatal(msg string, err error) {
	logger.Error(fmt.Sprintf("%s: %v", msg, err))
	os.Exit(1)
}

// colorizeEvent adds CLI styling to known event message patterns.
func colorizeEvent(msg string) string {
	// "Renamed: old.mkv → new.mkv"
	if parts := strings.SplitN(msg, " → ", 2); len(parts) == 2 {
		left := parts[0]
		right := parts[1]

		var label, oldName string
		if idx := strings.Index(left, ": "); idx >= 0 {
			label = ui.StyleHeader.Render(left[:idx+1]) + " "
			oldName = left[idx+2:]
		} else {
			oldName = left
		}

		return fmt.Sprintf("%s%s %s %s",
			label,
			ui.StyleDim.Render(oldName),
			ui.StyleDim.Render("→"),
			ui.StyleCommand.Render(right),
		)
	}

	// "Unresolved: file.mkv", "Skipped: file.mkv (target exists)"
	if idx := strings.Index(msg, ": "); idx >= 0 {
		label := msg[:idx+1]
		value := msg[idx+2:]
		return fmt.Sprintf("%s %s", ui.StyleHeader.Render(label), ui.StylePath.Render(value))
	}

	return msg
}

// logEvent routes a library event to the logger.
func logEvent(e types.Event) {
	msg := colorizeEvent(e.Message)
	switch e.Type {
	case types.EventSuccess:
		logger.Info(msg)
	case types.EventWarning:
		logger.Warn(msg)
	case types.EventError:
		logger.Error(msg)
	default:
		logger.Debug(msg)
	}
}
