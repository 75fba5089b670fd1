package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mydehq/plexify"
	"github.com/mydehq/plexify/internal/ui"
	"github.com/spf13/cobra"
)

var guessCmd = &cobra.Command{
	Use:   "guess [path]",
	Short: "Show the search title derived from each movie file",
	Long:  "Scans the specified directory for movie files and prints the title, year hint and fallback guess each one would be looked up with. No network requests are made.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runGuess(cmd, pathArg(args))
	},
}

func init() {
	RootCmd.AddCommand(guessCmd)
}

func runGuess(cmd *cobra.Command, path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		fatal("Failed to resolve path", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		fatal("Failed to load config", err)
	}

	opts := []plexify.Option{plexify.WithConfig(cfg)}
	if flagRecursive {
		opts = append(opts, plexify.WithRecursive())
	}
	results, err := plexify.Guess(absPath, opts...)
	if err != nil {
		fatal("Failed to scan directory", err)
	}

	if len(results) == 0 {
		fmt.Printf("No movie files found in: %s\n", ui.StylePath.Render(absPath))
		return
	}

	fmt.Printf("%s in: %s\n", ui.StyleHeader.Render("Search titles"), ui.StylePath.Render(absPath))
	for _, r := range results {
		year := r.Year
		if year == "" {
			year = "-"
		}
		fmt.Printf(" %s %s\n", ui.StyleDim.Render("-"), ui.StylePath.Render(rel(absPath, r.Path)))
		fmt.Printf("     %s %s %s\n", ui.StyleTitle.Render(r.Title), ui.StyleDim.Render("year:"), year)
		if r.Alternate != "" && r.Alternate != r.Title {
			fmt.Printf("     %s %s\n", ui.StyleDim.Render("fallback:"), r.Alternate)
		}
	}
}
