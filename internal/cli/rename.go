package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mydehq/plexify"
	"github.com/mydehq/plexify/internal/types"
	"github.com/mydehq/plexify/internal/ui"
	"github.com/spf13/cobra"
)

func runRename(cmd *cobra.Command, path string) {
	ctx := cmd.Context()
	absPath, err := filepath.Abs(path)
	if err != nil {
		fatal("Failed to resolve path", err)
	}
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		logger.Error(fmt.Sprintf("Not a directory: %s", ui.StylePath.Render(absPath)))
		os.Exit(1)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		fatal("Failed to load config", err)
	}

	silent := flagSilent || !interactive()
	if silent && !flagSilent {
		logger.Debug("stdin is not a terminal; running in silent mode")
	}

	opts := []plexify.Option{
		plexify.WithConfig(cfg),
		plexify.WithEvents(logEvent),
	}
	if flagRecursive {
		opts = append(opts, plexify.WithRecursive())
	}
	if silent {
		opts = append(opts, plexify.WithSilent())
	} else {
		opts = append(opts, plexify.WithConfirm(ui.ConfirmGuess()))
	}

	var plan *types.Plan
	var planErr error
	if silent && interactive() {
		err = ui.RunWithSpinner(
			fmt.Sprintf("%s %s", ui.StyleDim.Render("Looking up movies in"), ui.StyleCommand.Render(absPath)),
			func() { plan, planErr = plexify.PlanChanges(ctx, absPath, opts...) },
		)
		if err != nil {
			fatal("Planning failed", err)
		}
	} else {
		plan, planErr = plexify.PlanChanges(ctx, absPath, opts...)
	}
	if planErr != nil {
		if errors.Is(planErr, types.ErrMissingAPIKey) {
			logger.Error("No OMDb API key configured")
			logger.Info(fmt.Sprintf("Run %s or set %s", ui.StyleCommand.Render("plexify config init"), ui.StyleCommand.Render("PLEXIFY_OMDB_API_KEY")))
			os.Exit(1)
		}
		fatal("Planning failed", planErr)
	}

	printPlan(plan)
	if plan.Len() == 0 {
		return
	}

	if flagDryRun {
		logger.Info(ui.StyleDim.Render("[DRY RUN] No changes made"))
		return
	}

	if !flagYes && !silent {
		ok, err := ui.ConfirmPlan(plan)
		if err != nil {
			fatal("Confirmation failed", err)
		}
		if !ok {
			logger.Info(ui.StyleDim.Render("Cancelled"))
			return
		}
	}

	report, err := plexify.Apply(ctx, plan, plexify.WithConfig(cfg), plexify.WithEvents(logEvent))
	if err != nil {
		fatal("Rename failed", err)
	}
	printSummary(report)
	if report.Count(types.StatusFailed) > 0 {
		os.Exit(1)
	}
}

func printPlan(plan *types.Plan) {
	fmt.Printf("%s in: %s\n", ui.StyleHeader.Render("Planned changes"), ui.StylePath.Render(plan.Root))
	if plan.Len() == 0 {
		fmt.Printf(" %s\n", ui.StyleDim.Render("Nothing to rename"))
	}
	for _, c := range plan.Changes {
		fmt.Printf(" %s %s\n", ui.StyleDim.Render("-"), colorizeEvent(fmt.Sprintf("%s → %s", rel(plan.Root, c.Source), rel(plan.Root, c.Target))))
	}
	if n := len(plan.Conflicts); n > 0 {
		fmt.Printf("%s %d file(s) share a target and were left out\n", ui.StyleError.Render("Conflicts:"), n)
		for _, c := range plan.Conflicts {
			fmt.Printf(" %s %s\n", ui.StyleDim.Render("-"), c.Error())
		}
	}
	if n := len(plan.Unresolved); n > 0 {
		fmt.Printf("%s %d file(s) could not be matched\n", ui.StyleTitle.Render("Unresolved:"), n)
		for _, u := range plan.Unresolved {
			fmt.Printf(" %s %s %s\n", ui.StyleDim.Render("-"), ui.StylePath.Render(rel(plan.Root, u.Path)), ui.StyleDim.Render("("+u.Reason+")"))
		}
	}
}

func printSummary(report *types.Report) {
	fmt.Printf("%s %d applied, %d skipped, %d failed\n",
		ui.StyleHeader.Render("Done:"),
		report.Count(types.StatusApplied),
		report.Count(types.StatusSkipped),
		report.Count(types.StatusFailed),
	)
	for _, e := range report.Entries {
		if e.Status == types.StatusFailed {
			fmt.Printf(" %s %s: %v\n", ui.StyleError.Render("✗"), e.Change.Source, e.Err)
		}
	}
}

func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}
	return path
}
