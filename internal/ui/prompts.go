package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/mydehq/plexify/internal/types"
)

// ErrUserBack is returned when the user explicitly requests to go to the previous step.
var ErrUserBack = errors.New("user navigated back")

// maxPreviewRows bounds the plan note shown before applying.
const maxPreviewRows = 15

// HandleAbort exits on ctrl+c and maps esc to ErrUserBack.
func HandleAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		if interceptedKey == "ctrl+c" {
			fmt.Println()
			if logger != nil {
				logger.Info(StyleDim.Render("Cancelled"))
			}
			os.Exit(0)
		}
		return ErrUserBack
	}
	return err
}

// ConfirmGuess returns the interactive confirmation for fallback guesses.
// Esc or a prompt failure counts as a decline.
func ConfirmGuess() types.ConfirmFunc {
	return func(guess string) bool {
		accept := true
		err := RunForm(huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Search for %q instead?", guess)).
					Description("No match was found for the file name").
					Affirmative("Search").
					Negative("Skip").
					Value(&accept),
			),
		).WithTheme(PlexifyTheme()).WithKeyMap(PlexifyKeyMap()))
		if err != nil {
			_ = HandleAbort(err)
			return false
		}
		return accept
	}
}

// ConfirmPlan shows the planned moves and asks whether to apply them.
func ConfirmPlan(plan *types.Plan) (bool, error) {
	var lines []string
	for i, c := range plan.Changes {
		if i == maxPreviewRows {
			lines = append(lines, fmt.Sprintf("  … and %d more", plan.Len()-maxPreviewRows))
			break
		}
		lines = append(lines, fmt.Sprintf("  • %s → %s", relTo(plan.Root, c.Source), relTo(plan.Root, c.Target)))
	}

	confirmed := false
	err := RunForm(huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Planned changes").
				Description("\n"+strings.Join(lines, "\n")),
			huh.NewConfirm().
				Title(fmt.Sprintf("Apply %d changes?", plan.Len())).
				Value(&confirmed),
		),
	).WithTheme(PlexifyTheme()).WithKeyMap(PlexifyKeyMap()))
	if err != nil {
		if errors.Is(HandleAbort(err), ErrUserBack) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

// RunWithSpinner runs action behind a spinner titled title.
func RunWithSpinner(title string, action func()) error {
	if err := spinner.New().Title(title).Action(action).Run(); err != nil {
		return fmt.Errorf("spinner failed: %w", err)
	}
	return nil
}

func relTo(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return r
	}
	return path
}
