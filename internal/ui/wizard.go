package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mydehq/plexify/internal/config"
	"github.com/mydehq/plexify/internal/types"
)

// RunConfigWizard edits cfg interactively and writes it to path.
// api key → naming → extras → preview → confirm. It reports whether the file
// was written.
func RunConfigWizard(path string, cfg *types.GlobalConfig) (bool, error) {
	theme := PlexifyTheme()
	step := 0

	apiKey := cfg.API.OMDbKey
	target := string(cfg.TargetOS)
	if target == "" {
		target = string(types.TargetWindows)
	}
	prune := cfg.PruneEmptyDirs
	tag := cfg.TagMKV
	exclusions := cfg.Exclusions.File

	for {
		ClearAndPrintBanner(false)
		switch step {
		case 0:
			err := RunForm(huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("OMDb API key").
						Description("\nGet one at https://www.omdbapi.com/apikey.aspx\n").
						EchoMode(huh.EchoModePassword).
						Value(&apiKey).
						Validate(func(s string) error {
							if strings.TrimSpace(s) == "" {
								return fmt.Errorf("API key is required")
							}
							return nil
						}),
				),
			).WithTheme(theme).WithKeyMap(PlexifyKeyMap()))
			if err != nil {
				if errors.Is(HandleAbort(err), ErrUserBack) {
					return false, nil
				}
				return false, err
			}
			step++

		case 1:
			err := RunForm(huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Name rules\n").
						Description("Characters stripped from new folder and file names").
						Options(
							huh.NewOption("Windows-safe (portable)", string(types.TargetWindows)),
							huh.NewOption("POSIX (keeps ':' and '?')", string(types.TargetPOSIX)),
							huh.NewOption("Match this machine", string(types.TargetAuto)),
						).
						Value(&target),
				),
			).WithTheme(theme).WithKeyMap(PlexifyKeyMap()))
			if err != nil {
				if errors.Is(HandleAbort(err), ErrUserBack) {
					step--
					continue
				}
				return false, err
			}
			step++

		case 2:
			err := RunForm(huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Remove emptied folders?").
						Description("\nDelete a source folder once its last movie was moved out").
						Value(&prune),
					huh.NewConfirm().
						Title("Tag MKV files?").
						Description("\nWrite the movie title into MKV metadata (needs mkvpropedit)").
						Value(&tag),
					huh.NewInput().
						Title("Exclusion list").
						Description("\nFile holding substrings removed before guessing").
						Value(&exclusions),
				),
			).WithTheme(theme).WithKeyMap(PlexifyKeyMap()))
			if err != nil {
				if errors.Is(HandleAbort(err), ErrUserBack) {
					step--
					continue
				}
				return false, err
			}
			step++

		case 3:
			next := cfg.Clone()
			next.API.OMDbKey = strings.TrimSpace(apiKey)
			next.TargetOS = types.TargetOS(target)
			next.PruneEmptyDirs = prune
			next.TagMKV = tag
			if strings.TrimSpace(exclusions) != "" {
				next.Exclusions.File = strings.TrimSpace(exclusions)
			}

			confirmed, err := showPreviewAndConfirm(&next, path, theme)
			if err != nil {
				if errors.Is(HandleAbort(err), ErrUserBack) {
					step--
					continue
				}
				return false, err
			}
			if !confirmed {
				return false, nil
			}

			if err := config.Save(path, &next); err != nil {
				return false, err
			}
			*cfg = next
			return true, nil
		}
	}
}

// showPreviewAndConfirm renders the redacted YAML and asks before writing.
func showPreviewAndConfirm(cfg *types.GlobalConfig, path string, theme *huh.Theme) (bool, error) {
	data, err := config.Marshal(config.Redacted(cfg))
	if err != nil {
		return false, err
	}

	confirmed := false
	err = RunForm(huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Config preview").
				Description("\n"+string(data)),
			huh.NewConfirm().
				Title(fmt.Sprintf("Write %s?", path)).
				Value(&confirmed),
		),
	).WithTheme(theme).WithKeyMap(PlexifyKeyMap()))
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
