package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Adaptive Color definitions
	colorHeader = lipgloss.CompleteAdaptiveColor{
		Dark:  lipgloss.CompleteColor{TrueColor: "#00af00", ANSI256: "34", ANSI: "2"},
		Light: lipgloss.CompleteColor{TrueColor: "#008700", ANSI256: "28", ANSI: "2"},
	}
	colorCommand = lipgloss.CompleteAdaptiveColor{
		Dark:  lipgloss.CompleteColor{TrueColor: "#5fffff", ANSI256: "86", ANSI: "6"},
		Light: lipgloss.CompleteColor{TrueColor: "#008787", ANSI256: "30", ANSI: "6"},
	}
	colorPath = lipgloss.CompleteAdaptiveColor{
		Dark:  lipgloss.CompleteColor{TrueColor: "#5f5fff", ANSI256: "63", ANSI: "4"},
		Light: lipgloss.CompleteColor{TrueColor: "#0000af", ANSI256: "19", ANSI: "4"},
	}
	colorTitle = lipgloss.CompleteAdaptiveColor{
		Dark:  lipgloss.CompleteColor{TrueColor: "#d7ff87", ANSI256: "192", ANSI: "11"},
		Light: lipgloss.CompleteColor{TrueColor: "#5f8700", ANSI256: "64", ANSI: "10"},
	}
	colorDim = lipgloss.CompleteAdaptiveColor{
		Dark:  lipgloss.CompleteColor{TrueColor: "#9e9e9e", ANSI256: "247", ANSI: "8"},
		Light: lipgloss.CompleteColor{TrueColor: "#444444", ANSI256: "238", ANSI: "0"},
	}
	colorFlag = lipgloss.CompleteAdaptiveColor{
		Dark:  lipgloss.CompleteColor{TrueColor: "#ff5faf", ANSI256: "204", ANSI: "13"},
		Light: lipgloss.CompleteColor{TrueColor: "#af005f", ANSI256: "125", ANSI: "5"},
	}

	// Exported Styles for CLI and TUI
	StyleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorHeader)
	StyleCommand = lipgloss.NewStyle().Bold(true).Foreground(colorCommand)
	StylePath    = lipgloss.NewStyle().Foreground(colorPath)
	StyleTitle   = lipgloss.NewStyle().Foreground(colorTitle)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleError   = lipgloss.NewStyle().Bold(true).Foreground(colorFlag)
	styleFlag    = lipgloss.NewStyle().Italic(true).Foreground(colorFlag)

	// StyleBanner is the wizard title banner
	StyleBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCommand).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHeader).
			Padding(0, 4).
			Align(lipgloss.Center)
)

// PlexifyTheme returns the huh theme used by every prompt.
func PlexifyTheme() *huh.Theme {
	return huh.ThemeCatppuccin()
}

// PlexifyKeyMap maps esc and ctrl+c to quit; RunForm tells them apart.
func PlexifyKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()

	km.Quit.SetKeys("esc", "ctrl+c")
	km.Quit.SetHelp("ctrl+c", "quit")

	km.Select.Submit.SetHelp("enter", "choose • esc: back • ctrl+c: quit")
	km.Input.Next.SetHelp("enter", "next • esc: back • ctrl+c: quit")
	km.Input.Submit.SetHelp("enter", "submit • esc: back • ctrl+c: quit")
	km.Confirm.Submit.SetHelp("enter", "confirm • esc: back • ctrl+c: quit")
	km.Note.Next.SetHelp("enter", "next • esc: back • ctrl+c: quit")
	km.Note.Submit.SetHelp("enter", "submit • esc: back • ctrl+c: quit")

	return km
}

// interceptedKey tracks the last key that triggered an abort (esc vs ctrl+c).
var interceptedKey string

// formFilter is a Bubble Tea filter that records whether esc or ctrl+c was pressed.
func formFilter(m tea.Model, msg tea.Msg) tea.Msg {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEsc:
			interceptedKey = "esc"
		case tea.KeyCtrlC:
			interceptedKey = "ctrl+c"
		}
	}
	return msg
}

// RunForm runs a huh form with the key interception filter.
func RunForm(f *huh.Form) error {
	interceptedKey = ""
	return f.WithProgramOptions(tea.WithFilter(formFilter)).Run()
}

// ClearAndPrintBanner clears the terminal and prints the Plexify header.
func ClearAndPrintBanner(dryRun bool) {
	fmt.Print("\033[H\033[2J")
	fmt.Println()
	fmt.Println(StyleBanner.Render("Plexify"))
	fmt.Println()
	if dryRun {
		fmt.Println(styleFlag.Render("  [DRY RUN]"))
		fmt.Println()
	}
}
