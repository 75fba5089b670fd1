package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mydehq/plexify"
	"github.com/mydehq/plexify/internal/config"
	"github.com/mydehq/plexify/internal/tui"
)

func main() {
	path := "."
	var opts []plexify.Option
	for _, a := range os.Args[1:] {
		switch a {
		case "-r", "--recursive":
			opts = append(opts, plexify.WithRecursive())
		default:
			path = a
		}
	}

	cfg, err := config.LoadGlobal()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	opts = append(opts, plexify.WithConfig(cfg))

	p := tea.NewProgram(tui.NewModel(path, opts...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
