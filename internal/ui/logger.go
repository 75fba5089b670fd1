package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var logger *log.Logger

// NewLogger builds the CLI logger at the level selected by verbose and quiet,
// styles it and injects it into this package.
func NewLogger(w io.Writer, verbose, quiet bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	switch {
	case verbose:
		l.SetLevel(log.DebugLevel)
	case quiet:
		l.SetLevel(log.WarnLevel)
	default:
		l.SetLevel(log.InfoLevel)
	}
	SetLogger(l)
	ConfigureLoggerStyles()
	return l
}

// SetLogger injects the application logger into the UI package.
func SetLogger(l *log.Logger) {
	logger = l
}

// ConfigureLoggerStyles applies level badges to the injected logger.
func ConfigureLoggerStyles() {
	if logger == nil {
		return
	}
	styles := log.DefaultStyles()
	for level, badge := range map[log.Level]struct{ text, color string }{
		log.DebugLevel: {"DEBUG", "63"},
		log.InfoLevel:  {"INFO ", "86"},
		log.WarnLevel:  {"WARN ", "192"},
		log.ErrorLevel: {"ERROR", "204"},
	} {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(badge.text).
			Bold(true).
			Foreground(lipgloss.Color(badge.color))
	}
	logger.SetStyles(styles)
}
