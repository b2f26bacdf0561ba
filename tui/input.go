package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/Turgon37/LiveboxTools/logger"
)

var inputTheme = huh.ThemeBase16()

// Password prompts for a password without echoing it, the getpass way.
func Password(logger logger.Logger, title string, description string) string {
	var value string
	if err := huh.NewInput().
		Title(title).
		Prompt("> ").
		Description(description + "\n").
		EchoMode(huh.EchoModePassword).
		Value(&value).
		WithTheme(inputTheme).
		Run(); err != nil {
		logger.Fatal("%s", err)
	}
	return value
}

// Ask prompts for a yes/no confirmation, used before physical actions like
// a reboot.
func Ask(logger logger.Logger, title string, defaultValue bool) bool {
	confirm := defaultValue

	if err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Inline(false).
		Run(); err != nil {
		logger.Fatal("%s", err)
	}
	return confirm
}
