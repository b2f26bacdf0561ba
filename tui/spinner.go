package tui

import (
	"github.com/charmbracelet/huh/spinner"
)

// ShowSpinner will display a spinner while the action is being performed.
// Without a TTY the action simply runs inline.
func ShowSpinner(title string, action func()) {
	if !HasTTY {
		action()
		return
	}
	s := spinner.New()
	s.Title(title).Action(action).Run()
}
