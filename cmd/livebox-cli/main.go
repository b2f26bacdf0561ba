package main

import (
	"os"

	"github.com/Turgon37/LiveboxTools/tui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		tui.ShowError("%s", err)
		os.Exit(1)
	}
}
