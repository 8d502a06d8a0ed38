package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the flume ASCII banner with a blue-to-teal gradient.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __ _                      ", "#38bdf8"},
		{"  / _| |_   _ _ __ ___   ___ ", "#22d3ee"},
		{" | |_| | | | | '_ ` _ \\ / _ \\", "#2dd4bf"},
		{" |  _| | |_| | | | | | |  __/", "#34d399"},
		{" |_| |_|\\__,_|_| |_| |_|\\___|", "#4ade80"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println(termenv.String(" state, one way  " + version).Faint())
	fmt.Println()
}
