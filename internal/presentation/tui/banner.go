package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the IAEE ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).Profile
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text  string
		color string
	}{
		{"  ___    _      _____ _____ ", "#818cf8"},
		{" |_ _|  / \\    | ____| ____|", "#a78bfa"},
		{"  | |  / _ \\   |  _| |  _|  ", "#c084fc"},
		{"  | | / ___ \\  | |___| |___ ", "#e879f9"},
		{" |___/_/   \\_\\ |_____|_____|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
