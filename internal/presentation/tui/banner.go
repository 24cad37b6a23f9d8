package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the talebox banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Warm gradient, like a night light.
	lines := []struct{ text, color string }{
		{"  _        _      _", "#fbbf24"},
		{" | |_ __ _| |___ | |__  _____ __", "#f59e0b"},
		{" |  _/ _` | / -_)| '_ \\/ _ \\ \\ /", "#f97316"},
		{"  \\__\\__,_|_\\___||_.__/\\___/_\\_\\", "#ef4444"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
