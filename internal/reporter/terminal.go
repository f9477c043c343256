package reporter

import (
	"os"

	"golang.org/x/term"
)

// ColorEnabled reports whether coloured output should be written to f.
// NO_COLOR (https://no-color.org/) and TERM=dumb disable colours.
func ColorEnabled(f *os.File) bool {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
