// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography for sizing reports across terminals

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// Terminals that usually ship with a Nerd Font configured.
var nerdFontTerminals = []string{
	"iTerm.app",
	"alacritty",
	"WezTerm",
	"kitty",
	"ghostty",
}

// detectNerdFonts checks PELIKAN_NERD_FONTS first, then the terminal.
func detectNerdFonts(getenv func(string) string) bool {
	if env := getenv("PELIKAN_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	term := getenv("TERM")
	termProgram := getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	return getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts(os.Getenv)
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Resources
	Memory     = Icon{"󰍛", "◆"} // nf-md-memory
	CPU        = Icon{"", "●"} // nf-oct-cpu
	Disk       = Icon{"󰋊", "■"} // nf-md-harddisk
	Server     = Icon{"󰒋", "▣"} // nf-md-server
	Throughput = Icon{"󰓅", "◐"} // nf-md-speedometer
	Shield     = Icon{"󰒃", "⛊"} // nf-md-shield_check

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Application
	App = Icon{"󰆼", "◈"} // nf-md-database
)
