package envlog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ColorChoice is what the caller asked for, typically from a --color flag.
type ColorChoice int

const (
	// ColorNever never colors output.
	ColorNever ColorChoice = iota
	// ColorAlways colors output even when it is not a terminal.
	ColorAlways
	// ColorAuto colors output when it is a terminal.
	ColorAuto
)

// String returns the flag spelling of the choice.
func (c ColorChoice) String() string {
	switch c {
	case ColorAlways:
		return "always"
	case ColorAuto:
		return "auto"
	case ColorNever:
		return "never"
	default:
		return fmt.Sprintf("ColorChoice(%d)", int(c))
	}
}

// ParseColorChoice accepts "always", "never" and "auto" (case-insensitive).
func ParseColorChoice(s string) (ColorChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	case "auto":
		return ColorAuto, nil
	default:
		return ColorNever, fmt.Errorf("invalid color choice %q (want always, never or auto)", s)
	}
}

// Set implements pflag.Value so a ColorChoice can back a command-line flag.
func (c *ColorChoice) Set(s string) error {
	v, err := ParseColorChoice(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Type implements pflag.Value.
func (c *ColorChoice) Type() string {
	return "when"
}

// WriteStyle is the backend's coloring policy.
type WriteStyle int

const (
	// StyleAuto colors when the target is a terminal.
	StyleAuto WriteStyle = iota
	// StyleAlways always colors.
	StyleAlways
	// StyleNever never colors.
	StyleNever
)

// String returns the lower-case name of the style.
func (s WriteStyle) String() string {
	switch s {
	case StyleAlways:
		return "always"
	case StyleNever:
		return "never"
	default:
		return "auto"
	}
}

// WriteStyleFor maps a caller's color choice onto a write style.
func WriteStyleFor(c ColorChoice) WriteStyle {
	switch c {
	case ColorAlways:
		return StyleAlways
	case ColorAuto:
		return StyleAuto
	default:
		return StyleNever
	}
}

// ParseWriteStyle parses the style environment variable. Unknown values
// fall back to StyleAuto.
func ParseWriteStyle(s string) WriteStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return StyleAlways
	case "never":
		return StyleNever
	default:
		return StyleAuto
	}
}

// isTerminal is replaced in tests.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColor resolves a style against the actual target once, at build time.
func useColor(style WriteStyle, w io.Writer) bool {
	switch style {
	case StyleAlways:
		return true
	case StyleNever:
		return false
	}
	if v, ok := os.LookupEnv("NO_COLOR"); ok && v != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(w)
}
