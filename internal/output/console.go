// Package output handles everything that leaves the pipeline: the
// atomically written DOT document, image generation through the dot
// binary, the HTML viewer wrapper, and console progress messages.
package output

import (
	"fmt"

	"github.com/fatih/color"
)

// Console prints progress and diagnostics, gated by verbosity.
// Messages use DOT comment syntax so captured output stays a valid
// document fragment.
type Console struct {
	Verbosity int
}

// NewConsole creates a console with the given verbosity level.
func NewConsole(verbosity int) *Console {
	return &Console{Verbosity: verbosity}
}

// Infof prints an informational message at verbosity 1 and above.
func (c *Console) Infof(format string, args ...any) {
	if c.Verbosity >= 1 {
		color.Cyan("// INFO: %s", fmt.Sprintf(format, args...))
	}
}

// Debugf prints a detail message at verbosity 2 and above.
func (c *Console) Debugf(format string, args ...any) {
	if c.Verbosity >= 2 {
		fmt.Printf("// DEBUG: %s\n", fmt.Sprintf(format, args...))
	}
}

// Warnf always prints a warning.
func (c *Console) Warnf(format string, args ...any) {
	color.Yellow("// WARNING: %s", fmt.Sprintf(format, args...))
}
