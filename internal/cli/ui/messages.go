package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Level represents the severity of a status message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

// Format creates a standardized status line for the given level
func Format(level Level, message string, noColor bool) string {
	var c *color.Color
	var symbol string

	switch level {
	case LevelError:
		c = color.New(color.FgRed, color.Bold)
		symbol = "✗"
	case LevelWarning:
		c = color.New(color.FgYellow)
		symbol = "⚠"
	case LevelInfo:
		c = color.New(color.FgCyan)
		symbol = "ℹ"
	case LevelSuccess:
		c = color.New(color.FgGreen, color.Bold)
		symbol = "✓"
	}

	if noColor {
		c.DisableColor()
	}
	return c.Sprintf("%s %s", symbol, message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Format(LevelSuccess, fmt.Sprintf(format, args...), false))
}

// WriteWarning writes a warning message to the writer
func WriteWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Format(LevelWarning, fmt.Sprintf(format, args...), false))
}

// WriteInfo writes an info message to the writer
func WriteInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Format(LevelInfo, fmt.Sprintf(format, args...), false))
}

// WriteError writes an error message to the writer
func WriteError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Format(LevelError, fmt.Sprintf(format, args...), false))
}
