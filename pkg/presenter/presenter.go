// Package presenter provides consistent CLI output for user-facing
// messages, with color support and a quiet mode for scripted use.
package presenter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu     sync.Mutex
	quiet  bool
	outW   io.Writer = os.Stdout
	errW   io.Writer = os.Stderr
	green            = color.New(color.FgGreen)
	red              = color.New(color.FgRed)
	yellow           = color.New(color.FgYellow)
	cyan             = color.New(color.FgCyan)
)

// SetQuiet suppresses informational output, leaving errors visible.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// SetOutput redirects normal and error output, primarily for tests.
func SetOutput(out, err io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	outW, errW = out, err
}

// Success prints a success message unless quiet mode is enabled.
func Success(message string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintln(outW, green.Sprint("✓ ")+message)
}

// Error prints an error with optional context, ignoring quiet mode.
func Error(err error, context string) {
	mu.Lock()
	defer mu.Unlock()
	if context != "" {
		fmt.Fprintln(errW, red.Sprint("✗ ")+context+": "+err.Error())
		return
	}
	fmt.Fprintln(errW, red.Sprint("✗ ")+err.Error())
}

// Warning prints a warning message unless quiet mode is enabled.
func Warning(message string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintln(outW, yellow.Sprint("! ")+message)
}

// Info prints an informational message unless quiet mode is enabled.
func Info(message string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintln(outW, message)
}

// Section prints a titled separator unless quiet mode is enabled.
func Section(title string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintln(outW, cyan.Sprint("== "+title+" =="))
}
