package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// newLogger builds the diagnostic logger. User-facing output never goes
// through it; it carries per-file errors and debug traces on stderr.
func newLogger(w io.Writer, quiet, verbose bool, format string) (*log.Logger, error) {
	level := log.InfoLevel
	switch {
	case quiet:
		level = log.WarnLevel
	case verbose:
		level = log.DebugLevel
	}

	var formatter log.Formatter
	switch format {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: text, json)", format)
	}

	return log.NewWithOptions(w, log.Options{
		Level:     level,
		Prefix:    "fini",
		Formatter: formatter,
	}), nil
}
