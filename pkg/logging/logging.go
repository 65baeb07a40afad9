// Package logging builds the structured logger shared by every component.
package logging

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/mcp-server-customers/pkg/config"
)

// New creates a logger writing to stderr. Stdout is reserved for the MCP stdio transport.
func New(cfg config.Log) *log.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, cfg config.Log) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "customers-mcp",
		Level:           level,
	})

	switch cfg.Format {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}

	return logger
}

// RedirectStandardLog routes the standard library logger, which mcp-go uses
// internally, into logger while dropping known noise.
func RedirectStandardLog(logger *log.Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(&logWriter{
		next: logger.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}).Writer(),
		skip: []string{"Prompts not supported", "Resources not supported"},
	})
}

// logWriter filters log messages
type logWriter struct {
	next io.Writer
	skip []string
}

// Write implements io.Writer and filters some log messages
func (w *logWriter) Write(bytes []byte) (int, error) {
	line := string(bytes)

	for _, s := range w.skip {
		if strings.Contains(line, s) {
			return len(bytes), nil
		}
	}

	if _, err := w.next.Write(bytes); err != nil {
		return 0, err
	}

	return len(bytes), nil
}
