package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/statewise/flume/internal/logging"
)

// NewLogger creates the CLI logger, at debug level when requested.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

// Interactive reports whether stdout is a terminal. Banners and markdown
// rendering are skipped when output is piped.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
