package logging

import (
	"log/slog"
	"os"

	"github.com/phsym/console-slog"
)

// Init installs the process-wide slog handler. Debug level is enabled
// outside production.
func Init(env string) {
	level := slog.LevelDebug
	if env == "production" {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     level,
	})))
}
