package logging

import (
	"io"
	"log/slog"
	"os"
)

func Setup(debug bool) {
	SetupWriter(os.Stdout, debug)
}

// SetupWriter installs the default text logger writing to w.
func SetupWriter(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
