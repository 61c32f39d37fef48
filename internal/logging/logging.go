// Package logging builds the installer's slog logger: a terminal text
// handler fanned out with the systemd journal when one is reachable, so a
// provisioning run leaves a trace on the host it mutated.
package logging

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// New returns a logger tagged with a fresh run id. The journal handler is
// optional: hosts without a journal socket just get the terminal handler.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	}
	if jh, err := slogjournal.NewHandler(&slogjournal.Options{}); err == nil {
		handlers = append(handlers, jh)
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	return logger.With("run_id", uuid.NewString())
}
