package system

import (
	"context"
	"strings"
)

// Supervisor is the process-supervision surface the installer depends on.
// The real implementation shells out to systemctl; tests substitute a fake.
type Supervisor interface {
	DaemonReload(ctx context.Context) error
	Enable(ctx context.Context, unit string) error
	Restart(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
	Disable(ctx context.Context, unit string) error
	ActiveState(ctx context.Context, unit string) string
	EnabledState(ctx context.Context, unit string) string
}

// Systemctl drives the host systemd instance.
type Systemctl struct {
	Run Runner
}

func (s *Systemctl) DaemonReload(ctx context.Context) error {
	return s.Run.Run(ctx, "systemctl", "daemon-reload")
}

func (s *Systemctl) Enable(ctx context.Context, unit string) error {
	return s.Run.Run(ctx, "systemctl", "enable", unit)
}

func (s *Systemctl) Restart(ctx context.Context, unit string) error {
	return s.Run.Run(ctx, "systemctl", "restart", unit)
}

func (s *Systemctl) Stop(ctx context.Context, unit string) error {
	return s.Run.Run(ctx, "systemctl", "stop", unit)
}

func (s *Systemctl) Disable(ctx context.Context, unit string) error {
	return s.Run.Run(ctx, "systemctl", "disable", unit)
}

// ActiveState reports is-active output ("active", "inactive", "failed", ...).
// systemctl exits non-zero for anything but "active"; the state string is
// still what we want, so the error is folded into the output.
func (s *Systemctl) ActiveState(ctx context.Context, unit string) string {
	out, err := s.Run.Output(ctx, "systemctl", "is-active", unit)
	return stateWord(out, err)
}

func (s *Systemctl) EnabledState(ctx context.Context, unit string) string {
	out, err := s.Run.Output(ctx, "systemctl", "is-enabled", unit)
	return stateWord(out, err)
}

func stateWord(out string, err error) string {
	w := strings.TrimSpace(out)
	if i := strings.IndexByte(w, '\n'); i >= 0 {
		w = w[:i]
	}
	if w == "" && err != nil {
		return "unknown"
	}
	return w
}
