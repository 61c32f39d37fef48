package system

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedRunner struct {
	output   string
	err      error
	commands []string
}

func (s *scriptedRunner) Run(_ context.Context, name string, args ...string) error {
	s.commands = append(s.commands, name+" "+strings.Join(args, " "))
	return s.err
}

func (s *scriptedRunner) RunEnv(ctx context.Context, _ []string, name string, args ...string) error {
	return s.Run(ctx, name, args...)
}

func (s *scriptedRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	_ = s.Run(ctx, name, args...)
	return s.output, s.err
}

func TestSystemctlActiveStateFoldsExitCode(t *testing.T) {
	// systemctl is-active exits non-zero for inactive units but still
	// prints the state word.
	r := &scriptedRunner{output: "inactive\n", err: errors.New("exit status 3")}
	s := &Systemctl{Run: r}
	if got := s.ActiveState(context.Background(), "imagebot.service"); got != "inactive" {
		t.Fatalf("got %q", got)
	}
}

func TestSystemctlActiveStateUnknown(t *testing.T) {
	r := &scriptedRunner{output: "", err: errors.New("no systemctl")}
	s := &Systemctl{Run: r}
	if got := s.ActiveState(context.Background(), "imagebot.service"); got != "unknown" {
		t.Fatalf("got %q", got)
	}
}

func TestSystemctlCommandShapes(t *testing.T) {
	r := &scriptedRunner{}
	s := &Systemctl{Run: r}
	ctx := context.Background()

	_ = s.DaemonReload(ctx)
	_ = s.Enable(ctx, "imagebot.service")
	_ = s.Restart(ctx, "imagebot.service")
	_ = s.Stop(ctx, "imagebot.service")
	_ = s.Disable(ctx, "imagebot.service")

	want := []string{
		"systemctl daemon-reload",
		"systemctl enable imagebot.service",
		"systemctl restart imagebot.service",
		"systemctl stop imagebot.service",
		"systemctl disable imagebot.service",
	}
	if strings.Join(r.commands, ";") != strings.Join(want, ";") {
		t.Fatalf("commands=%v", r.commands)
	}
}

func TestAptInstallerCommandShape(t *testing.T) {
	r := &scriptedRunner{}
	a := &AptInstaller{Run: r}
	if err := a.Install(context.Background(), "python3", "python3-venv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"apt-get update -y",
		"apt-get install -y python3 python3-venv",
	}
	if strings.Join(r.commands, ";") != strings.Join(want, ";") {
		t.Fatalf("commands=%v", r.commands)
	}
}

func TestHostIdentityCommandShapes(t *testing.T) {
	r := &scriptedRunner{}
	h := &HostIdentity{Run: r}
	ctx := context.Background()

	if !h.GroupExists(ctx, "imagebot") {
		t.Fatalf("expected exists when getent succeeds")
	}
	_ = h.CreateSystemGroup(ctx, "imagebot")
	_ = h.CreateSystemUser(ctx, "imagebot", "imagebot")

	want := []string{
		"getent group imagebot",
		"groupadd --system imagebot",
		"useradd --system --no-create-home --shell /usr/sbin/nologin --gid imagebot imagebot",
	}
	if strings.Join(r.commands, ";") != strings.Join(want, ";") {
		t.Fatalf("commands=%v", r.commands)
	}
}

func TestHostIdentityAbsentOnGetentFailure(t *testing.T) {
	r := &scriptedRunner{err: errors.New("exit status 2")}
	h := &HostIdentity{Run: r}
	if h.UserExists(context.Background(), "imagebot") {
		t.Fatalf("expected absent when getent fails")
	}
}
