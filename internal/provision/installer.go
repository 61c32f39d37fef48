package provision

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"imgbotctl/internal/envfile"
	"imgbotctl/internal/system"
	"imgbotctl/internal/unit"
)

// SecretSource produces the operator-supplied secret bundle. The interactive
// prompter and the environment-variable source both implement it; tests use
// a fixed bundle.
type SecretSource interface {
	Collect(ctx context.Context) (SecretBundle, error)
}

// Installer owns one provisioning run. All host access goes through the
// interface fields; ChownTree and LookupTool are seams for tests running
// without the service identity or a python toolchain present.
type Installer struct {
	Target  InstallTarget
	Runtime RuntimeEnvironment

	ArtifactSrc string // path to the bot script in the invocation directory

	Packages   system.PackageInstaller
	Identity   system.IdentityStore
	Supervisor system.Supervisor
	Run        system.Runner
	Secrets    SecretSource
	Log        *slog.Logger

	ChownTree  func(path, user, group string) error
	LookupTool func(name string) (string, error)
}

func (in *Installer) chownTree(path string) error {
	fn := in.ChownTree
	if fn == nil {
		fn = system.ChownTree
	}
	return fn(path, in.Target.User, in.Target.Group)
}

// Plan assembles the provisioning steps in leaf-first dependency order.
func (in *Installer) Plan() *Plan {
	return &Plan{Steps: []Step{
		{Name: "system packages", Apply: in.applyPackages},
		{Name: "service identity", Apply: in.applyIdentity},
		{Name: "artifact deployment", Apply: in.applyArtifact},
		{Name: "virtual environment", Apply: in.applyVenv},
		{Name: "secrets", Apply: in.applySecrets},
		{Name: "supervision unit", Apply: in.applyUnit},
		{Name: "activation", Apply: in.applyActivation},
	}}
}

// applyPackages installs the python toolchain and records the interpreter
// path actually resolved, so later steps invoke the exact binary the
// package manager provided. Idempotence belongs to apt here.
func (in *Installer) applyPackages(ctx context.Context) (Outcome, error) {
	if err := in.Packages.Install(ctx, in.Runtime.SystemPackages...); err != nil {
		return Failed, err
	}
	if in.Runtime.Python == "" {
		lookup := in.LookupTool
		if lookup == nil {
			lookup = system.LookupTool
		}
		python, err := lookup("python3")
		if err != nil {
			return Failed, err
		}
		in.Runtime.Python = python
		in.Log.Debug("resolved interpreter", "python", python)
	}
	return Changed, nil
}

// applyIdentity creates the service group and user only when absent.
// Pre-existing identities are left untouched so operator customizations
// (shell, extra group membership) survive re-runs.
func (in *Installer) applyIdentity(ctx context.Context) (Outcome, error) {
	outcome := Satisfied
	if in.Identity.GroupExists(ctx, in.Target.Group) {
		in.Log.Info("group exists, skipping", "group", in.Target.Group)
	} else {
		if err := in.Identity.CreateSystemGroup(ctx, in.Target.Group); err != nil {
			return Failed, err
		}
		outcome = Changed
	}
	if in.Identity.UserExists(ctx, in.Target.User) {
		in.Log.Info("user exists, skipping", "user", in.Target.User)
	} else {
		if err := in.Identity.CreateSystemUser(ctx, in.Target.User, in.Target.Group); err != nil {
			return Failed, err
		}
		outcome = Changed
	}
	return outcome, nil
}

// applyArtifact copies the bot script into the work directory, last copy
// wins, and pins restrictive ownership and modes: the directory is
// traversable only by the service identity, the script readable only.
func (in *Installer) applyArtifact(ctx context.Context) (Outcome, error) {
	src, err := os.ReadFile(in.ArtifactSrc)
	if err != nil {
		return Failed, fmt.Errorf("read artifact: %w", err)
	}

	if err := os.MkdirAll(in.Target.WorkDir, 0o750); err != nil {
		return Failed, err
	}
	if err := os.Chmod(in.Target.WorkDir, 0o750); err != nil {
		return Failed, err
	}

	dst := in.Target.ArtifactPath()
	outcome := Changed
	if prev, err := os.ReadFile(dst); err == nil && bytes.Equal(prev, src) {
		outcome = Satisfied
	}
	if err := os.WriteFile(dst, src, 0o440); err != nil {
		return Failed, err
	}
	if err := os.Chmod(dst, 0o440); err != nil {
		return Failed, err
	}
	if err := in.chownTree(in.Target.WorkDir); err != nil {
		return Failed, err
	}
	return outcome, nil
}

// applyVenv builds the isolated environment with the resolved interpreter.
// venv creation over an existing tree is a safe reinitialization and pip
// skips already-satisfied installs, so the whole step re-runs cleanly.
func (in *Installer) applyVenv(ctx context.Context) (Outcome, error) {
	if in.Runtime.Python == "" {
		return Failed, fmt.Errorf("interpreter not resolved")
	}
	outcome := Changed
	if _, err := os.Stat(in.Runtime.VenvPython()); err == nil {
		outcome = Satisfied
	}
	if err := in.Run.Run(ctx, in.Runtime.Python, "-m", "venv", in.Runtime.VenvDir); err != nil {
		return Failed, err
	}
	if err := in.Run.Run(ctx, in.Runtime.VenvPython(), "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return Failed, err
	}
	args := append([]string{"-m", "pip", "install"}, in.Runtime.PipPackages...)
	if err := in.Run.Run(ctx, in.Runtime.VenvPython(), args...); err != nil {
		return Failed, err
	}
	if err := in.chownTree(in.Runtime.VenvDir); err != nil {
		return Failed, err
	}
	return outcome, nil
}

// applySecrets collects the bundle and persists it owner-read-write only.
// The previous file is overwritten without backup; secrets are re-entered
// on every install run.
func (in *Installer) applySecrets(ctx context.Context) (Outcome, error) {
	bundle, err := in.Secrets.Collect(ctx)
	if err != nil {
		return Failed, err
	}
	path := in.Target.EnvFilePath()
	if _, err := os.Stat(path); err == nil {
		in.Log.Warn("overwriting existing environment file", "path", path)
	}
	if err := envfile.Write(path, bundle.EnvPairs(in.Target.DBPath()), 0o600); err != nil {
		return Failed, err
	}
	return Changed, nil
}

// UnitDefinition is the supervision unit rendered from the desired state:
// always restart with a 5 second backoff, environment injected from the
// separately-permissioned env file, started via the venv interpreter.
func (in *Installer) UnitDefinition() unit.Definition {
	return unit.Definition{
		Name:             in.Target.ServiceName,
		Description:      "Telegram image bot",
		User:             in.Target.User,
		Group:            in.Target.Group,
		WorkingDirectory: in.Target.WorkDir,
		EnvironmentFile:  in.Target.EnvFilePath(),
		ExecStart:        in.Runtime.VenvPython() + " " + in.Target.ArtifactPath(),
		Restart:          "always",
		RestartSec:       5,
	}
}

func (in *Installer) applyUnit(ctx context.Context) (Outcome, error) {
	rendered := []byte(in.UnitDefinition().Render())
	path := in.Target.UnitPath()
	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(prev, rendered) {
		return Satisfied, nil
	}
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return Failed, err
	}
	return Changed, nil
}

// applyActivation reloads the supervisor, enables boot start, and restarts
// the unit. Restart rather than start, so a re-run after a config change
// picks up new environment values without a separate stop.
func (in *Installer) applyActivation(ctx context.Context) (Outcome, error) {
	if err := in.Supervisor.DaemonReload(ctx); err != nil {
		return Failed, err
	}
	if err := in.Supervisor.Enable(ctx, in.Target.UnitName()); err != nil {
		return Failed, err
	}
	if err := in.Supervisor.Restart(ctx, in.Target.UnitName()); err != nil {
		return Failed, err
	}
	return Changed, nil
}
