package system

import "context"

// PackageInstaller ensures host packages are present. The host package
// manager owns locking and retry behavior; failures here are fatal to the
// caller.
type PackageInstaller interface {
	Install(ctx context.Context, packages ...string) error
}

// AptInstaller drives apt-get non-interactively.
type AptInstaller struct {
	Run Runner
}

func (a *AptInstaller) Install(ctx context.Context, packages ...string) error {
	env := []string{"DEBIAN_FRONTEND=noninteractive"}
	if err := a.Run.RunEnv(ctx, env, "apt-get", "update", "-y"); err != nil {
		return err
	}
	args := append([]string{"install", "-y"}, packages...)
	return a.Run.RunEnv(ctx, env, "apt-get", args...)
}
