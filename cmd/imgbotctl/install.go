package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	cliconfig "imgbotctl/internal/cli/config"
	"imgbotctl/internal/logging"
	"imgbotctl/internal/prompt"
	"imgbotctl/internal/provision"
	"imgbotctl/internal/system"
)

type installFlags struct {
	dryRun         bool
	artifact       string
	nonInteractive bool
	configPath     string
	debug          bool
}

func newInstallCmd() *cobra.Command {
	var f installFlags

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Provision the host and start the bot under supervision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			installer, err := buildInstaller(f, logging.New(os.Stdout, f.debug))
			if err != nil {
				return err
			}

			if f.dryRun {
				fmt.Fprintln(os.Stdout, "install plan (dry-run):")
				for _, line := range planLines(installer) {
					fmt.Fprintf(os.Stdout, "- %s\n", line)
				}
				fmt.Fprintln(os.Stdout, "run without --dry-run to execute")
				return nil
			}

			if err := provision.Preflight(os.Geteuid(), installer.ArtifactSrc); err != nil {
				return err
			}
			for _, tool := range []string{"apt-get", "systemctl"} {
				if err := system.RequireTool(tool); err != nil {
					return err
				}
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := installer.Plan().Execute(ctx, installer.Log); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "install complete: %s is enabled and running\n", installer.Target.UnitName())
			fmt.Fprintf(os.Stdout, "follow logs with: journalctl -u %s -f\n", installer.Target.UnitName())
			return nil
		},
	}
	cmd.SilenceUsage = true

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print what would happen without executing")
	cmd.Flags().StringVar(&f.artifact, "artifact", "", "path to the bot script (default bot.py in the current directory)")
	cmd.Flags().BoolVar(&f.nonInteractive, "non-interactive", false, "take secrets from TELEGRAM_TOKEN/OPENAI_API_KEY/ADMIN_TELEGRAM_ID/MODEL instead of prompting")
	cmd.Flags().StringVar(&f.configPath, "config", defaultConfigPath(), "path to the overrides file (YAML)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "debug logging")
	return cmd
}

func defaultConfigPath() string {
	if v := strings.TrimSpace(os.Getenv("IMGBOTCTL_CONFIG")); v != "" {
		return v
	}
	return cliconfig.DefaultConfigPath()
}

// buildInstaller assembles the desired state from defaults plus the optional
// overrides file, then wires the live host collaborators.
func buildInstaller(f installFlags, log *slog.Logger) (*provision.Installer, error) {
	target := provision.DefaultTarget()
	configuredArtifact := ""
	cfg, err := cliconfig.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		if cfg.ServiceName != "" {
			target.ServiceName = cfg.ServiceName
		}
		if cfg.WorkDir != "" {
			target.WorkDir = cfg.WorkDir
		}
		if cfg.ServiceUser != "" {
			target.User = cfg.ServiceUser
		}
		if cfg.ServiceGroup != "" {
			target.Group = cfg.ServiceGroup
		}
		if cfg.Artifact != "" {
			configuredArtifact = cfg.Artifact
		}
	}

	runtime := provision.DefaultRuntime(target.WorkDir)
	if cfg != nil {
		if len(cfg.SystemPackages) > 0 {
			runtime.SystemPackages = cfg.SystemPackages
		}
		if len(cfg.PipPackages) > 0 {
			runtime.PipPackages = cfg.PipPackages
		}
	}

	// Precedence for the source script: --artifact flag, then the config
	// file's path (kept whole, directory included), then bot.py alongside
	// the invocation. Only the deployed name is reduced to a basename.
	artifactSrc := strings.TrimSpace(f.artifact)
	if artifactSrc == "" {
		artifactSrc = configuredArtifact
	}
	if artifactSrc == "" {
		artifactSrc = target.ArtifactName
	}
	target.ArtifactName = filepath.Base(artifactSrc)

	runner := &system.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	var secrets provision.SecretSource
	if f.nonInteractive {
		secrets = &provision.EnvSource{Getenv: os.Getenv}
	} else {
		secrets = prompt.NewStdio()
	}

	return &provision.Installer{
		Target:      target,
		Runtime:     runtime,
		ArtifactSrc: artifactSrc,
		Packages:    &system.AptInstaller{Run: runner},
		Identity:    &system.HostIdentity{Run: runner},
		Supervisor:  &system.Systemctl{Run: runner},
		Run:         runner,
		Secrets:     secrets,
		Log:         log,
	}, nil
}

// planLines narrates the provisioning sequence for --dry-run.
func planLines(in *provision.Installer) []string {
	t := in.Target
	r := in.Runtime
	return []string{
		fmt.Sprintf("install system packages: %s", strings.Join(r.SystemPackages, " ")),
		fmt.Sprintf("ensure service identity %s:%s (system account, no login shell)", t.User, t.Group),
		fmt.Sprintf("deploy %s to %s (owner %s:%s, dir 0750, file 0440)", in.ArtifactSrc, t.ArtifactPath(), t.User, t.Group),
		fmt.Sprintf("build venv at %s (pip: %s)", r.VenvDir, strings.Join(r.PipPackages, " ")),
		fmt.Sprintf("collect secrets and write %s (mode 0600)", t.EnvFilePath()),
		fmt.Sprintf("install %s (Restart=always, RestartSec=5)", t.UnitPath()),
		fmt.Sprintf("systemctl daemon-reload, enable and restart %s", t.UnitName()),
	}
}
