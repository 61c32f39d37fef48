package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"imgbotctl/internal/logging"
	"imgbotctl/internal/provision"
)

type uninstallFlags struct {
	dryRun     bool
	removeUser bool
	configPath string
	debug      bool
}

func newUninstallCmd() *cobra.Command {
	var f uninstallFlags

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Stop the bot and remove everything the installer created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			installer, err := buildInstaller(installFlags{configPath: f.configPath, debug: f.debug}, logging.New(os.Stdout, f.debug))
			if err != nil {
				return err
			}
			t := installer.Target

			if f.dryRun {
				fmt.Fprintln(os.Stdout, "uninstall plan (dry-run):")
				fmt.Fprintf(os.Stdout, "- stop and disable %s\n", t.UnitName())
				fmt.Fprintf(os.Stdout, "- remove %s and reload the supervisor\n", t.UnitPath())
				fmt.Fprintf(os.Stdout, "- remove %s\n", t.EnvFilePath())
				fmt.Fprintf(os.Stdout, "- remove %s\n", t.WorkDir)
				if f.removeUser {
					fmt.Fprintf(os.Stdout, "- remove user/group %s:%s\n", t.User, t.Group)
				}
				fmt.Fprintln(os.Stdout, "run without --dry-run to execute")
				return nil
			}

			if os.Geteuid() != 0 {
				return fmt.Errorf("%w (euid=%d)", provision.ErrNotRoot, os.Geteuid())
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runUninstall(ctx, installer, f.removeUser)
		},
	}
	cmd.SilenceUsage = true

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print what would happen without executing")
	cmd.Flags().BoolVar(&f.removeUser, "remove-user", true, "remove the service user/group (best-effort)")
	cmd.Flags().StringVar(&f.configPath, "config", defaultConfigPath(), "path to the overrides file (YAML)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "debug logging")
	return cmd
}

// runUninstall tears down in reverse install order. Supervisor calls are
// best-effort: a half-installed host should still uninstall cleanly.
func runUninstall(ctx context.Context, in *provision.Installer, removeUser bool) error {
	t := in.Target
	log := in.Log

	if err := in.Supervisor.Stop(ctx, t.UnitName()); err != nil {
		log.Warn("stop failed (continuing)", "unit", t.UnitName(), "error", err)
	}
	if err := in.Supervisor.Disable(ctx, t.UnitName()); err != nil {
		log.Warn("disable failed (continuing)", "unit", t.UnitName(), "error", err)
	}

	if err := removeIfPresent(t.UnitPath(), log); err != nil {
		return err
	}
	if err := in.Supervisor.DaemonReload(ctx); err != nil {
		log.Warn("daemon-reload failed (continuing)", "error", err)
	}
	if err := removeIfPresent(t.EnvFilePath(), log); err != nil {
		return err
	}
	log.Info("removing work directory", "path", t.WorkDir)
	if err := os.RemoveAll(t.WorkDir); err != nil {
		return err
	}

	if removeUser {
		if err := in.Run.Run(ctx, "userdel", t.User); err != nil {
			log.Warn("userdel failed (continuing)", "user", t.User, "error", err)
		}
		if err := in.Run.Run(ctx, "groupdel", t.Group); err != nil {
			log.Warn("groupdel failed (continuing)", "group", t.Group, "error", err)
		}
	}

	fmt.Fprintln(os.Stdout, "uninstall complete")
	return nil
}

func removeIfPresent(path string, log *slog.Logger) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("removed", "path", path)
	return nil
}
