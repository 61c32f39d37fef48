package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgbotctl/internal/logging"
)

func newStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the supervised service state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			installer, err := buildInstaller(installFlags{configPath: configPath}, logging.New(os.Stderr, false))
			if err != nil {
				return err
			}
			t := installer.Target
			ctx := cmd.Context()

			fmt.Fprintf(os.Stdout, "unit=%s\n", t.UnitName())
			fmt.Fprintf(os.Stdout, "active=%s\n", installer.Supervisor.ActiveState(ctx, t.UnitName()))
			fmt.Fprintf(os.Stdout, "enabled=%s\n", installer.Supervisor.EnabledState(ctx, t.UnitName()))
			fmt.Fprintf(os.Stdout, "artifact=%s present=%t\n", t.ArtifactPath(), pathExists(t.ArtifactPath()))
			fmt.Fprintf(os.Stdout, "env_file=%s present=%t\n", t.EnvFilePath(), pathExists(t.EnvFilePath()))
			fmt.Fprintf(os.Stdout, "logs=journalctl -u %s -f\n", t.UnitName())
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "path to the overrides file (YAML)")
	return cmd
}
