package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	cliconfig "imgbotctl/internal/cli/config"
	"imgbotctl/internal/logging"
)

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Print local diagnostic information for troubleshooting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(os.Stdout, "euid=%d\n", os.Geteuid())

			var uts unix.Utsname
			if err := unix.Uname(&uts); err == nil {
				fmt.Fprintf(os.Stdout, "kernel=%s %s %s\n",
					utsString(uts.Sysname[:]),
					utsString(uts.Release[:]),
					utsString(uts.Machine[:]),
				)
			}

			for _, tool := range []string{"python3", "apt-get", "systemctl", "getent", "useradd"} {
				path, err := exec.LookPath(tool)
				if err != nil {
					fmt.Fprintf(os.Stdout, "tool_%s=missing\n", strings.ReplaceAll(tool, "-", "_"))
					continue
				}
				fmt.Fprintf(os.Stdout, "tool_%s=%s\n", strings.ReplaceAll(tool, "-", "_"), path)
			}

			fmt.Fprintf(os.Stdout, "config_path=%s\n", configPath)
			cfg, err := cliconfig.Load(configPath)
			if err != nil {
				fmt.Fprintf(os.Stdout, "config_error=%s\n", err.Error())
			} else {
				fmt.Fprintf(os.Stdout, "config_present=%t\n", cfg != nil)
			}

			installer, err := buildInstaller(installFlags{configPath: configPath}, logging.New(os.Stderr, false))
			if err != nil {
				return err
			}
			t := installer.Target
			fmt.Fprintf(os.Stdout, "work_dir=%s present=%t\n", t.WorkDir, pathExists(t.WorkDir))
			fmt.Fprintf(os.Stdout, "artifact=%s present=%t\n", t.ArtifactPath(), pathExists(t.ArtifactPath()))
			fmt.Fprintf(os.Stdout, "venv_python=%s present=%t\n", installer.Runtime.VenvPython(), pathExists(installer.Runtime.VenvPython()))
			fmt.Fprintf(os.Stdout, "env_file=%s present=%t", t.EnvFilePath(), pathExists(t.EnvFilePath()))
			if info, err := os.Stat(t.EnvFilePath()); err == nil {
				fmt.Fprintf(os.Stdout, " mode=%04o", info.Mode().Perm())
			}
			fmt.Fprintln(os.Stdout)
			fmt.Fprintf(os.Stdout, "unit_file=%s present=%t\n", t.UnitPath(), pathExists(t.UnitPath()))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "path to the overrides file (YAML)")
	return cmd
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func utsString(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
