package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "imgbotctl",
		Short: "Provision a host to run the Telegram image bot under systemd",
	}
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newUninstallCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newStatusCmd())

	// Bare invocation from a directory containing bot.py performs the
	// install, preserving the original operator workflow.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "install")
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
