package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Версия проставляется при сборке через -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "payroll-console",
	Short:         "Телеграм-консоль администратора кадров и биллинга",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Показать версию",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("payroll-console %s\n", Version)
		if GitCommit != "unknown" {
			fmt.Printf("commit: %s\n", GitCommit)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/example.yaml", "путь к YAML-конфигу")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
