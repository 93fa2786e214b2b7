package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Spok95/payroll-console/internal/api"
	"github.com/Spok95/payroll-console/internal/config"
	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/infra/logger"
	"github.com/Spok95/payroll-console/internal/migrations"
	"github.com/Spok95/payroll-console/internal/theme"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить миграции и выйти",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return migrations.Up(cfg.Postgres.DSN, logger.New(cfg.App.Env))
	},
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Публичные тарифы",
}

var (
	exportOut   string
	exportTheme string
)

var plansExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить публичный прайс в XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logger.New(cfg.App.Env)

		list, err := api.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log).PublicPlans(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch plans: %w", err)
		}
		pal := plans.PaletteLight
		if t, ok := theme.Parse(exportTheme); ok && t == theme.Dark {
			pal = plans.PaletteDark
		}
		data, err := plans.ExportXLSX(plans.Sort(list), pal)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("pricing_%s.xlsx", time.Now().In(cfg.Location()).Format("20060102"))
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		log.Info("pricing exported", "file", out, "plans", len(list))
		return nil
	},
}

func init() {
	plansExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "файл для выгрузки")
	plansExportCmd.Flags().StringVar(&exportTheme, "theme", "light", "оформление: light или dark")
	plansCmd.AddCommand(plansExportCmd)
}
