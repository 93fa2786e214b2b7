package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/payroll-console/internal/api"
	"github.com/Spok95/payroll-console/internal/bot"
	"github.com/Spok95/payroll-console/internal/config"
	"github.com/Spok95/payroll-console/internal/dialog"
	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/infra/db"
	httpx "github.com/Spok95/payroll-console/internal/infra/http"
	"github.com/Spok95/payroll-console/internal/infra/logger"
	"github.com/Spok95/payroll-console/internal/infra/payments"
	"github.com/Spok95/payroll-console/internal/infra/scheduler"
	"github.com/Spok95/payroll-console/internal/migrations"
	"github.com/Spok95/payroll-console/internal/session"
	"github.com/Spok95/payroll-console/internal/theme"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Запустить бота и HTTP-сервер оплаты",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd.Context())
	},
}

func runBot(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.App.Env)

	if cfg.Telegram.Token == "" {
		return errors.New("telegram.token is empty (APP_TELEGRAM_TOKEN)")
	}
	if err := migrations.Up(cfg.Postgres.DSN, log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()
	log.Info("db connected")

	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	log.Info("bot authorized", "username", tg.Self.UserName)

	system, ok := theme.Parse(cfg.Theme.System)
	if !ok {
		system = theme.Light
	}

	backend := api.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	sessions := session.NewRepo(pool, cfg.Session.TTL)
	intents := payments.NewRepo(pool)
	checkout := payments.NewService(intents, cfg.HTTP.PublicURL, cfg.Checkout.Currency)

	b := bot.New(bot.Deps{
		Sender:      tg,
		Log:         log,
		Backend:     backend,
		Catalog:     plans.NewCatalog(backend, cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL),
		Sessions:    sessions,
		States:      dialog.NewRepo(pool),
		Themes:      theme.NewRepo(pool),
		Checkout:    checkout,
		Location:    cfg.Location(),
		SystemTheme: system,
	})

	handler := payments.NewHandler(log, intents, b, payments.Widget{
		KeyID:       cfg.Checkout.KeyID,
		ScriptURL:   cfg.Checkout.ScriptURL,
		CompanyName: cfg.Checkout.CompanyName,
	})
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handler)
	cleanup := scheduler.NewCleanup(log, sessions, checkout, cfg.Checkout.IntentTTL)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.UpdateTimeout
	updates := tg.GetUpdatesChan(u)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("bot started")
		err := b.Run(gctx, updates)
		tg.StopReceivingUpdates()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Info("HTTP server started", "addr", cfg.HTTP.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return scheduler.Start(gctx, cfg.Session.CleanupSchedule, cleanup)
	})

	err = g.Wait()
	log.Info("graceful shutdown complete")
	return err
}
