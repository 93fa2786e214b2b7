package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spok95/payroll-console/internal/api"
	"github.com/Spok95/payroll-console/internal/dialog"
	"github.com/Spok95/payroll-console/internal/domain/invitations"
	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/Spok95/payroll-console/internal/infra/metrics"
	"github.com/Spok95/payroll-console/internal/session"
	"github.com/Spok95/payroll-console/internal/theme"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender — часть tgbotapi.BotAPI, через которую бот пишет в чат.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Sessions interface {
	invitations.TokenStore
	Get(ctx context.Context, chatID int64) (*session.Session, error)
	Delete(ctx context.Context, chatID int64) error
}

type States interface {
	Get(ctx context.Context, chatID int64) (*dialog.Item, error)
	Set(ctx context.Context, chatID int64, state dialog.State, payload dialog.Payload) error
	Reset(ctx context.Context, chatID int64) error
}

type Deps struct {
	Sender      Sender
	Log         *slog.Logger
	Backend     *api.Client
	Catalog     *plans.Catalog
	Sessions    Sessions
	States      States
	Themes      theme.Store
	Checkout    subscriptions.Checkout
	Location    *time.Location
	SystemTheme theme.Theme
}

type Bot struct {
	api      Sender
	log      *slog.Logger
	backend  *api.Client
	catalog  *plans.Catalog
	sessions Sessions
	states   States
	themes   theme.Store
	checkout subscriptions.Checkout
	loc      *time.Location
	system   theme.Theme
	now      func() time.Time

	workflows *registry[*subscriptions.Workflow]
	invites   *registry[*invite]
	providers *registry[*theme.Provider]
	access    *registry[access]
}

func New(d Deps) *Bot {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return &Bot{
		api:       d.Sender,
		log:       d.Log,
		backend:   d.Backend,
		catalog:   d.Catalog,
		sessions:  d.Sessions,
		states:    d.States,
		themes:    d.Themes,
		checkout:  d.Checkout,
		loc:       loc,
		system:    d.SystemTheme,
		now:       time.Now,
		workflows: newRegistry[*subscriptions.Workflow](),
		invites:   newRegistry[*invite](),
		providers: newRegistry[*theme.Provider](),
		access:    newRegistry[access](),
	}
}

func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			if upd.Message != nil {
				metrics.BotUpdates.WithLabelValues("message").Inc()
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				metrics.BotUpdates.WithLabelValues("callback").Inc()
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}

func (b *Bot) today() time.Time { return b.now().In(b.loc) }
