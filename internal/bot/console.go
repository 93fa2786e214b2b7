package bot

import (
	"context"
	"errors"

	"github.com/Spok95/payroll-console/internal/api"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/Spok95/payroll-console/internal/menu"
	"github.com/Spok95/payroll-console/internal/session"
	"github.com/Spok95/payroll-console/internal/theme"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// access — что видно пользователю в меню: фичи тарифа и роль.
type access struct {
	Features map[string]bool
	Super    bool
	Items    []menu.Item
}

const loginHint = "Вы не вошли. Откройте ссылку-приглашение из письма, чтобы начать."

// authed возвращает сессию и клиент с токеном пользователя; без сессии просит войти.
func (b *Bot) authed(ctx context.Context, chatID int64) (*session.Session, *api.Client, bool) {
	s, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			b.log.Error("load session failed", "chat_id", chatID, "err", err)
			b.sendText(chatID, "Не удалось загрузить сессию, попробуйте позже.")
			return nil, nil, false
		}
		b.forget(chatID)
		b.sendWithKeyboard(chatID, loginHint, tgbotapi.NewRemoveKeyboard(true))
		return nil, nil, false
	}
	return s, b.backend.WithToken(s.AccessToken), true
}

// loadAccess перечитывает статус подписки и строит меню под тариф и роль.
func (b *Bot) loadAccess(ctx context.Context, chatID int64, s *session.Session, client *api.Client) (access, *subscriptions.CompanyStatus) {
	a := access{Features: map[string]bool{}, Super: s.User.IsSuperAdmin()}
	st, err := client.SubscriptionStatus(ctx)
	if err != nil {
		// у супер-админа может не быть своей компании
		b.log.Info("subscription status unavailable", "chat_id", chatID, "err", err)
		st = nil
	} else if st.Plan != nil {
		a.Features = st.Plan.FeatureSet()
	}
	a.Items = menu.Filter(menu.Console, menu.ForAccess(a.Features, a.Super))
	b.access.Put(chatID, a)
	return a, st
}

func (b *Bot) currentAccess(ctx context.Context, chatID int64, s *session.Session, client *api.Client) access {
	if a, ok := b.access.Get(chatID); ok {
		return a
	}
	a, _ := b.loadAccess(ctx, chatID, s, client)
	return a
}

// showMenu — полная пересинхронизация: статус, меню, сброс диалога.
func (b *Bot) showMenu(ctx context.Context, chatID int64, text string) {
	s, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	_ = b.states.Reset(ctx, chatID)
	a, _ := b.loadAccess(ctx, chatID, s, client)
	if text == "" {
		text = "Главное меню"
	}
	name := s.User.FullName
	if name == "" {
		name = s.User.Email
	}
	if name != "" {
		text += "\n" + name
	}
	b.sendWithKeyboard(chatID, text, menuKeyboard(a.Items))
}

// themeFor возвращает провайдер темы чата, создавая его при первом обращении.
func (b *Bot) themeFor(ctx context.Context, chatID int64) *theme.Provider {
	if p, ok := b.providers.Get(chatID); ok {
		return p
	}
	p := theme.NewProvider(b.themes, chatID, b.system)
	if _, err := p.Init(ctx); err != nil {
		b.log.Warn("theme init failed", "chat_id", chatID, "err", err)
	}
	p.Subscribe(func(t theme.Theme) {
		b.log.Info("theme changed", "chat_id", chatID, "theme", string(t))
	})
	b.providers.Put(chatID, p)
	return p
}

func (b *Bot) currentTheme(ctx context.Context, chatID int64) theme.Theme {
	return b.themeFor(ctx, chatID).Theme()
}

func (b *Bot) showTheme(ctx context.Context, chatID int64) {
	t := b.currentTheme(ctx, chatID)
	b.sendWithKeyboard(chatID, heading(t, "Тема оформления")+"\nСейчас: "+t.Title(), themeKeyboard())
}

func (b *Bot) toggleTheme(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	t, err := b.themeFor(ctx, chatID).Toggle(ctx)
	if err != nil {
		b.log.Error("theme toggle failed", "chat_id", chatID, "err", err)
		b.answerCallback(cb, "Не удалось сохранить тему", true)
		return
	}
	b.answerCallback(cb, t.Title(), false)
	b.editText(chatID, cb.Message.MessageID, heading(t, "Тема оформления")+"\nСейчас: "+t.Title(), themeKeyboard())
}

// forget убирает всё, что бот держит в памяти для чата.
func (b *Bot) forget(chatID int64) {
	b.workflows.Drop(chatID)
	b.invites.Drop(chatID)
	b.access.Drop(chatID)
	if p, ok := b.providers.Drop(chatID); ok {
		p.Close()
	}
}

func (b *Bot) logout(ctx context.Context, chatID int64) {
	if err := b.sessions.Delete(ctx, chatID); err != nil {
		b.log.Error("delete session failed", "chat_id", chatID, "err", err)
	}
	_ = b.states.Reset(ctx, chatID)
	b.forget(chatID)
	b.sendWithKeyboard(chatID, "Вы вышли. Чтобы войти снова, откройте ссылку-приглашение.", tgbotapi.NewRemoveKeyboard(true))
}
