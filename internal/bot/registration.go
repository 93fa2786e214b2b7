package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/payroll-console/internal/dialog"
	"github.com/Spok95/payroll-console/internal/domain/invitations"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// invitePrefix — параметр deep link: t.me/<bot>?start=inv_<token>.
const invitePrefix = "inv_"

// invite — принятие приглашения между сообщениями. Пароль держим только в памяти.
type invite struct {
	flow     *invitations.Flow
	password string
}

func (b *Bot) startInvite(ctx context.Context, chatID int64, token string) {
	flow := invitations.NewFlow(b.backend, b.sessions, chatID, token)
	if err := flow.Verify(ctx); err != nil {
		b.log.Info("invitation rejected", "chat_id", chatID, "err", err)
		b.sendText(chatID, "Приглашение недействительно: "+flow.LastError+"\nПопросите администратора прислать новое.")
		return
	}
	b.invites.Put(chatID, &invite{flow: flow})
	_ = b.states.Set(ctx, chatID, dialog.StateInvPassword, dialog.Payload{})

	inv := flow.Invitation
	text := fmt.Sprintf("Приглашение в компанию «%s» для %s.\n\nПридумайте пароль (не короче %d символов).",
		inv.CompanyName, inv.Email, invitations.MinPasswordLen)
	b.sendWithKeyboard(chatID, text, navKeyboard(false, true))
}

func (b *Bot) askPassword(chatID int64, problem string) {
	text := "Придумайте пароль (не короче 8 символов)."
	if problem != "" {
		text = "⚠️ " + problem + "\n" + text
	}
	b.sendWithKeyboard(chatID, text, navKeyboard(false, true))
}

func (b *Bot) inviteFor(ctx context.Context, chatID int64) (*invite, bool) {
	inv, ok := b.invites.Get(chatID)
	if !ok {
		_ = b.states.Reset(ctx, chatID)
		b.sendText(chatID, "Сеанс приглашения устарел. Откройте ссылку из письма ещё раз.")
		return nil, false
	}
	return inv, true
}

func (b *Bot) handleInvitePassword(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.deleteMessage(chatID, msg.MessageID)

	inv, ok := b.inviteFor(ctx, chatID)
	if !ok {
		return
	}
	pw := msg.Text
	if err := invitations.ValidatePassword(pw, pw); err != nil {
		b.askPassword(chatID, err.Error())
		return
	}
	inv.password = pw
	_ = b.states.Set(ctx, chatID, dialog.StateInvConfirm, dialog.Payload{})
	b.sendWithKeyboard(chatID, "Повторите пароль.", navKeyboard(false, true))
}

func (b *Bot) handleInviteConfirm(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.deleteMessage(chatID, msg.MessageID)

	inv, ok := b.inviteFor(ctx, chatID)
	if !ok {
		return
	}
	dest, err := inv.flow.Submit(ctx, inv.password, msg.Text)
	inv.password = ""
	if err != nil {
		b.log.Info("invitation submit failed", "chat_id", chatID, "err", err)
		if inv.flow.State != invitations.StateValid {
			b.invites.Drop(chatID)
			_ = b.states.Reset(ctx, chatID)
			b.sendText(chatID, "Не удалось принять приглашение: "+inv.flow.LastError)
			return
		}
		_ = b.states.Set(ctx, chatID, dialog.StateInvPassword, dialog.Payload{})
		b.askPassword(chatID, inv.flow.LastError)
		return
	}

	b.invites.Drop(chatID)
	if dest == invitations.RedirectDashboard {
		b.showMenu(ctx, chatID, "Добро пожаловать! Пароль сохранён, вы вошли в консоль.")
	}
}

// parseInviteToken достаёт токен из аргумента /start.
func parseInviteToken(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, invitePrefix) {
		return "", false
	}
	return strings.TrimPrefix(arg, invitePrefix), true
}
