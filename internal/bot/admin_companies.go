package bot

import (
	"context"

	"github.com/Spok95/payroll-console/internal/api"
	"github.com/Spok95/payroll-console/internal/dialog"
	"github.com/Spok95/payroll-console/internal/domain/companies"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// superClient — клиент бэкенда только для супер-админа.
func (b *Bot) superClient(ctx context.Context, chatID int64) (*api.Client, bool) {
	s, client, ok := b.authed(ctx, chatID)
	if !ok {
		return nil, false
	}
	if !s.User.IsSuperAdmin() {
		b.sendText(chatID, "Доступ запрещён.")
		return nil, false
	}
	return client, true
}

func (b *Bot) showCompanies(ctx context.Context, chatID int64, editMsgID int) {
	client, ok := b.superClient(ctx, chatID)
	if !ok {
		return
	}
	list, err := client.ListCompanies(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateCompList, dialog.Payload{})

	text := heading(b.currentTheme(ctx, chatID), "Компании")
	if len(list) == 0 {
		text += "\nКомпаний пока нет."
	}
	kb := companiesKeyboard(list)
	if editMsgID != 0 {
		b.editText(chatID, editMsgID, text, kb)
		return
	}
	b.sendWithKeyboard(chatID, text, kb)
}

func (b *Bot) showCompany(ctx context.Context, chatID int64, editMsgID int, id string) {
	client, ok := b.superClient(ctx, chatID)
	if !ok {
		return
	}
	c, err := client.GetCompany(ctx, id)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateCompItem, dialog.Payload{"comp_id": c.ID})

	text := renderCompany(b.currentTheme(ctx, chatID), *c)
	if editMsgID != 0 {
		b.editText(chatID, editMsgID, text, companyKeyboard())
		return
	}
	b.sendWithKeyboard(chatID, text, companyKeyboard())
}

func (b *Bot) askCompanyField(ctx context.Context, cb *tgbotapi.CallbackQuery, st *dialog.Item, field companies.Field) {
	chatID := cb.Message.Chat.ID
	id, _ := dialog.GetString(st.Payload, "comp_id")
	if id == "" {
		b.answerCallback(cb, "Сначала выберите компанию", true)
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateCompField, st.Payload.With("field", string(field)))
	prompt := "Введите новое значение: " + field.Title()
	if field == companies.FieldActive {
		prompt += " (да/нет)"
	}
	b.answerCallback(cb, "", false)
	b.sendWithKeyboard(chatID, prompt, navKeyboard(true, true))
}

// handleCompanyField отправляет одно изменённое поле; при ошибке ждём ввод снова.
func (b *Bot) handleCompanyField(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	id, _ := dialog.GetString(st.Payload, "comp_id")
	f, _ := dialog.GetString(st.Payload, "field")
	field := companies.Field(f)

	u, err := companies.BuildUpdate(field, text)
	if err != nil {
		b.sendWithKeyboard(chatID, "⚠️ "+err.Error(), navKeyboard(true, true))
		return
	}
	client, ok := b.superClient(ctx, chatID)
	if !ok {
		return
	}
	c, err := client.UpdateCompany(ctx, id, u)
	if err != nil {
		b.log.Info("company update failed", "chat_id", chatID, "company_id", id, "field", f, "err", err)
		b.sendError(chatID, err)
		return
	}
	if c.ID == "" {
		// бэкенд может ответить без тела карточки
		prev, gerr := client.GetCompany(ctx, id)
		if gerr != nil {
			b.sendError(chatID, gerr)
			return
		}
		c = prev
	}
	_ = b.states.Set(ctx, chatID, dialog.StateCompItem, dialog.Payload{"comp_id": id})
	b.sendWithKeyboard(chatID, "✅ Сохранено\n\n"+renderCompany(b.currentTheme(ctx, chatID), *c), companyKeyboard())
}
