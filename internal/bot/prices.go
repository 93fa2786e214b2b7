package bot

import (
	"context"
	"fmt"

	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/menu"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showPricing(ctx context.Context, chatID int64) {
	s, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	list, err := b.catalog.Public(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	a := b.currentAccess(ctx, chatID, s, client)
	b.sendWithKeyboard(chatID, renderPlans(b.currentTheme(ctx, chatID), "Тарифы", list), pricingKeyboard(menu.Has(a.Items, menu.KeyPricingXLSX)))
}

// showAdminPlans — все планы, включая скрытые; только супер-админ.
func (b *Bot) showAdminPlans(ctx context.Context, chatID int64) {
	s, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	if !s.User.IsSuperAdmin() {
		b.sendText(chatID, "Доступ запрещён.")
		return
	}
	list, err := client.AdminPlans(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	// правки планов видны в публичном прайсе сразу
	b.catalog.Invalidate()
	b.sendText(chatID, renderPlans(b.currentTheme(ctx, chatID), "Все тарифы", plans.Sort(list)))
}

func (b *Bot) sendPricingXLSX(ctx context.Context, chatID int64) {
	s, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	if !menu.Has(b.currentAccess(ctx, chatID, s, client).Items, menu.KeyPricingXLSX) {
		b.sendText(chatID, "Выгрузка в Excel недоступна на вашем тарифе.")
		return
	}
	list, err := b.catalog.Public(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	t := b.currentTheme(ctx, chatID)
	data, err := plans.ExportXLSX(list, palette(t))
	if err != nil {
		b.log.Error("pricing export failed", "chat_id", chatID, "err", err)
		b.sendText(chatID, "Не удалось сформировать файл.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("pricing_%s.xlsx", b.today().Format("20060102")),
		Bytes: data,
	})
	doc.Caption = "Прайс-лист тарифов"
	b.send(doc)
}
