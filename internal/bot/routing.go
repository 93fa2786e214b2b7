package bot

import (
	"context"
	"strings"

	"github.com/Spok95/payroll-console/internal/dialog"
	"github.com/Spok95/payroll-console/internal/domain/companies"
	"github.com/Spok95/payroll-console/internal/domain/employees"
	"github.com/Spok95/payroll-console/internal/menu"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "Команды:\n/start — главное меню\n/cancel — отменить текущее действие\n/logout — выйти\n/help — помощь"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		if token, ok := parseInviteToken(msg.CommandArguments()); ok {
			b.forget(chatID)
			b.startInvite(ctx, chatID, token)
			return
		}
		b.showMenu(ctx, chatID, "")

	case "cancel":
		b.cancel(ctx, chatID)

	case "logout":
		b.logout(ctx, chatID)

	case "help":
		b.sendText(chatID, helpText)

	default:
		b.sendText(chatID, "Не знаю такую команду. Наберите /help")
	}
}

func (b *Bot) cancel(ctx context.Context, chatID int64) {
	b.workflows.Drop(chatID)
	b.invites.Drop(chatID)
	_ = b.states.Reset(ctx, chatID)
	b.sendText(chatID, "Отменено.")
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load dialog state failed", "chat_id", chatID, "err", err)
		return
	}

	// текстовые вводы диалогов
	switch st.State {
	case dialog.StateInvPassword:
		b.handleInvitePassword(ctx, msg)
		return
	case dialog.StateInvConfirm:
		b.handleInviteConfirm(ctx, msg)
		return
	case dialog.StateEmpDate:
		b.handleEmployeeDate(ctx, chatID, st, msg.Text)
		return
	case dialog.StateEmpReason:
		b.handleEmployeeReason(ctx, chatID, st, msg.Text)
		return
	case dialog.StateCompField:
		b.handleCompanyField(ctx, chatID, st, msg.Text)
		return
	}

	// нижняя панель
	s, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	a := b.currentAccess(ctx, chatID, s, client)
	item, found := menu.FindByTitle(a.Items, strings.TrimSpace(msg.Text))
	if !found {
		b.sendWithKeyboard(chatID, "Выберите пункт меню.", menuKeyboard(a.Items))
		return
	}
	b.openMenuItem(ctx, chatID, item.Key)
}

func (b *Bot) openMenuItem(ctx context.Context, chatID int64, key string) {
	switch key {
	case menu.KeyEmployees:
		b.showEmployees(ctx, chatID, 0)
	case menu.KeySubscription:
		b.showSubscription(ctx, chatID)
	case menu.KeyUpgrade:
		b.openUpgrade(ctx, chatID)
	case menu.KeyPricing:
		b.showPricing(ctx, chatID)
	case menu.KeyPricingXLSX:
		b.sendPricingXLSX(ctx, chatID)
	case menu.KeyCompanies:
		b.showCompanies(ctx, chatID, 0)
	case menu.KeyAdminPlans:
		b.showAdminPlans(ctx, chatID)
	case menu.KeyTheme:
		b.showTheme(ctx, chatID)
	case menu.KeyLogout:
		b.logout(ctx, chatID)
	}
}

// splitData разбирает callback вида "раздел:действие:аргумент".
func splitData(data string) (section, action, arg string) {
	parts := strings.SplitN(data, ":", 3)
	section = parts[0]
	if len(parts) > 1 {
		action = parts[1]
	}
	if len(parts) > 2 {
		arg = parts[2]
	}
	return section, action, arg
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load dialog state failed", "chat_id", chatID, "err", err)
		b.answerCallback(cb, "Ошибка, попробуйте ещё раз", true)
		return
	}

	section, action, arg := splitData(cb.Data)
	switch section {
	case "nav":
		b.handleNav(ctx, cb, st, action)

	case "emp":
		switch action {
		case "item":
			b.answerCallback(cb, "", false)
			b.showEmployee(ctx, cb, arg)
		case "st":
			if st.State != dialog.StateEmpItem {
				b.answerCallback(cb, "Выберите сотрудника заново", true)
				return
			}
			b.answerCallback(cb, "", false)
			b.pickEmployeeStatus(ctx, cb, st, employees.Status(arg))
		case "send":
			if st.State != dialog.StateEmpReview {
				b.answerCallback(cb, "Форма устарела", true)
				return
			}
			b.submitEmployee(ctx, cb, st)
		}

	case "sub":
		b.answerCallback(cb, "", false)
		switch action {
		case "buy":
			b.startPurchase(ctx, chatID, msgID)
		case "upgrade":
			b.openUpgrade(ctx, chatID)
		}

	case "buy":
		b.handlePurchaseCallback(ctx, cb, st, action, arg)

	case "up":
		b.handleUpgradeCallback(ctx, cb, action, arg)

	case "price":
		b.answerCallback(cb, "", false)
		if action == "xlsx" {
			b.sendPricingXLSX(ctx, chatID)
		}

	case "comp":
		switch action {
		case "item":
			b.answerCallback(cb, "", false)
			b.showCompany(ctx, chatID, msgID, arg)
		case "f":
			b.askCompanyField(ctx, cb, st, companies.Field(arg))
		}

	case "theme":
		if action == "toggle" {
			b.toggleTheme(ctx, cb)
		}

	default:
		b.answerCallback(cb, "", false)
	}
}

func (b *Bot) handleNav(ctx context.Context, cb *tgbotapi.CallbackQuery, st *dialog.Item, action string) {
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	b.answerCallback(cb, "", false)

	if action == "cancel" {
		b.workflows.Drop(chatID)
		b.invites.Drop(chatID)
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, msgID, "Отменено.")
		return
	}

	// nav:back — шаг назад по диалогу
	switch st.State {
	case dialog.StateEmpItem:
		b.showEmployees(ctx, chatID, msgID)
	case dialog.StateEmpDate, dialog.StateEmpReason, dialog.StateEmpReview:
		p := st.Payload.With("target", "", "date", "", "reason", "")
		_ = b.states.Set(ctx, chatID, dialog.StateEmpItem, p)
		form, name := formFromPayload(p)
		b.editText(chatID, msgID, renderEmployeeForm(b.currentTheme(ctx, chatID), name, form)+"\n\nВыберите новый статус:",
			employeeStatusKeyboard(form))
	case dialog.StateCompItem:
		b.showCompanies(ctx, chatID, msgID)
	case dialog.StateCompField:
		id, _ := dialog.GetString(st.Payload, "comp_id")
		b.editTextAndClear(chatID, msgID, "Изменение отменено.")
		b.showCompany(ctx, chatID, 0, id)
	default:
		b.editTextAndClear(chatID, msgID, "Отменено.")
		_ = b.states.Reset(ctx, chatID)
	}
}
