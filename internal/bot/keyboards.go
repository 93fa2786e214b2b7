package bot

import (
	"fmt"

	"github.com/Spok95/payroll-console/internal/domain/companies"
	"github.com/Spok95/payroll-console/internal/domain/employees"
	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/Spok95/payroll-console/internal/menu"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// menuKeyboard — нижняя панель: одна строка на группу меню.
func menuKeyboard(items []menu.Item) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{}
	for _, group := range items {
		leaves := menu.Leaves([]menu.Item{group})
		row := make([]tgbotapi.KeyboardButton, 0, len(leaves))
		for _, it := range leaves {
			row = append(row, tgbotapi.NewKeyboardButton(it.Title))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return tgbotapi.ReplyKeyboardMarkup{ResizeKeyboard: true, Keyboard: rows}
}

func employeesKeyboard(list []employees.Employee) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, e := range list {
		title := fmt.Sprintf("%s %s", statusBadge(e.Status), e.FullName())
		if e.EmployeeCode != "" {
			title += " · " + e.EmployeeCode
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, "emp:item:"+e.ID),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func employeeStatusKeyboard(form *employees.Form) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, s := range form.Targets() {
		title := s.Title()
		if s == form.Current {
			title = "• " + title
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(title, "emp:st:"+string(s)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row, navKeyboard(true, true).InlineKeyboard[0])
}

func employeeReviewKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📨 Сохранить", "emp:send"),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}

func subscriptionKeyboard(st *subscriptions.CompanyStatus) tgbotapi.InlineKeyboardMarkup {
	if st != nil && st.NeedsPurchase() {
		return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Оформить подписку", "sub:buy"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬆️ Сменить тариф", "sub:upgrade"),
	))
}

// cycleRow — переключатель периода; текущий отмечен.
func cycleRow(prefix string, current subscriptions.BillingCycle) []tgbotapi.InlineKeyboardButton {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, c := range []subscriptions.BillingCycle{subscriptions.CycleMonthly, subscriptions.CycleAnnual} {
		title := c.Title()
		if c == current {
			title = "✅ " + title
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(title, prefix+":cycle:"+string(c)))
	}
	return row
}

func planRows(prefix string, list []plans.Plan, selected string) [][]tgbotapi.InlineKeyboardButton {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range list {
		title := p.Name
		if p.ID == selected {
			title = "✅ " + title
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, prefix+":plan:"+p.ID),
		))
	}
	return rows
}

func upgradeKeyboard(snap subscriptions.Snapshot) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if snap.Options != nil {
		rows = append(rows, planRows("up", snap.Options.UpgradeOptions, snap.PlanID)...)
	}
	rows = append(rows, cycleRow("up", snap.Cycle))
	if snap.Phase == subscriptions.PhaseCalculationReady && snap.Calculation != nil {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Оплатить", "up:pay"),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func purchaseKeyboard(list []plans.Plan, planID string, cycle subscriptions.BillingCycle) tgbotapi.InlineKeyboardMarkup {
	rows := planRows("buy", list, planID)
	rows = append(rows, cycleRow("buy", cycle))
	if planID != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Перейти к оплате", "buy:go"),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func payLinkKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("💳 Открыть оплату", url)),
		navKeyboard(false, true).InlineKeyboard[0],
	)
}

func pricingKeyboard(withExport bool) tgbotapi.InlineKeyboardMarkup {
	if !withExport {
		return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📥 Скачать Excel", "price:xlsx"),
	))
}

func companiesKeyboard(list []companies.Company) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, c := range list {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s", badge(c.IsActive), c.Name), "comp:item:"+c.ID),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func companyKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for i, f := range companies.EditableFields {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✏️ "+f.Title(), "comp:f:"+string(f)))
		if i%2 == 1 {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navKeyboard(true, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func themeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔁 Переключить тему", "theme:toggle"),
	))
}
