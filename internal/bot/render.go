package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/payroll-console/internal/domain/companies"
	"github.com/Spok95/payroll-console/internal/domain/employees"
	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/Spok95/payroll-console/internal/theme"
)

// heading — заголовок сообщения в оформлении темы.
func heading(t theme.Theme, title string) string {
	if t == theme.Dark {
		return "🌙 " + title + "\n━━━━━━━━━━"
	}
	return "☀️ " + title + "\n──────────"
}

func palette(t theme.Theme) plans.Palette {
	if t == theme.Dark {
		return plans.PaletteDark
	}
	return plans.PaletteLight
}

func money(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

func statusBadge(s employees.Status) string {
	switch s {
	case employees.StatusActive:
		return "🟢"
	case employees.StatusResigned:
		return "🟡"
	}
	return "🔴"
}

func renderSubscription(t theme.Theme, st *subscriptions.CompanyStatus, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(heading(t, "Моя подписка"))
	sb.WriteString("\n")

	planName := "не выбран"
	if st.Plan != nil && st.Plan.Name != "" {
		planName = st.Plan.Name
	}
	fmt.Fprintf(&sb, "Тариф: %s\n", planName)

	switch st.Status {
	case subscriptions.StatusTrial:
		fmt.Fprintf(&sb, "Статус: пробный период, осталось дней: %d\n", st.TrialDaysLeft(now))
	case subscriptions.StatusExpired:
		sb.WriteString("Статус: подписка истекла\n")
	default:
		sb.WriteString("Статус: активна\n")
	}
	if st.BillingCycle.Valid() {
		fmt.Fprintf(&sb, "Оплата: %s\n", st.BillingCycle.Title())
	}
	if st.NextBillingDate != nil {
		fmt.Fprintf(&sb, "Следующее списание: %s\n", st.NextBillingDate.In(now.Location()).Format("02.01.2006"))
	}
	if st.EmployeeCount > 0 {
		fmt.Fprintf(&sb, "Сотрудников: %d\n", st.EmployeeCount)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderPlans(t theme.Theme, title string, list []plans.Plan) string {
	var sb strings.Builder
	sb.WriteString(heading(t, title))
	if len(list) == 0 {
		sb.WriteString("\nТарифов пока нет.")
		return sb.String()
	}
	for _, p := range list {
		sb.WriteString("\n\n")
		name := p.Name
		if !p.IsActive {
			name += " (скрыт)"
		}
		fmt.Fprintf(&sb, "%s\n", name)
		if d := strings.TrimSpace(p.Description); d != "" {
			fmt.Fprintf(&sb, "%s\n", d)
		}
		fmt.Fprintf(&sb, "%s за сотрудника в месяц", money(p.PricePerUserMonthly))
		if p.PricePerUserAnnual > 0 {
			fmt.Fprintf(&sb, "\n%s за сотрудника в год", money(p.PricePerUserAnnual))
			if s := p.AnnualSavingsPercent(); s > 0 {
				fmt.Fprintf(&sb, " (экономия %g%%)", s)
			}
		}
		for _, k := range p.FeatureKeys() {
			fmt.Fprintf(&sb, "\n• %s: %s", k, p.FeatureValue(k))
		}
	}
	return sb.String()
}

// renderUpgrade — экран апгрейда; расчёт показывается только из последнего принятого ответа.
func renderUpgrade(t theme.Theme, snap subscriptions.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(heading(t, "Смена тарифа"))
	sb.WriteString("\n")

	if snap.Options != nil && snap.Options.CurrentPlan != nil {
		fmt.Fprintf(&sb, "Текущий тариф: %s (%s)\n", snap.Options.CurrentPlan.Name, snap.Options.CurrentBillingCycle.Title())
	}
	fmt.Fprintf(&sb, "Период оплаты: %s\n", snap.Cycle.Title())

	switch snap.Phase {
	case subscriptions.PhaseHighestPlan:
		sb.WriteString("\nВы уже на максимальном тарифе.")
	case subscriptions.PhaseOptionsLoaded:
		sb.WriteString("\nВыберите новый тариф.")
	case subscriptions.PhaseCalculating:
		sb.WriteString("\nСчитаем стоимость…")
	case subscriptions.PhaseProcessingPayment:
		sb.WriteString("\nОжидаем оплату.")
	}
	if snap.Calculation != nil {
		sb.WriteString("\n")
		sb.WriteString(renderCalculation(snap.Calculation))
	}
	if snap.LastError != "" {
		fmt.Fprintf(&sb, "\n\n⚠️ %s", snap.LastError)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderCalculation(c *subscriptions.UpgradeCalculation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Новый тариф: %s\n", c.TargetPlan.Name)
	fmt.Fprintf(&sb, "Сотрудников: %d\n", c.EmployeeCount)
	fmt.Fprintf(&sb, "Дней до конца периода: %d\n", c.DaysRemaining)
	fmt.Fprintf(&sb, "Разница в цене за сотрудника: %s\n", money(c.PriceDifferencePerUser))
	fmt.Fprintf(&sb, "Пропорционально за сотрудника: %s\n", money(c.ProratedAmountPerUser))
	fmt.Fprintf(&sb, "К оплате сейчас: %s\n", money(c.TotalUpgradeCost))
	if c.NextBillingDate != "" {
		fmt.Fprintf(&sb, "Следующее списание: %s", c.NextBillingDate)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderPurchase(t theme.Theme, list []plans.Plan, planID string, cycle subscriptions.BillingCycle) string {
	var sb strings.Builder
	sb.WriteString(heading(t, "Оформление подписки"))
	fmt.Fprintf(&sb, "\nПериод оплаты: %s", cycle.Title())
	if p, ok := plans.Find(list, planID); ok {
		price := p.PricePerUserMonthly
		unit := "в месяц"
		if cycle == subscriptions.CycleAnnual {
			price, unit = p.PricePerUserAnnual, "в год"
		}
		fmt.Fprintf(&sb, "\nТариф: %s, %s за сотрудника %s", p.Name, money(price), unit)
	} else {
		sb.WriteString("\nВыберите тариф.")
	}
	return sb.String()
}

func renderEmployeeForm(t theme.Theme, name string, form *employees.Form) string {
	var sb strings.Builder
	sb.WriteString(heading(t, name))
	fmt.Fprintf(&sb, "\nТекущий статус: %s", form.Current.Title())
	if form.Change.Target != form.Current {
		fmt.Fprintf(&sb, "\nНовый статус: %s", form.Change.Target.Title())
	}
	if form.Change.Target.RequiresReason() {
		date := form.Change.EffectiveDate
		if date == "" {
			date = "сегодня"
		}
		fmt.Fprintf(&sb, "\nДата: %s", date)
	}
	if form.Change.Reason != "" {
		fmt.Fprintf(&sb, "\nПричина: %s", form.Change.Reason)
	}
	if form.LastError != "" {
		fmt.Fprintf(&sb, "\n\n⚠️ %s", form.LastError)
	}
	return sb.String()
}

func renderCompany(t theme.Theme, c companies.Company) string {
	var sb strings.Builder
	sb.WriteString(heading(t, c.Name))
	fmt.Fprintf(&sb, "\nEmail: %s", orDash(c.Email))
	fmt.Fprintf(&sb, "\nТелефон: %s", orDash(c.Phone))
	fmt.Fprintf(&sb, "\nАдрес: %s", orDash(c.Address))
	fmt.Fprintf(&sb, "\nИНН/GSTIN: %s", orDash(c.TaxID))
	fmt.Fprintf(&sb, "\nАктивна: %s", badge(c.IsActive))
	if c.PlanName != "" {
		fmt.Fprintf(&sb, "\nТариф: %s", c.PlanName)
	}
	if c.SubscriptionStatus != "" {
		fmt.Fprintf(&sb, "\nПодписка: %s", c.SubscriptionStatus)
	}
	if c.EmployeeCount > 0 {
		fmt.Fprintf(&sb, "\nСотрудников: %d", c.EmployeeCount)
	}
	return sb.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
