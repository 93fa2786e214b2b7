package bot

import (
	"testing"

	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/Spok95/payroll-console/internal/menu"
	"github.com/Spok95/payroll-console/internal/theme"
	"github.com/stretchr/testify/assert"
)

func TestSplitData(t *testing.T) {
	s, a, arg := splitData("up:plan:pro:x")
	assert.Equal(t, []string{"up", "plan", "pro:x"}, []string{s, a, arg})

	s, a, arg = splitData("nav")
	assert.Equal(t, []string{"nav", "", ""}, []string{s, a, arg})
}

func TestParseInviteToken(t *testing.T) {
	tok, ok := parseInviteToken(" inv_abc123 ")
	assert.True(t, ok)
	assert.Equal(t, "abc123", tok)

	_, ok = parseInviteToken("promo")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	r := newRegistry[string]()
	r.Put(1, "a")

	v, ok := r.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = r.Drop(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = r.Get(1)
	assert.False(t, ok)
}

func TestHeadingAndPalette(t *testing.T) {
	assert.Contains(t, heading(theme.Light, "Тарифы"), "☀️ Тарифы")
	assert.Contains(t, heading(theme.Dark, "Тарифы"), "🌙 Тарифы")
	assert.Equal(t, plans.PaletteDark, palette(theme.Dark))
	assert.Equal(t, plans.PaletteLight, palette(theme.Light))
}

func TestRenderCalculation(t *testing.T) {
	out := renderCalculation(&subscriptions.UpgradeCalculation{
		EmployeeCount:    12,
		DaysRemaining:    18,
		TotalUpgradeCost: 360.5,
		NextBillingDate:  "2024-02-01",
		TargetPlan:       plans.Plan{Name: "Pro"},
	})
	assert.Contains(t, out, "Новый тариф: Pro")
	assert.Contains(t, out, "К оплате сейчас: ₹360.50")
	assert.Contains(t, out, "Следующее списание: 2024-02-01")
}

func TestRenderUpgrade_HighestPlanHasNoCalculation(t *testing.T) {
	out := renderUpgrade(theme.Light, subscriptions.Snapshot{
		Phase: subscriptions.PhaseHighestPlan,
		Cycle: subscriptions.CycleAnnual,
	})
	assert.Contains(t, out, "максимальном тарифе")
	assert.NotContains(t, out, "К оплате")
}

func TestUpgradeKeyboardPayOnlyWhenReady(t *testing.T) {
	opts := &subscriptions.UpgradeOptions{UpgradeOptions: []plans.Plan{{ID: "pro", Name: "Pro"}}}

	hasPay := func(snap subscriptions.Snapshot) bool {
		for _, row := range upgradeKeyboard(snap).InlineKeyboard {
			for _, btn := range row {
				if btn.CallbackData != nil && *btn.CallbackData == "up:pay" {
					return true
				}
			}
		}
		return false
	}
	assert.False(t, hasPay(subscriptions.Snapshot{Phase: subscriptions.PhasePlanSelected, Options: opts, PlanID: "pro"}))
	assert.True(t, hasPay(subscriptions.Snapshot{
		Phase: subscriptions.PhaseCalculationReady, Options: opts, PlanID: "pro",
		Calculation: &subscriptions.UpgradeCalculation{TotalUpgradeCost: 10},
	}))
}

func TestMenuKeyboardRowPerGroup(t *testing.T) {
	items := menu.Filter(menu.Console, menu.ForAccess(map[string]bool{}, false))
	kb := menuKeyboard(items)

	// без фич и без роли супер-админа: «Оплата» и «Настройки»
	if assert.Len(t, kb.Keyboard, 2) {
		assert.Equal(t, "Моя подписка", kb.Keyboard[0][0].Text)
		assert.Len(t, kb.Keyboard[0], 3)
		assert.Equal(t, "Выйти", kb.Keyboard[1][1].Text)
	}
	assert.True(t, kb.ResizeKeyboard)
}
