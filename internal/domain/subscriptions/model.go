package subscriptions

import (
	"math"
	"time"

	"github.com/Spok95/payroll-console/internal/domain/plans"
)

type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

func (c BillingCycle) Valid() bool { return c == CycleMonthly || c == CycleAnnual }

func (c BillingCycle) Title() string {
	if c == CycleAnnual {
		return "за год"
	}
	return "помесячно"
}

// Other — переключатель месяц/год.
func (c BillingCycle) Other() BillingCycle {
	if c == CycleAnnual {
		return CycleMonthly
	}
	return CycleAnnual
}

type Status string

const (
	StatusTrial   Status = "trial"
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// CompanyStatus — ответ GET /api/subscription/status.
type CompanyStatus struct {
	CompanyID       string       `json:"company_id"`
	Status          Status       `json:"status"`
	Plan            *plans.Plan  `json:"plan"`
	BillingCycle    BillingCycle `json:"billing_cycle"`
	TrialEndsAt     *time.Time   `json:"trial_ends_at"`
	NextBillingDate *time.Time   `json:"next_billing_date"`
	EmployeeCount   int          `json:"employee_count"`
}

// NeedsPurchase — триал или истёкшая подписка: нужно оформлять, а не апгрейдить.
func (s CompanyStatus) NeedsPurchase() bool {
	return s.Status == StatusTrial || s.Status == StatusExpired
}

func (s CompanyStatus) TrialDaysLeft(now time.Time) int {
	if s.TrialEndsAt == nil {
		return 0
	}
	d := s.TrialEndsAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// UpgradeOptions — ответ GET /api/subscription/upgrade-options.
type UpgradeOptions struct {
	CurrentPlan         *plans.Plan  `json:"current_plan"`
	CurrentBillingCycle BillingCycle `json:"current_billing_cycle"`
	UpgradeOptions      []plans.Plan `json:"upgrade_options"`
}

// UpgradeCalculation — расчёт доплаты, посчитанный сервером. Только для показа.
type UpgradeCalculation struct {
	EmployeeCount          int          `json:"employee_count"`
	DaysRemaining          int          `json:"days_remaining"`
	PriceDifferencePerUser float64      `json:"price_difference_per_user"`
	ProratedAmountPerUser  float64      `json:"prorated_amount_per_user"`
	TotalUpgradeCost       float64      `json:"total_upgrade_cost"`
	NextBillingDate        string       `json:"next_billing_date"`
	NewBillingCycle        BillingCycle `json:"new_billing_cycle,omitempty"`
	TargetPlan             plans.Plan   `json:"target_plan"`
}

// MinorUnits переводит сумму в копейки/пайсы для виджета оплаты.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Order — ответ POST /api/subscription/create.
type Order struct {
	OrderID      string       `json:"order_id"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	PlanID       string       `json:"plan_id"`
	BillingCycle BillingCycle `json:"billing_cycle"`
}

// PaymentProof — тело POST /api/subscription/verify-payment.
type PaymentProof struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}
