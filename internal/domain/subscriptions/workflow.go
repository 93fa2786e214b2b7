package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Spok95/payroll-console/internal/apperr"
	"github.com/Spok95/payroll-console/internal/domain/plans"
)

type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseOptionsLoaded     Phase = "options-loaded"
	PhaseHighestPlan       Phase = "highest-plan"
	PhasePlanSelected      Phase = "plan-selected"
	PhaseCalculating       Phase = "calculating"
	PhaseCalculationReady  Phase = "calculation-ready"
	PhaseProcessingPayment Phase = "processing-payment"
	PhaseDone              Phase = "done"
)

const (
	CheckoutUpgrade   = "upgrade"
	CheckoutSubscribe = "subscribe"
)

var (
	ErrHighestPlan = errors.New("subscriptions: already on the highest plan")
	ErrSuperseded  = errors.New("subscriptions: calculation superseded by a newer request")
	ErrUnknownPlan = errors.New("subscriptions: plan is not an upgrade option")
)

// PhaseError — операция недопустима в текущей фазе.
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("subscriptions: %s not allowed in phase %s", e.Op, e.Phase)
}

type Backend interface {
	UpgradeOptions(ctx context.Context) (*UpgradeOptions, error)
	CalculateUpgrade(ctx context.Context, planID string, cycle BillingCycle) (*UpgradeCalculation, error)
	Upgrade(ctx context.Context, planID, paymentID string) error
}

type CheckoutRequest struct {
	Owner       int64
	Kind        string
	PlanID      string
	PlanName    string
	Cycle       BillingCycle
	OrderID     string
	AmountMinor int64
	Description string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Checkout открывает внешнюю форму оплаты.
type Checkout interface {
	Open(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

type Snapshot struct {
	Phase       Phase
	Options     *UpgradeOptions
	PlanID      string
	Cycle       BillingCycle
	Calculation *UpgradeCalculation
	Checkout    *CheckoutSession
	LastError   string
}

// Workflow — апгрейд тарифа: выбор плана и цикла, расчёт доплаты сервером,
// оплата, подтверждение.
//
// Каждый расчёт получает порядковый номер; ответ принимается, только если
// его номер последний выданный. Так показывается расчёт для последнего выбора
// пользователя, даже если ответы пришли не по порядку.
type Workflow struct {
	owner    int64
	backend  Backend
	checkout Checkout
	observer func(from, to Phase)

	mu         sync.Mutex
	phase      Phase
	options    *UpgradeOptions
	planID     string
	cycle      BillingCycle
	calc       *UpgradeCalculation
	seq        uint64
	session    *CheckoutSession
	confirming bool
	lastErr    string
}

func NewWorkflow(owner int64, backend Backend, checkout Checkout) *Workflow {
	return &Workflow{owner: owner, backend: backend, checkout: checkout, phase: PhaseIdle, cycle: CycleMonthly}
}

// OnTransition задаёт наблюдателя смены фаз. Вызывается под блокировкой,
// поэтому обратно в Workflow из него ходить нельзя.
func (w *Workflow) OnTransition(fn func(from, to Phase)) {
	w.mu.Lock()
	w.observer = fn
	w.mu.Unlock()
}

func (w *Workflow) setPhase(p Phase) {
	if w.phase == p {
		return
	}
	from := w.phase
	w.phase = p
	if w.observer != nil {
		w.observer(from, p)
	}
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		Phase:     w.phase,
		Options:   w.options,
		PlanID:    w.planID,
		Cycle:     w.cycle,
		LastError: w.lastErr,
	}
	if w.calc != nil {
		c := *w.calc
		s.Calculation = &c
	}
	if w.session != nil {
		cs := *w.session
		s.Checkout = &cs
	}
	return s
}

// Load загружает текущий план и варианты апгрейда.
// Пустой список вариантов — конечное состояние «уже на максимальном тарифе».
func (w *Workflow) Load(ctx context.Context) (*UpgradeOptions, error) {
	w.mu.Lock()
	if w.phase != PhaseIdle {
		ph := w.phase
		w.mu.Unlock()
		return nil, &PhaseError{Op: "load", Phase: ph}
	}
	w.mu.Unlock()

	opts, err := w.backend.UpgradeOptions(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.lastErr = apperr.Message(err)
		return nil, fmt.Errorf("load upgrade options: %w", err)
	}
	w.options = opts
	w.lastErr = ""
	if opts.CurrentBillingCycle.Valid() {
		w.cycle = opts.CurrentBillingCycle
	}
	if len(opts.UpgradeOptions) == 0 {
		w.setPhase(PhaseHighestPlan)
		return opts, ErrHighestPlan
	}
	w.setPhase(PhaseOptionsLoaded)
	return opts, nil
}

func (w *Workflow) ensureSelectable(op string) error {
	switch w.phase {
	case PhaseOptionsLoaded, PhasePlanSelected, PhaseCalculating, PhaseCalculationReady:
		return nil
	case PhaseHighestPlan:
		return ErrHighestPlan
	}
	return &PhaseError{Op: op, Phase: w.phase}
}

// begin сбрасывает прежний расчёт и выдаёт номер нового запроса.
func (w *Workflow) begin() uint64 {
	w.calc = nil
	w.lastErr = ""
	w.seq++
	w.setPhase(PhaseCalculating)
	return w.seq
}

// SelectPlan выбирает план и запрашивает расчёт с текущим циклом.
func (w *Workflow) SelectPlan(ctx context.Context, planID string) (*UpgradeCalculation, error) {
	w.mu.Lock()
	if err := w.ensureSelectable("select plan"); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if _, ok := plans.Find(w.options.UpgradeOptions, planID); !ok {
		w.mu.Unlock()
		return nil, ErrUnknownPlan
	}
	w.planID = planID
	w.setPhase(PhasePlanSelected)
	seq := w.begin()
	cycle := w.cycle
	w.mu.Unlock()

	return w.calculate(ctx, seq, planID, cycle)
}

// SetCycle меняет цикл оплаты. Если план уже выбран — расчёт перезапрашивается
// с тем же планом и новым циклом; иначе возвращает nil без запроса.
func (w *Workflow) SetCycle(ctx context.Context, cycle BillingCycle) (*UpgradeCalculation, error) {
	if !cycle.Valid() {
		return nil, apperr.Invalid("billing_cycle", "Неизвестный период оплаты")
	}
	w.mu.Lock()
	if err := w.ensureSelectable("change cycle"); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.cycle = cycle
	if w.planID == "" {
		w.mu.Unlock()
		return nil, nil
	}
	planID := w.planID
	seq := w.begin()
	w.mu.Unlock()

	return w.calculate(ctx, seq, planID, cycle)
}

func (w *Workflow) calculate(ctx context.Context, seq uint64, planID string, cycle BillingCycle) (*UpgradeCalculation, error) {
	calc, err := w.backend.CalculateUpgrade(ctx, planID, cycle)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.seq {
		return nil, ErrSuperseded
	}
	if err != nil {
		w.lastErr = apperr.Message(err)
		w.setPhase(PhasePlanSelected)
		return nil, fmt.Errorf("calculate upgrade: %w", err)
	}
	w.calc = calc
	w.setPhase(PhaseCalculationReady)
	c := *calc
	return &c, nil
}

// StartPayment открывает форму оплаты на посчитанную сумму.
func (w *Workflow) StartPayment(ctx context.Context) (*CheckoutSession, error) {
	w.mu.Lock()
	if w.phase != PhaseCalculationReady || w.calc == nil {
		ph := w.phase
		w.mu.Unlock()
		return nil, &PhaseError{Op: "start payment", Phase: ph}
	}
	calc := *w.calc
	req := CheckoutRequest{
		Owner:       w.owner,
		Kind:        CheckoutUpgrade,
		PlanID:      w.planID,
		PlanName:    calc.TargetPlan.Name,
		Cycle:       w.cycle,
		AmountMinor: MinorUnits(calc.TotalUpgradeCost),
		Description: fmt.Sprintf("Переход на тариф %s (%s)", strings.TrimSpace(calc.TargetPlan.Name), w.cycle.Title()),
	}
	w.lastErr = ""
	w.setPhase(PhaseProcessingPayment)
	w.mu.Unlock()

	sess, err := w.checkout.Open(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.lastErr = apperr.Message(err)
		w.setPhase(PhaseCalculationReady)
		return nil, fmt.Errorf("open checkout: %w", err)
	}
	w.session = sess
	s := *sess
	return &s, nil
}

// ConfirmPayment отправляет id платежа на бэкенд. При отказе возвращаемся
// к готовому расчёту, чтобы можно было повторить.
func (w *Workflow) ConfirmPayment(ctx context.Context, paymentID string) error {
	w.mu.Lock()
	if w.phase != PhaseProcessingPayment || w.confirming {
		ph := w.phase
		w.mu.Unlock()
		return &PhaseError{Op: "confirm payment", Phase: ph}
	}
	if strings.TrimSpace(paymentID) == "" {
		w.mu.Unlock()
		return apperr.Invalid("payment_id", "Платёж не подтверждён")
	}
	w.confirming = true
	planID := w.planID
	w.mu.Unlock()

	err := FinalizeUpgrade(ctx, w.backend, planID, paymentID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.confirming = false
	w.session = nil
	if err != nil {
		w.lastErr = apperr.Message(err)
		w.setPhase(PhaseCalculationReady)
		return err
	}
	w.lastErr = ""
	w.setPhase(PhaseDone)
	return nil
}

// CancelPayment — пользователь закрыл форму оплаты.
func (w *Workflow) CancelPayment() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseProcessingPayment || w.confirming {
		return &PhaseError{Op: "cancel payment", Phase: w.phase}
	}
	w.session = nil
	w.lastErr = "Оплата отменена"
	w.setPhase(PhaseCalculationReady)
	return nil
}

// FinalizeUpgrade — подтверждение апгрейда на бэкенде. Используется и без
// живого Workflow (например, после перезапуска процесса).
func FinalizeUpgrade(ctx context.Context, backend Backend, planID, paymentID string) error {
	if planID == "" || paymentID == "" {
		return apperr.Invalid("payment_id", "Платёж не подтверждён")
	}
	if err := backend.Upgrade(ctx, planID, paymentID); err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}
	return nil
}
