package subscriptions

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/payroll-console/internal/apperr"
	"github.com/Spok95/payroll-console/internal/domain/plans"
)

type PurchaseBackend interface {
	CreateSubscription(ctx context.Context, planID string, cycle BillingCycle) (*Order, error)
	VerifyPayment(ctx context.Context, proof PaymentProof) (*CompanyStatus, error)
}

// StartPurchase оформляет подписку из триала/истёкшего статуса:
// создаёт заказ на бэкенде и открывает оплату на сумму заказа.
func StartPurchase(ctx context.Context, backend PurchaseBackend, checkout Checkout, owner int64, plan plans.Plan, cycle BillingCycle) (*Order, *CheckoutSession, error) {
	if plan.ID == "" {
		return nil, nil, apperr.Invalid("plan_id", "Выберите тариф")
	}
	if !cycle.Valid() {
		return nil, nil, apperr.Invalid("billing_cycle", "Выберите период оплаты")
	}

	order, err := backend.CreateSubscription(ctx, plan.ID, cycle)
	if err != nil {
		return nil, nil, fmt.Errorf("create subscription: %w", err)
	}

	sess, err := checkout.Open(ctx, CheckoutRequest{
		Owner:       owner,
		Kind:        CheckoutSubscribe,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		Cycle:       cycle,
		OrderID:     order.OrderID,
		AmountMinor: MinorUnits(order.Amount),
		Description: fmt.Sprintf("Подписка %s (%s)", strings.TrimSpace(plan.Name), cycle.Title()),
	})
	if err != nil {
		return order, nil, fmt.Errorf("open checkout: %w", err)
	}
	return order, sess, nil
}

// CompletePurchase передаёт подтверждение оплаты на проверку бэкенду.
func CompletePurchase(ctx context.Context, backend PurchaseBackend, proof PaymentProof) (*CompanyStatus, error) {
	if proof.OrderID == "" || proof.PaymentID == "" {
		return nil, apperr.Invalid("payment_id", "Платёж не подтверждён")
	}
	st, err := backend.VerifyPayment(ctx, proof)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}
	return st, nil
}
