// Package payments — страница оплаты с виджетом платёжного провайдера
// и обработка его колбэков.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/payroll-console/internal/apperr"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/google/uuid"
)

type IntentStatus string

const (
	StatusPending   IntentStatus = "pending"
	StatusPaid      IntentStatus = "paid"
	StatusDismissed IntentStatus = "dismissed"
)

var ErrNotFound = errors.New("payments: intent not found")

// Intent — одна попытка оплаты, открытая из чата.
type Intent struct {
	ID          uuid.UUID
	ChatID      int64
	Kind        string
	PlanID      string
	Cycle       subscriptions.BillingCycle
	OrderID     string
	AmountMinor int64
	Currency    string
	Description string
	Status      IntentStatus
	PaymentID   string
	CreatedAt   time.Time
}

// AmountText — сумма в основных единицах для показа.
func (in Intent) AmountText() string {
	return fmt.Sprintf("%d.%02d %s", in.AmountMinor/100, in.AmountMinor%100, in.Currency)
}

type Store interface {
	Create(ctx context.Context, in Intent) error
	Get(ctx context.Context, id uuid.UUID) (*Intent, error)
	// SetStatus переводит intent из pending; false — уже обработан раньше.
	SetStatus(ctx context.Context, id uuid.UUID, status IntentStatus, paymentID string) (bool, error)
	PurgeStale(ctx context.Context, before time.Time) (int64, error)
}

type Service struct {
	store     Store
	publicURL string
	currency  string
	now       func() time.Time
}

func NewService(store Store, publicURL, currency string) *Service {
	return &Service{
		store:     store,
		publicURL: strings.TrimRight(publicURL, "/"),
		currency:  currency,
		now:       time.Now,
	}
}

// CheckoutURL — ссылка на страницу оплаты intent'а.
func (s *Service) CheckoutURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/checkout/%s", s.publicURL, id)
}

// Open создаёт intent и возвращает ссылку на страницу оплаты.
func (s *Service) Open(ctx context.Context, req subscriptions.CheckoutRequest) (*subscriptions.CheckoutSession, error) {
	if req.AmountMinor <= 0 {
		return nil, apperr.Invalid("amount", "Сумма к оплате должна быть больше нуля")
	}
	in := Intent{
		ID:          uuid.New(),
		ChatID:      req.Owner,
		Kind:        req.Kind,
		PlanID:      req.PlanID,
		Cycle:       req.Cycle,
		OrderID:     req.OrderID,
		AmountMinor: req.AmountMinor,
		Currency:    s.currency,
		Description: req.Description,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.store.Create(ctx, in); err != nil {
		return nil, fmt.Errorf("create checkout intent: %w", err)
	}
	return &subscriptions.CheckoutSession{ID: in.ID.String(), URL: s.CheckoutURL(in.ID)}, nil
}

// PurgeStale удаляет intent'ы старше ttl.
func (s *Service) PurgeStale(ctx context.Context, ttl time.Duration) (int64, error) {
	return s.store.PurgeStale(ctx, s.now().Add(-ttl))
}

var _ subscriptions.Checkout = (*Service)(nil)
