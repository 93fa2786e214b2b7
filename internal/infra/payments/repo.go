package payments

import (
	"context"
	"errors"
	"time"

	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, in Intent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO checkout_intents
		  (id, chat_id, kind, plan_id, billing_cycle, order_id, amount_minor, currency, description, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
	`, in.ID, in.ChatID, in.Kind, in.PlanID, string(in.Cycle), in.OrderID,
		in.AmountMinor, in.Currency, in.Description, string(in.Status), in.CreatedAt)
	return err
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*Intent, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT chat_id, kind, plan_id, billing_cycle, order_id, amount_minor,
		       currency, description, status, payment_id, created_at
		FROM checkout_intents WHERE id = $1
	`, id)

	in := Intent{ID: id}
	var cycle, status string
	err := row.Scan(&in.ChatID, &in.Kind, &in.PlanID, &cycle, &in.OrderID, &in.AmountMinor,
		&in.Currency, &in.Description, &status, &in.PaymentID, &in.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	in.Cycle = subscriptions.BillingCycle(cycle)
	in.Status = IntentStatus(status)
	return &in, nil
}

func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status IntentStatus, paymentID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE checkout_intents
		SET status = $2, payment_id = $3, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id, string(status), paymentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repo) PurgeStale(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM checkout_intents WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
