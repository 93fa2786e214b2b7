package theme

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo — настройки пользователя в таблице preferences.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Get(ctx context.Context, chatID int64, key string) (string, bool, error) {
	var v string
	err := r.pool.QueryRow(ctx, `SELECT value FROM preferences WHERE chat_id = $1 AND key = $2`, chatID, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Repo) Set(ctx context.Context, chatID int64, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO preferences (chat_id, key, value, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (chat_id, key) DO UPDATE SET
		  value=$3, updated_at=now()
	`, chatID, key, value)
	return err
}
