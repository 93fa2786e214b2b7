package session

import (
	"context"
	"errors"
	"time"

	"github.com/Spok95/payroll-console/internal/domain/invitations"
	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("session: not found")

// Session — токены и профиль пользователя, привязанные к чату.
// Живёт фиксированное время с момента входа.
type Session struct {
	ChatID       int64
	AccessToken  string
	RefreshToken string
	User         invitations.User
	ExpiresAt    time.Time
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

func New(chatID int64, c invitations.Credentials, now time.Time, ttl time.Duration) Session {
	return Session{
		ChatID:       chatID,
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		User:         c.User,
		ExpiresAt:    now.Add(ttl),
	}
}

type Repo struct {
	pool *pgxpool.Pool
	ttl  time.Duration
	now  func() time.Time
}

func NewRepo(pool *pgxpool.Pool, ttl time.Duration) *Repo {
	return &Repo{pool: pool, ttl: ttl, now: time.Now}
}

// SaveCredentials сохраняет результат входа по приглашению.
func (r *Repo) SaveCredentials(ctx context.Context, chatID int64, c invitations.Credentials) error {
	return r.Save(ctx, New(chatID, c, r.now(), r.ttl))
}

func (r *Repo) Save(ctx context.Context, s Session) error {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO sessions (chat_id, access_token, refresh_token, user_json, expires_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (chat_id) DO UPDATE SET
		  access_token=$2, refresh_token=$3, user_json=$4, expires_at=$5, created_at=now()
	`, s.ChatID, s.AccessToken, s.RefreshToken, userJSON, s.ExpiresAt)
	return err
}

// Get возвращает живую сессию; истёкшая считается отсутствующей.
func (r *Repo) Get(ctx context.Context, chatID int64) (*Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT access_token, refresh_token, user_json, expires_at
		FROM sessions WHERE chat_id = $1
	`, chatID)

	s := Session{ChatID: chatID}
	var raw []byte
	if err := row.Scan(&s.AccessToken, &s.RefreshToken, &raw, &s.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.Expired(r.now()) {
		return nil, ErrNotFound
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.User); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *Repo) Delete(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE chat_id = $1`, chatID)
	return err
}

// PurgeExpired удаляет истёкшие сессии, возвращает количество.
func (r *Repo) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
