package invitations

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/payroll-console/internal/apperr"
)

type State string

const (
	StateVerifying  State = "verifying"
	StateValid      State = "valid"
	StateInvalid    State = "invalid"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

// RedirectDashboard — куда отправляем пользователя после успеха.
const RedirectDashboard = "dashboard"

var ErrWrongState = errors.New("invitations: operation not allowed in current state")

type Backend interface {
	VerifyInvitation(ctx context.Context, token string) (*Invitation, error)
	AcceptInvitation(ctx context.Context, token, password string) (*Credentials, error)
}

// TokenStore сохраняет выданные токены и профиль (аналог cookies).
type TokenStore interface {
	SaveCredentials(ctx context.Context, owner int64, c Credentials) error
}

// SaveFailedMessage — приглашение принято, но вход не сохранился.
const SaveFailedMessage = "Приглашение принято, но войти не удалось. Войдите в консоль заново с паролем, который вы задали."

// Flow — принятие одного приглашения. Токен одноразовый: если он
// недействителен, повторить с ним ничего нельзя.
type Flow struct {
	backend Backend
	store   TokenStore
	owner   int64

	Token      string
	State      State
	Invitation *Invitation
	LastError  string
}

func NewFlow(backend Backend, store TokenStore, owner int64, token string) *Flow {
	return &Flow{backend: backend, store: store, owner: owner, Token: token, State: StateVerifying}
}

// Verify проверяет токен; форма пароля показывается только после valid.
func (f *Flow) Verify(ctx context.Context) error {
	if f.State != StateVerifying {
		return ErrWrongState
	}
	if f.Token == "" {
		f.State = StateInvalid
		f.LastError = "Ссылка приглашения неполная"
		return apperr.Invalid("token", f.LastError)
	}
	inv, err := f.backend.VerifyInvitation(ctx, f.Token)
	if err != nil {
		f.State = StateInvalid
		f.LastError = apperr.Message(err)
		return fmt.Errorf("verify invitation: %w", err)
	}
	f.Invitation = inv
	f.State = StateValid
	return nil
}

// Submit проверяет пароль локально, затем принимает приглашение и сохраняет токены.
// Возвращает, куда перейти после успеха.
func (f *Flow) Submit(ctx context.Context, password, confirm string) (string, error) {
	if f.State != StateValid {
		return "", ErrWrongState
	}
	if err := ValidatePassword(password, confirm); err != nil {
		f.LastError = apperr.Message(err)
		return "", err
	}

	f.State = StateSubmitting
	creds, err := f.backend.AcceptInvitation(ctx, f.Token, password)
	if err != nil {
		f.State = StateValid
		f.LastError = apperr.Message(err)
		return "", fmt.Errorf("accept invitation: %w", err)
	}
	if err := f.store.SaveCredentials(ctx, f.owner, *creds); err != nil {
		// токен уже погашен бэкендом: повторная отправка не пройдёт
		f.State = StateInvalid
		f.LastError = SaveFailedMessage
		return "", fmt.Errorf("save credentials: %w", err)
	}

	f.State = StateSuccess
	f.LastError = ""
	return RedirectDashboard, nil
}
