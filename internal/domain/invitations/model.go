package invitations

import (
	"time"
	"unicode/utf8"

	"github.com/Spok95/payroll-console/internal/apperr"
)

const MinPasswordLen = 8

type Invitation struct {
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name"`
	Role        string    `json:"role"`
	InvitedBy   string    `json:"invited_by,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// User — профиль, который бэкенд возвращает после принятия приглашения.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
}

const RoleSuperAdmin = "super_admin"

func (u User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

// Credentials — ответ POST /api/invitations/accept.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	User         User   `json:"user"`
}

// ValidatePassword — локальная проверка до отправки на сервер.
func ValidatePassword(password, confirm string) error {
	if password == "" {
		return apperr.Invalid("password", "Введите пароль")
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return apperr.Invalid("password", "Пароль должен быть не короче 8 символов")
	}
	if password != confirm {
		return apperr.Invalid("confirm_password", "Пароли не совпадают")
	}
	return nil
}
