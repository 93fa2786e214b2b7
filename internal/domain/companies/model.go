package companies

import (
	"strings"

	"github.com/Spok95/payroll-console/internal/apperr"
)

type Company struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	TaxID              string `json:"tax_id"`
	IsActive           bool   `json:"is_active"`
	PlanID             string `json:"plan_id,omitempty"`
	PlanName           string `json:"plan_name,omitempty"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
	EmployeeCount      int    `json:"employee_count,omitempty"`
}

// Field — редактируемое поле карточки компании.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
	FieldTaxID   Field = "tax_id"
	FieldActive  Field = "is_active"
)

// EditableFields — порядок кнопок в карточке.
var EditableFields = []Field{FieldName, FieldEmail, FieldPhone, FieldAddress, FieldTaxID, FieldActive}

func (f Field) Title() string {
	switch f {
	case FieldName:
		return "Название"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Телефон"
	case FieldAddress:
		return "Адрес"
	case FieldTaxID:
		return "ИНН/GSTIN"
	case FieldActive:
		return "Активна"
	}
	return string(f)
}

// Update — тело PUT /api/super-admin/companies/{id}; nil-поля не отправляются.
type Update struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	TaxID    *string `json:"tax_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// BuildUpdate собирает изменение одного поля из текстового ввода.
func BuildUpdate(field Field, value string) (Update, error) {
	v := strings.TrimSpace(value)
	var u Update
	switch field {
	case FieldName:
		if v == "" {
			return u, apperr.Invalid(string(field), "Название не может быть пустым")
		}
		u.Name = &v
	case FieldEmail:
		if !strings.Contains(v, "@") || strings.HasPrefix(v, "@") || strings.HasSuffix(v, "@") {
			return u, apperr.Invalid(string(field), "Некорректный email")
		}
		u.Email = &v
	case FieldPhone:
		u.Phone = &v
	case FieldAddress:
		u.Address = &v
	case FieldTaxID:
		v = strings.ToUpper(v)
		u.TaxID = &v
	case FieldActive:
		switch strings.ToLower(v) {
		case "1", "true", "да", "yes", "on":
			b := true
			u.IsActive = &b
		case "0", "false", "нет", "no", "off":
			b := false
			u.IsActive = &b
		default:
			return u, apperr.Invalid(string(field), "Ответьте «да» или «нет»")
		}
	default:
		return u, apperr.Invalid(string(field), "Это поле нельзя изменить")
	}
	return u, nil
}

// Apply применяет изменение к локальной копии (для показа до перечитывания).
func (c Company) Apply(u Update) Company {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.Address != nil {
		c.Address = *u.Address
	}
	if u.TaxID != nil {
		c.TaxID = *u.TaxID
	}
	if u.IsActive != nil {
		c.IsActive = *u.IsActive
	}
	return c
}
