package employees

import (
	"strings"
	"time"

	"github.com/Spok95/payroll-console/internal/apperr"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusResigned   Status = "resigned"
	StatusTerminated Status = "terminated"
)

// Statuses — все статусы в порядке показа. Переходы не ограничиваются:
// из любого статуса можно выбрать любой.
var Statuses = []Status{StatusActive, StatusResigned, StatusTerminated}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusResigned, StatusTerminated:
		return true
	}
	return false
}

// RequiresReason — для увольнения причина обязательна.
func (s Status) RequiresReason() bool {
	return s == StatusResigned || s == StatusTerminated
}

func (s Status) Title() string {
	switch s {
	case StatusActive:
		return "Работает"
	case StatusResigned:
		return "Уволился по собственному"
	case StatusTerminated:
		return "Уволен"
	}
	return string(s)
}

const DateLayout = "2006-01-02"

type Employee struct {
	ID              string `json:"id"`
	EmployeeCode    string `json:"employee_code,omitempty"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email,omitempty"`
	Department      string `json:"department,omitempty"`
	Designation     string `json:"designation,omitempty"`
	Status          Status `json:"status"`
	StatusReason    string `json:"status_reason,omitempty"`
	ResignationDate string `json:"resignation_date,omitempty"`
	TerminationDate string `json:"termination_date,omitempty"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// StatusChange — то, что администратор ввёл в форме.
type StatusChange struct {
	Target        Status
	Reason        string
	EffectiveDate string // YYYY-MM-DD, пусто — сегодня
}

// StatusPayload — тело PUT /api/employees/{id}/status.
type StatusPayload struct {
	Status          Status `json:"status"`
	StatusReason    string `json:"status_reason"`
	ResignationDate string `json:"resignation_date,omitempty"`
	TerminationDate string `json:"termination_date,omitempty"`
}

// Validate проверяет ввод до обращения к бэкенду.
func (c StatusChange) Validate() error {
	if !c.Target.Valid() {
		return apperr.Invalid("status", "Выберите статус")
	}
	if c.Target.RequiresReason() && strings.TrimSpace(c.Reason) == "" {
		return apperr.Invalid("status_reason", "Укажите причину изменения статуса")
	}
	if d := strings.TrimSpace(c.EffectiveDate); d != "" {
		if _, err := time.Parse(DateLayout, d); err != nil {
			return apperr.Invalid("effective_date", "Дата должна быть в формате ГГГГ-ММ-ДД")
		}
	}
	return nil
}

// Payload собирает тело запроса; дата попадает в resignation_date или
// termination_date в зависимости от целевого статуса.
func (c StatusChange) Payload(today time.Time) (StatusPayload, error) {
	if err := c.Validate(); err != nil {
		return StatusPayload{}, err
	}
	p := StatusPayload{
		Status:       c.Target,
		StatusReason: strings.TrimSpace(c.Reason),
	}
	date := strings.TrimSpace(c.EffectiveDate)
	if date == "" {
		date = today.Format(DateLayout)
	}
	switch c.Target {
	case StatusResigned:
		p.ResignationDate = date
	case StatusTerminated:
		p.TerminationDate = date
	}
	return p, nil
}
