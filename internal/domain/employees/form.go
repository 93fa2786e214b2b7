package employees

import (
	"context"
	"time"

	"github.com/Spok95/payroll-console/internal/apperr"
)

type Backend interface {
	UpdateEmployeeStatus(ctx context.Context, employeeID string, p StatusPayload) error
}

// Form — форма смены статуса одного сотрудника.
// При ошибке введённые значения не сбрасываются.
type Form struct {
	EmployeeID string
	Current    Status
	Change     StatusChange

	Submitting bool
	LastError  string
}

func NewForm(e Employee) *Form {
	return &Form{
		EmployeeID: e.ID,
		Current:    e.Status,
		Change:     StatusChange{Target: e.Status},
	}
}

// Targets — статусы, доступные для выбора (все три, независимо от текущего).
func (f *Form) Targets() []Status {
	out := make([]Status, len(Statuses))
	copy(out, Statuses)
	return out
}

// Submit отправляет смену статуса. refresh вызывается только при успехе.
func (f *Form) Submit(ctx context.Context, backend Backend, today time.Time, refresh func()) error {
	payload, err := f.Change.Payload(today)
	if err != nil {
		f.LastError = apperr.Message(err)
		return err
	}

	f.Submitting = true
	err = backend.UpdateEmployeeStatus(ctx, f.EmployeeID, payload)
	f.Submitting = false
	if err != nil {
		f.LastError = apperr.Message(err)
		return err
	}

	f.LastError = ""
	f.Current = f.Change.Target
	if refresh != nil {
		refresh()
	}
	return nil
}
