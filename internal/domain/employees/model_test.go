package employees

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spok95/payroll-console/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	calls   int
	gotID   string
	gotBody StatusPayload
	err     error
}

func (f *fakeBackend) UpdateEmployeeStatus(_ context.Context, id string, p StatusPayload) error {
	f.calls++
	f.gotID = id
	f.gotBody = p
	return f.err
}

var today = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestValidate_ReasonRequiredForLeaving(t *testing.T) {
	for _, target := range []Status{StatusResigned, StatusTerminated} {
		for _, reason := range []string{"", "   ", "\t\n"} {
			err := StatusChange{Target: target, Reason: reason}.Validate()
			var ve *apperr.Validation
			require.ErrorAs(t, err, &ve, "target=%s reason=%q", target, reason)
			assert.Equal(t, "status_reason", ve.Field)
		}
	}
}

func TestValidate_ActiveIgnoresReason(t *testing.T) {
	for _, reason := range []string{"", "  ", "rehired"} {
		assert.NoError(t, StatusChange{Target: StatusActive, Reason: reason}.Validate())
	}
}

func TestValidate_DateFormat(t *testing.T) {
	err := StatusChange{Target: StatusResigned, Reason: "moving", EffectiveDate: "15.01.2024"}.Validate()
	require.Error(t, err)

	assert.NoError(t, StatusChange{Target: StatusResigned, Reason: "moving", EffectiveDate: "2024-01-15"}.Validate())
}

func TestPayload_DateMapping(t *testing.T) {
	p, err := StatusChange{Target: StatusTerminated, Reason: "performance", EffectiveDate: "2024-01-15"}.Payload(today)
	require.NoError(t, err)
	assert.Equal(t, StatusPayload{
		Status:          StatusTerminated,
		StatusReason:    "performance",
		TerminationDate: "2024-01-15",
	}, p)

	p, err = StatusChange{Target: StatusResigned, Reason: "relocation"}.Payload(today)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", p.ResignationDate)
	assert.Empty(t, p.TerminationDate)

	p, err = StatusChange{Target: StatusActive, EffectiveDate: "2024-01-15"}.Payload(today)
	require.NoError(t, err)
	assert.Empty(t, p.ResignationDate)
	assert.Empty(t, p.TerminationDate)
}

func TestForm_SubmitSuccessRefreshes(t *testing.T) {
	f := NewForm(Employee{ID: "emp-1", Status: StatusActive})
	f.Change = StatusChange{Target: StatusTerminated, Reason: "performance", EffectiveDate: "2024-01-15"}

	be := &fakeBackend{}
	refreshed := 0
	require.NoError(t, f.Submit(context.Background(), be, today, func() { refreshed++ }))

	assert.Equal(t, 1, refreshed)
	assert.Equal(t, "emp-1", be.gotID)
	assert.Equal(t, "2024-01-15", be.gotBody.TerminationDate)
	assert.Equal(t, StatusTerminated, f.Current)
	assert.Empty(t, f.LastError)
}

func TestForm_ValidationBlocksRequest(t *testing.T) {
	f := NewForm(Employee{ID: "emp-1", Status: StatusActive})
	f.Change = StatusChange{Target: StatusResigned, Reason: " "}

	be := &fakeBackend{}
	err := f.Submit(context.Background(), be, today, func() { t.Fatal("refresh must not run") })
	require.Error(t, err)
	assert.Zero(t, be.calls)
	assert.Equal(t, "Укажите причину изменения статуса", f.LastError)
}

func TestForm_BackendRejectionKeepsInput(t *testing.T) {
	f := NewForm(Employee{ID: "emp-7", Status: StatusResigned})
	change := StatusChange{Target: StatusTerminated, Reason: "misconduct", EffectiveDate: "2024-02-02"}
	f.Change = change

	be := &fakeBackend{err: &apperr.Backend{Status: 400, Detail: "Termination date before joining date"}}
	err := f.Submit(context.Background(), be, today, nil)
	require.Error(t, err)

	assert.Equal(t, change, f.Change)
	assert.Equal(t, StatusResigned, f.Current)
	assert.Equal(t, "Termination date before joining date", f.LastError)
	assert.False(t, f.Submitting)
}

func TestForm_TargetsAreUnrestricted(t *testing.T) {
	for _, cur := range Statuses {
		f := NewForm(Employee{ID: "e", Status: cur})
		assert.ElementsMatch(t, Statuses, f.Targets())
	}
}

func TestForm_NetworkErrorMessage(t *testing.T) {
	f := NewForm(Employee{ID: "e", Status: StatusActive})
	f.Change = StatusChange{Target: StatusActive}
	err := f.Submit(context.Background(), &fakeBackend{err: errors.New("eof")}, today, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.GenericMessage, f.LastError)
}
