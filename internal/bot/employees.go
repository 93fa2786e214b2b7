package bot

import (
	"context"
	"strings"
	"time"

	"github.com/Spok95/payroll-console/internal/dialog"
	"github.com/Spok95/payroll-console/internal/domain/employees"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// skipInput — ввод «-» означает «оставить пустым».
const skipInput = "-"

func formFromPayload(p dialog.Payload) (*employees.Form, string) {
	id, _ := dialog.GetString(p, "emp_id")
	name, _ := dialog.GetString(p, "emp_name")
	cur, _ := dialog.GetString(p, "current")
	target, _ := dialog.GetString(p, "target")
	date, _ := dialog.GetString(p, "date")
	reason, _ := dialog.GetString(p, "reason")

	f := employees.NewForm(employees.Employee{ID: id, Status: employees.Status(cur)})
	if target != "" {
		f.Change.Target = employees.Status(target)
	}
	f.Change.EffectiveDate = date
	f.Change.Reason = reason
	return f, name
}

func (b *Bot) showEmployees(ctx context.Context, chatID int64, editMsgID int) {
	_, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	list, err := client.ListEmployees(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	t := b.currentTheme(ctx, chatID)
	text := heading(t, "Сотрудники")
	if len(list) == 0 {
		text += "\nСотрудников пока нет."
	} else {
		text += "\nВыберите сотрудника, чтобы изменить статус."
	}
	_ = b.states.Set(ctx, chatID, dialog.StateEmpList, dialog.Payload{})

	kb := employeesKeyboard(list)
	if editMsgID != 0 {
		b.editText(chatID, editMsgID, text, kb)
		return
	}
	b.sendWithKeyboard(chatID, text, kb)
}

func (b *Bot) showEmployee(ctx context.Context, cb *tgbotapi.CallbackQuery, id string) {
	chatID := cb.Message.Chat.ID
	_, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	list, err := client.ListEmployees(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	var emp *employees.Employee
	for i := range list {
		if list[i].ID == id {
			emp = &list[i]
			break
		}
	}
	if emp == nil {
		b.sendText(chatID, "Сотрудник не найден, список мог измениться.")
		b.showEmployees(ctx, chatID, cb.Message.MessageID)
		return
	}

	p := dialog.Payload{"emp_id": emp.ID, "emp_name": emp.FullName(), "current": string(emp.Status)}
	_ = b.states.Set(ctx, chatID, dialog.StateEmpItem, p)

	form, name := formFromPayload(p)
	text := renderEmployeeForm(b.currentTheme(ctx, chatID), name, form) + "\n\nВыберите новый статус:"
	b.editText(chatID, cb.Message.MessageID, text, employeeStatusKeyboard(form))
}

func (b *Bot) pickEmployeeStatus(ctx context.Context, cb *tgbotapi.CallbackQuery, st *dialog.Item, target employees.Status) {
	chatID := cb.Message.Chat.ID
	if !target.Valid() {
		b.sendText(chatID, "Неизвестный статус.")
		return
	}
	p := st.Payload.With("target", string(target), "date", "", "reason", "")
	if target.RequiresReason() {
		_ = b.states.Set(ctx, chatID, dialog.StateEmpDate, p)
		b.editText(chatID, cb.Message.MessageID,
			"Новый статус: "+target.Title()+"\nВведите дату в формате ГГГГ-ММ-ДД или «-» для сегодняшней.",
			navKeyboard(true, true))
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateEmpReason, p)
	b.editText(chatID, cb.Message.MessageID,
		"Новый статус: "+target.Title()+"\nУкажите комментарий или «-», чтобы пропустить.",
		navKeyboard(true, true))
}

func (b *Bot) handleEmployeeDate(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	date := strings.TrimSpace(text)
	if date == skipInput {
		date = ""
	}
	if date != "" {
		if _, err := time.Parse(employees.DateLayout, date); err != nil {
			b.sendWithKeyboard(chatID, "Дата должна быть в формате ГГГГ-ММ-ДД, например 2024-01-15.", navKeyboard(true, true))
			return
		}
	}
	_ = b.states.Set(ctx, chatID, dialog.StateEmpReason, st.Payload.With("date", date))
	b.sendWithKeyboard(chatID, "Укажите причину.", navKeyboard(true, true))
}

func (b *Bot) handleEmployeeReason(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	reason := strings.TrimSpace(text)
	if reason == skipInput {
		reason = ""
	}
	p := st.Payload.With("reason", reason)
	form, name := formFromPayload(p)
	if err := form.Change.Validate(); err != nil {
		b.sendWithKeyboard(chatID, "⚠️ "+err.Error(), navKeyboard(true, true))
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateEmpReview, p)
	b.sendWithKeyboard(chatID, renderEmployeeForm(b.currentTheme(ctx, chatID), name, form), employeeReviewKeyboard())
}

// submitEmployee отправляет смену статуса. При отказе введённое остаётся в форме.
func (b *Bot) submitEmployee(ctx context.Context, cb *tgbotapi.CallbackQuery, st *dialog.Item) {
	chatID := cb.Message.Chat.ID
	_, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	form, name := formFromPayload(st.Payload)
	err := form.Submit(ctx, client, b.today(), func() {
		b.answerCallback(cb, "Статус обновлён", false)
		b.editTextAndClear(chatID, cb.Message.MessageID,
			renderEmployeeForm(b.currentTheme(ctx, chatID), name, form)+"\n\n✅ Сохранено")
		b.showEmployees(ctx, chatID, 0)
	})
	if err != nil {
		b.log.Info("employee status update failed", "chat_id", chatID, "employee_id", form.EmployeeID, "err", err)
		b.answerCallback(cb, "Не сохранено", false)
		b.editText(chatID, cb.Message.MessageID,
			renderEmployeeForm(b.currentTheme(ctx, chatID), name, form), employeeReviewKeyboard())
	}
}
