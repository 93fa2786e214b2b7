package dialog

type State string

const (
	StateIdle State = "idle"

	// Приглашение
	StateInvPassword State = "inv_password" // ждём пароль
	StateInvConfirm  State = "inv_confirm"  // ждём повтор пароля

	// Сотрудники
	StateEmpList   State = "emp_list"
	StateEmpItem   State = "emp_item"   // карточка, выбор нового статуса
	StateEmpDate   State = "emp_date"   // ввод даты (ГГГГ-ММ-ДД или «-» для сегодня)
	StateEmpReason State = "emp_reason" // ввод причины
	StateEmpReview State = "emp_review" // подтверждение

	// Подписка и апгрейд
	StateSubStatus  State = "sub_status"
	StateSubBuyPick State = "sub_buy_pick" // выбор тарифа при покупке
	StateUpgrade    State = "upgrade"      // состояние апгрейда живёт в Workflow

	// Компании (супер-админ)
	StateCompList  State = "comp_list"
	StateCompItem  State = "comp_item"
	StateCompField State = "comp_field" // ввод нового значения поля
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// GetString Helper для безопасного чтения строк из payload
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt64 — числа после JSON приходят как float64.
func GetInt64(p Payload, key string) (int64, bool) {
	switch v := p[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// With возвращает копию payload с добавленными значениями.
func (p Payload) With(kv ...any) Payload {
	out := make(Payload, len(p)+len(kv)/2)
	for k, v := range p {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			out[k] = kv[i+1]
		}
	}
	return out
}
