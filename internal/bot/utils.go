package bot

import (
	"sync"

	"github.com/Spok95/payroll-console/internal/apperr"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** HELPERS ***/

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Warn("answer callback failed", "err", err)
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb any) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	b.send(m)
}

// sendError показывает ошибку пользователю текстом, понятным без логов.
func (b *Bot) sendError(chatID int64, err error) {
	b.sendText(chatID, "⚠️ "+apperr.Message(err))
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

func (b *Bot) editText(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb))
}

// deleteMessage убирает сообщение из чата (пароли не должны оставаться в истории).
func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.Warn("delete message failed", "chat_id", chatID, "err", err)
	}
}

// registry — состояние, живущее в памяти между апдейтами одного чата.
// Читается и из цикла бота, и из HTTP-колбэков оплаты.
type registry[T any] struct {
	mu sync.Mutex
	m  map[int64]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{m: map[int64]T{}}
}

func (r *registry[T]) Get(chatID int64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[chatID]
	return v, ok
}

func (r *registry[T]) Put(chatID int64, v T) {
	r.mu.Lock()
	r.m[chatID] = v
	r.mu.Unlock()
}

// Drop удаляет значение и возвращает его, если оно было.
func (r *registry[T]) Drop(chatID int64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[chatID]
	delete(r.m, chatID)
	return v, ok
}

// Бейдж активности
func badge(b bool) string {
	if b {
		return "🟢"
	}
	return "🚫"
}
