package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/payroll-console/internal/api"
	"github.com/Spok95/payroll-console/internal/apperr"
	"github.com/Spok95/payroll-console/internal/dialog"
	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/Spok95/payroll-console/internal/infra/metrics"
	"github.com/Spok95/payroll-console/internal/infra/payments"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** Статус подписки ***/

func (b *Bot) showSubscription(ctx context.Context, chatID int64) {
	_, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	st, err := client.SubscriptionStatus(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateSubStatus, dialog.Payload{})
	b.sendWithKeyboard(chatID, renderSubscription(b.currentTheme(ctx, chatID), st, b.today()), subscriptionKeyboard(st))
}

/*** Покупка из триала ***/

func (b *Bot) startPurchase(ctx context.Context, chatID int64, editMsgID int) {
	list, err := b.catalog.Public(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	p := dialog.Payload{"plan_id": "", "cycle": string(subscriptions.CycleMonthly)}
	_ = b.states.Set(ctx, chatID, dialog.StateSubBuyPick, p)
	b.renderPurchase(ctx, chatID, editMsgID, list, p)
}

func (b *Bot) renderPurchase(ctx context.Context, chatID int64, editMsgID int, list []plans.Plan, p dialog.Payload) {
	planID, _ := dialog.GetString(p, "plan_id")
	cycle := purchaseCycle(p)
	text := renderPurchase(b.currentTheme(ctx, chatID), list, planID, cycle)
	kb := purchaseKeyboard(list, planID, cycle)
	if editMsgID != 0 {
		b.editText(chatID, editMsgID, text, kb)
		return
	}
	b.sendWithKeyboard(chatID, text, kb)
}

func purchaseCycle(p dialog.Payload) subscriptions.BillingCycle {
	c, _ := dialog.GetString(p, "cycle")
	if cycle := subscriptions.BillingCycle(c); cycle.Valid() {
		return cycle
	}
	return subscriptions.CycleMonthly
}

func (b *Bot) handlePurchaseCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, st *dialog.Item, action, arg string) {
	chatID := cb.Message.Chat.ID
	if st.State != dialog.StateSubBuyPick {
		b.answerCallback(cb, "Начните оформление заново", true)
		return
	}
	list, err := b.catalog.Public(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}

	switch action {
	case "plan":
		if _, ok := plans.Find(list, arg); !ok {
			b.answerCallback(cb, "Тариф не найден", true)
			return
		}
		p := st.Payload.With("plan_id", arg)
		_ = b.states.Set(ctx, chatID, dialog.StateSubBuyPick, p)
		b.answerCallback(cb, "", false)
		b.renderPurchase(ctx, chatID, cb.Message.MessageID, list, p)

	case "cycle":
		cycle := subscriptions.BillingCycle(arg)
		if !cycle.Valid() {
			b.answerCallback(cb, "Неизвестный период", true)
			return
		}
		p := st.Payload.With("cycle", string(cycle))
		_ = b.states.Set(ctx, chatID, dialog.StateSubBuyPick, p)
		b.answerCallback(cb, "", false)
		b.renderPurchase(ctx, chatID, cb.Message.MessageID, list, p)

	case "go":
		_, client, ok := b.authed(ctx, chatID)
		if !ok {
			return
		}
		planID, _ := dialog.GetString(st.Payload, "plan_id")
		plan, _ := plans.Find(list, planID)
		order, sess, err := subscriptions.StartPurchase(ctx, client, b.checkout, chatID, plan, purchaseCycle(st.Payload))
		if err != nil {
			b.answerCallback(cb, apperr.Message(err), true)
			return
		}
		b.answerCallback(cb, "", false)
		_ = b.states.Reset(ctx, chatID)
		text := fmt.Sprintf("Заказ %s: %.2f %s.\nОткройте страницу оплаты. После оплаты бот пришлёт подтверждение.",
			order.OrderID, order.Amount, order.Currency)
		b.editText(chatID, cb.Message.MessageID, text, payLinkKeyboard(sess.URL))
	}
}

/*** Апгрейд ***/

// openUpgrade — из триала и после истечения предлагаем оформить подписку, иначе апгрейд.
func (b *Bot) openUpgrade(ctx context.Context, chatID int64) {
	_, client, ok := b.authed(ctx, chatID)
	if !ok {
		return
	}
	if st, err := client.SubscriptionStatus(ctx); err == nil && st.NeedsPurchase() {
		b.startPurchase(ctx, chatID, 0)
		return
	}
	b.startUpgrade(ctx, chatID, client)
}

func (b *Bot) startUpgrade(ctx context.Context, chatID int64, client *api.Client) {
	wf := subscriptions.NewWorkflow(chatID, client, b.checkout)
	wf.OnTransition(func(_, to subscriptions.Phase) {
		metrics.UpgradeTransitions.WithLabelValues(string(to)).Inc()
	})
	b.workflows.Put(chatID, wf)
	_ = b.states.Set(ctx, chatID, dialog.StateUpgrade, dialog.Payload{})

	t := b.currentTheme(ctx, chatID)
	_, err := wf.Load(ctx)
	switch {
	case errors.Is(err, subscriptions.ErrHighestPlan):
		b.workflows.Drop(chatID)
		_ = b.states.Reset(ctx, chatID)
		b.sendText(chatID, renderUpgrade(t, wf.Snapshot()))
		return
	case err != nil:
		b.workflows.Drop(chatID)
		_ = b.states.Reset(ctx, chatID)
		b.sendError(chatID, err)
		return
	}
	snap := wf.Snapshot()
	b.sendWithKeyboard(chatID, renderUpgrade(t, snap), upgradeKeyboard(snap))
}

func (b *Bot) handleUpgradeCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action, arg string) {
	chatID := cb.Message.Chat.ID
	wf, ok := b.workflows.Get(chatID)
	if !ok {
		b.answerCallback(cb, "Расчёт устарел. Откройте «Сменить тариф» заново.", true)
		b.editTextAndClear(chatID, cb.Message.MessageID, "Расчёт устарел.")
		return
	}

	var err error
	switch action {
	case "plan":
		_, err = wf.SelectPlan(ctx, arg)
	case "cycle":
		_, err = wf.SetCycle(ctx, subscriptions.BillingCycle(arg))
	case "pay":
		var sess *subscriptions.CheckoutSession
		sess, err = wf.StartPayment(ctx)
		if err == nil {
			b.answerCallback(cb, "", false)
			snap := wf.Snapshot()
			b.editText(chatID, cb.Message.MessageID, renderUpgrade(b.currentTheme(ctx, chatID), snap), payLinkKeyboard(sess.URL))
			return
		}
	default:
		b.answerCallback(cb, "", false)
		return
	}

	if errors.Is(err, subscriptions.ErrSuperseded) {
		// ответ на устаревший выбор: экран обновит более новый запрос
		metrics.SupersededCalculations.Inc()
		b.answerCallback(cb, "", false)
		return
	}
	if err != nil {
		b.log.Info("upgrade step failed", "chat_id", chatID, "action", action, "err", err)
		b.answerCallback(cb, apperr.Message(err), true)
	} else {
		b.answerCallback(cb, "", false)
	}
	snap := wf.Snapshot()
	b.editText(chatID, cb.Message.MessageID, renderUpgrade(b.currentTheme(ctx, chatID), snap), upgradeKeyboard(snap))
}

/*** Колбэки оплаты (вызываются из HTTP-сервера) ***/

func (b *Bot) clientFor(ctx context.Context, chatID int64) (*api.Client, error) {
	s, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return b.backend.WithToken(s.AccessToken), nil
}

// liveCheckout — живой апгрейд, ожидающий оплату именно по этому намерению.
// Колбэки со старых страниц оплаты к текущему расчёту не относятся.
func (b *Bot) liveCheckout(in payments.Intent) (*subscriptions.Workflow, bool) {
	wf, ok := b.workflows.Get(in.ChatID)
	if !ok {
		return nil, false
	}
	snap := wf.Snapshot()
	if snap.Phase != subscriptions.PhaseProcessingPayment || snap.Checkout == nil || snap.Checkout.ID != in.ID.String() {
		return nil, false
	}
	return wf, true
}

// CheckoutSucceeded доводит оплату до конца на бэкенде и пересинхронизирует консоль.
func (b *Bot) CheckoutSucceeded(ctx context.Context, in payments.Intent, paymentID, signature string) error {
	switch in.Kind {
	case subscriptions.CheckoutUpgrade:
		return b.confirmUpgrade(ctx, in, paymentID)
	case subscriptions.CheckoutSubscribe:
		return b.confirmPurchase(ctx, in, paymentID, signature)
	}
	return fmt.Errorf("unknown checkout kind %q", in.Kind)
}

func (b *Bot) confirmUpgrade(ctx context.Context, in payments.Intent, paymentID string) error {
	chatID := in.ChatID
	wf, live := b.liveCheckout(in)

	var err error
	if live {
		err = wf.ConfirmPayment(ctx, paymentID)
	} else {
		// процесс перезапускался или пользователь начал новый расчёт
		var client *api.Client
		client, err = b.clientFor(ctx, chatID)
		if err == nil {
			err = subscriptions.FinalizeUpgrade(ctx, client, in.PlanID, paymentID)
		}
	}
	if err != nil {
		b.log.Warn("upgrade confirmation failed", "chat_id", chatID, "plan_id", in.PlanID, "err", err)
		if live {
			snap := wf.Snapshot()
			b.sendWithKeyboard(chatID, renderUpgrade(b.currentTheme(ctx, chatID), snap), upgradeKeyboard(snap))
		} else {
			b.sendError(chatID, err)
		}
		return err
	}

	b.log.Info("upgrade completed", "chat_id", chatID, "plan_id", in.PlanID, "payment_id", paymentID)
	b.workflows.Drop(chatID)
	b.access.Drop(chatID)
	b.showMenu(ctx, chatID, "✅ Тариф обновлён.")
	return nil
}

func (b *Bot) confirmPurchase(ctx context.Context, in payments.Intent, paymentID, signature string) error {
	chatID := in.ChatID
	client, err := b.clientFor(ctx, chatID)
	if err != nil {
		return err
	}
	st, err := subscriptions.CompletePurchase(ctx, client, subscriptions.PaymentProof{
		OrderID:   in.OrderID,
		PaymentID: paymentID,
		Signature: signature,
	})
	if err != nil {
		b.log.Warn("purchase verification failed", "chat_id", chatID, "order_id", in.OrderID, "err", err)
		b.sendError(chatID, err)
		return err
	}

	text := "✅ Подписка оформлена."
	if st.Plan != nil {
		text = fmt.Sprintf("✅ Подписка оформлена: %s (%s).", st.Plan.Name, st.BillingCycle.Title())
	}
	b.access.Drop(chatID)
	b.showMenu(ctx, chatID, text)
	return nil
}

// CheckoutDismissed — форма оплаты закрыта: возвращаемся к расчёту.
func (b *Bot) CheckoutDismissed(ctx context.Context, in payments.Intent) error {
	chatID := in.ChatID
	if in.Kind == subscriptions.CheckoutUpgrade {
		if wf, ok := b.liveCheckout(in); ok {
			err := wf.CancelPayment()
			if err == nil {
				snap := wf.Snapshot()
				b.sendWithKeyboard(chatID, renderUpgrade(b.currentTheme(ctx, chatID), snap), upgradeKeyboard(snap))
				return nil
			}
			b.log.Info("cancel payment skipped", "chat_id", chatID, "intent_id", in.ID, "err", err)
		}
	}
	b.sendText(chatID, "Оплата отменена. Можно вернуться к выбору тарифа в меню «Оплата».")
	return nil
}

var _ payments.Confirmer = (*Bot)(nil)
