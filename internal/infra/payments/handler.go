package payments

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Spok95/payroll-console/internal/apperr"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/Spok95/payroll-console/internal/infra/metrics"
	"github.com/google/uuid"
)

// Confirmer получает результат оплаты: бот доводит апгрейд или покупку до конца.
type Confirmer interface {
	CheckoutSucceeded(ctx context.Context, in Intent, paymentID, signature string) error
	CheckoutDismissed(ctx context.Context, in Intent) error
}

type Widget struct {
	KeyID       string
	ScriptURL   string
	CompanyName string
}

type Handler struct {
	log       *slog.Logger
	store     Store
	confirmer Confirmer
	widget    Widget
}

func NewHandler(log *slog.Logger, store Store, confirmer Confirmer, widget Widget) *Handler {
	return &Handler{log: log, store: store, confirmer: confirmer, widget: widget}
}

// Register вешает маршруты страницы оплаты на mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /checkout/{id}", h.page)
	mux.HandleFunc("POST /checkout/{id}/success", h.success)
	mux.HandleFunc("POST /checkout/{id}/dismiss", h.dismiss)
}

var checkoutPage = template.Must(template.New("checkout").Parse(`<!doctype html>
<html lang="ru">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Оплата</title>
<script src="{{.ScriptURL}}"></script>
</head>
<body>
<h1>{{.Description}}</h1>
<p>К оплате: {{.Amount}}</p>
<button id="pay">Оплатить</button>
<form id="done" method="post" action="/checkout/{{.ID}}/success">
<input type="hidden" name="payment_id">
<input type="hidden" name="signature">
</form>
<form id="dismiss" method="post" action="/checkout/{{.ID}}/dismiss"></form>
<script>
var opts = {
  key: {{.KeyID}},
  amount: {{.AmountMinor}},
  currency: {{.Currency}},
  name: {{.CompanyName}},
  description: {{.Description}},
  handler: function (r) {
    var f = document.getElementById("done");
    f.payment_id.value = r.razorpay_payment_id;
    f.signature.value = r.razorpay_signature || "";
    f.submit();
  },
  modal: { ondismiss: function () { document.getElementById("dismiss").submit(); } }
};
{{if .OrderID}}opts.order_id = {{.OrderID}};{{end}}
var checkout = new Razorpay(opts);
document.getElementById("pay").onclick = function (e) { e.preventDefault(); checkout.open(); };
checkout.open();
</script>
</body>
</html>
`))

var resultPage = template.Must(template.New("result").Parse(`<!doctype html>
<html lang="ru">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body><h1>{{.Title}}</h1><p>{{.Text}}</p><p>Вернитесь в Telegram, чтобы продолжить.</p></body>
</html>
`))

type pageData struct {
	ID          string
	ScriptURL   string
	KeyID       string
	CompanyName string
	Description string
	Amount      string
	AmountMinor int64
	Currency    string
	OrderID     string
}

func (h *Handler) intent(w http.ResponseWriter, r *http.Request) (*Intent, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid checkout id", http.StatusBadRequest)
		return nil, false
	}
	in, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.log.Error("failed to load checkout intent", "id", id, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return in, true
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	in, ok := h.intent(w, r)
	if !ok {
		return
	}
	if in.Status != StatusPending {
		h.result(w, http.StatusConflict, "Платёж уже обработан", "Эта ссылка на оплату больше не действует.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := checkoutPage.Execute(w, pageData{
		ID:          in.ID.String(),
		ScriptURL:   h.widget.ScriptURL,
		KeyID:       h.widget.KeyID,
		CompanyName: h.widget.CompanyName,
		Description: in.Description,
		Amount:      in.AmountText(),
		AmountMinor: in.AmountMinor,
		Currency:    in.Currency,
		OrderID:     in.OrderID,
	}); err != nil {
		h.log.Error("failed to render checkout page", "id", in.ID, "err", err)
	}
}

func (h *Handler) success(w http.ResponseWriter, r *http.Request) {
	in, ok := h.intent(w, r)
	if !ok {
		return
	}
	paymentID := strings.TrimSpace(r.FormValue("payment_id"))
	signature := strings.TrimSpace(r.FormValue("signature"))
	if paymentID == "" {
		http.Error(w, "missing payment_id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	changed, err := h.store.SetStatus(ctx, in.ID, StatusPaid, paymentID)
	if err != nil {
		h.log.Error("failed to mark intent as paid", "id", in.ID, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !changed {
		metrics.CheckoutOutcomes.WithLabelValues(in.Kind, "duplicate").Inc()
		h.result(w, http.StatusConflict, "Платёж уже обработан", "Повторное подтверждение не требуется.")
		return
	}
	in.Status = StatusPaid
	in.PaymentID = paymentID

	h.log.Info("checkout paid", "id", in.ID, "chat_id", in.ChatID, "kind", in.Kind, "payment_id", paymentID)
	if err := h.confirmer.CheckoutSucceeded(ctx, *in, paymentID, signature); err != nil {
		metrics.CheckoutOutcomes.WithLabelValues(in.Kind, "rejected").Inc()
		h.log.Warn("payment confirmation failed", "id", in.ID, "err", err)
		h.result(w, http.StatusBadGateway, "Оплата не подтверждена", apperr.Message(err))
		return
	}
	metrics.CheckoutOutcomes.WithLabelValues(in.Kind, "paid").Inc()
	h.result(w, http.StatusOK, "Оплата прошла", paidText(in.Kind))
}

func paidText(kind string) string {
	if kind == subscriptions.CheckoutSubscribe {
		return "Подписка оформлена."
	}
	return "Тариф обновлён."
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	in, ok := h.intent(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	changed, err := h.store.SetStatus(ctx, in.ID, StatusDismissed, "")
	if err != nil {
		h.log.Error("failed to mark intent as dismissed", "id", in.ID, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !changed {
		h.result(w, http.StatusConflict, "Платёж уже обработан", "Эта ссылка на оплату больше не действует.")
		return
	}
	in.Status = StatusDismissed

	metrics.CheckoutOutcomes.WithLabelValues(in.Kind, "dismissed").Inc()
	if err := h.confirmer.CheckoutDismissed(ctx, *in); err != nil {
		h.log.Warn("dismiss notification failed", "id", in.ID, "err", err)
	}
	h.result(w, http.StatusOK, "Оплата отменена", "Можно вернуться к расчёту и попробовать снова.")
}

func (h *Handler) result(w http.ResponseWriter, status int, title, text string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = resultPage.Execute(w, struct{ Title, Text string }{title, text})
}
