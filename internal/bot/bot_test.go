package bot

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/payroll-console/internal/api"
	"github.com/Spok95/payroll-console/internal/dialog"
	"github.com/Spok95/payroll-console/internal/domain/invitations"
	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
	"github.com/Spok95/payroll-console/internal/infra/payments"
	"github.com/Spok95/payroll-console/internal/session"
	"github.com/Spok95/payroll-console/internal/theme"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatID int64 = 777

var (
	checkoutID = uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	staleID    = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
)

/*** fakes ***/

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts — тексты всех отправленных и отредактированных сообщений.
func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeSender) last() tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) deleted() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int
	for _, c := range f.requests {
		if d, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			ids = append(ids, d.MessageID)
		}
	}
	return ids
}

type memSessions struct {
	mu sync.Mutex
	m  map[int64]session.Session
}

func (s *memSessions) SaveCredentials(_ context.Context, owner int64, c invitations.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[owner] = session.New(owner, c, time.Now(), time.Hour)
	return nil
}

func (s *memSessions) Get(_ context.Context, id int64) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &v, nil
}

func (s *memSessions) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

type memStates struct {
	mu sync.Mutex
	m  map[int64]dialog.Item
}

func (s *memStates) Get(_ context.Context, id int64) (*dialog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.m[id]
	if !ok {
		return &dialog.Item{ChatID: id, State: dialog.StateIdle, Payload: dialog.Payload{}}, nil
	}
	it.Payload = it.Payload.With()
	return &it, nil
}

func (s *memStates) Set(_ context.Context, id int64, st dialog.State, p dialog.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = dialog.Item{ChatID: id, State: st, Payload: p.With()}
	return nil
}

func (s *memStates) Reset(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

type memThemes struct{ m map[string]string }

func (t *memThemes) Get(_ context.Context, owner int64, key string) (string, bool, error) {
	v, ok := t.m[key]
	return v, ok, nil
}

func (t *memThemes) Set(_ context.Context, owner int64, key, value string) error {
	t.m[key] = value
	return nil
}

type fakeCheckout struct {
	reqs []subscriptions.CheckoutRequest
}

func (f *fakeCheckout) Open(_ context.Context, req subscriptions.CheckoutRequest) (*subscriptions.CheckoutSession, error) {
	f.reqs = append(f.reqs, req)
	return &subscriptions.CheckoutSession{ID: checkoutID.String(), URL: "https://pay.example.com/checkout/" + checkoutID.String()}, nil
}

// backend — фейковый API: отвечает заданными JSON и запоминает запросы.
type backend struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string]map[string]any
	routes map[string]func() (int, string)
}

func newBackend() *backend {
	return &backend{bodies: map[string]map[string]any{}, routes: map[string]func() (int, string){}}
}

func (bk *backend) on(route string, status int, body string) {
	bk.routes[route] = func() (int, string) { return status, body }
}

func (bk *backend) called(prefix string) []string {
	bk.mu.Lock()
	defer bk.mu.Unlock()
	var out []string
	for _, c := range bk.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (bk *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	call := route
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	raw, _ := io.ReadAll(r.Body)

	bk.mu.Lock()
	bk.calls = append(bk.calls, call)
	if len(raw) > 0 {
		var m map[string]any
		_ = json.Unmarshal(raw, &m)
		bk.bodies[route] = m
	}
	fn, ok := bk.routes[route]
	bk.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"not found"}`)
		return
	}
	status, body := fn()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type harness struct {
	bot      *Bot
	tg       *fakeSender
	backend  *backend
	sessions *memSessions
	states   *memStates
	checkout *fakeCheckout
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bk := newBackend()
	srv := httptest.NewServer(bk)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.New(srv.URL, 2*time.Second, log)
	h := &harness{
		tg:       &fakeSender{},
		backend:  bk,
		sessions: &memSessions{m: map[int64]session.Session{}},
		states:   &memStates{m: map[int64]dialog.Item{}},
		checkout: &fakeCheckout{},
	}
	h.bot = New(Deps{
		Sender:      h.tg,
		Log:         log,
		Backend:     client,
		Catalog:     plans.NewCatalog(client, 4, time.Minute),
		Sessions:    h.sessions,
		States:      h.states,
		Themes:      &memThemes{m: map[string]string{}},
		Checkout:    h.checkout,
		Location:    time.UTC,
		SystemTheme: theme.Light,
	})
	return h
}

func (h *harness) login(role string) {
	_ = h.sessions.SaveCredentials(context.Background(), chatID, invitations.Credentials{
		AccessToken: "acc",
		User:        invitations.User{ID: "u1", Email: "hr@acme.test", Role: role},
	})
}

func command(text string) tgbotapi.Update {
	cmd := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func text(id int, s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{MessageID: id, Chat: &tgbotapi.Chat{ID: chatID}, Text: s}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 50, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func (h *harness) handle(upd tgbotapi.Update) {
	ctx := context.Background()
	if upd.Message != nil {
		h.bot.onMessage(ctx, upd)
		return
	}
	h.bot.onCallback(ctx, upd)
}

const activeStatus = `{"status":"active","billing_cycle":"monthly","plan":{"id":"basic","name":"Basic","features":{"employees":true}}}`

/*** сценарии ***/

func TestInvitationAcceptance(t *testing.T) {
	h := newHarness(t)
	h.backend.on("GET /api/invitations/verify/abc123", 200, `{"email":"hr@acme.test","company_name":"Acme","role":"admin"}`)
	h.backend.on("POST /api/invitations/accept", 200, `{"access_token":"acc","refresh_token":"ref","user":{"id":"u1","email":"hr@acme.test","role":"admin"}}`)
	h.backend.on("GET /api/subscription/status", 200, activeStatus)

	h.handle(command("/start inv_abc123"))
	st, _ := h.states.Get(context.Background(), chatID)
	assert.Equal(t, dialog.StateInvPassword, st.State)
	assert.Contains(t, strings.Join(h.tg.texts(), "\n"), "Acme")

	h.handle(text(11, "password1"))
	st, _ = h.states.Get(context.Background(), chatID)
	assert.Equal(t, dialog.StateInvConfirm, st.State)

	h.handle(text(12, "password1"))

	assert.Equal(t, []int{11, 12}, h.tg.deleted())
	assert.Equal(t, map[string]any{"token": "abc123", "password": "password1"}, h.backend.bodies["POST /api/invitations/accept"])

	s, err := h.sessions.Get(context.Background(), chatID)
	require.NoError(t, err)
	assert.Equal(t, "acc", s.AccessToken)

	last, ok := h.tg.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, last.Text, "Добро пожаловать")
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, last.ReplyMarkup)
}

func TestInvitationPasswordMismatchStaysOnForm(t *testing.T) {
	h := newHarness(t)
	h.backend.on("GET /api/invitations/verify/abc123", 200, `{"email":"hr@acme.test","company_name":"Acme"}`)

	h.handle(command("/start inv_abc123"))
	h.handle(text(11, "abcdefgh"))
	h.handle(text(12, "abcdefgi"))

	assert.Empty(t, h.backend.called("POST /api/invitations/accept"))
	st, _ := h.states.Get(context.Background(), chatID)
	assert.Equal(t, dialog.StateInvPassword, st.State)
	assert.Contains(t, strings.Join(h.tg.texts(), "\n"), "Пароли не совпадают")
}

func TestInvitationInvalidToken(t *testing.T) {
	h := newHarness(t)
	h.backend.on("GET /api/invitations/verify/gone", 400, `{"detail":"Invitation has expired"}`)

	h.handle(command("/start inv_gone"))

	st, _ := h.states.Get(context.Background(), chatID)
	assert.Equal(t, dialog.StateIdle, st.State)
	assert.Contains(t, strings.Join(h.tg.texts(), "\n"), "Invitation has expired")
}

func TestUpgradeFlow_PayAndResync(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.backend.on("GET /api/subscription/status", 200, activeStatus)
	h.backend.on("GET /api/subscription/upgrade-options", 200, `{
		"current_plan":{"id":"basic","name":"Basic"},
		"current_billing_cycle":"monthly",
		"upgrade_options":[{"id":"pro","name":"Pro"},{"id":"ent","name":"Enterprise"}]}`)
	h.backend.on("POST /api/subscription/calculate-upgrade", 200, `{
		"employee_count":12,"days_remaining":18,"price_difference_per_user":50,
		"prorated_amount_per_user":30.04,"total_upgrade_cost":360.5,
		"next_billing_date":"2024-02-01","target_plan":{"id":"pro","name":"Pro"}}`)
	h.backend.on("POST /api/subscription/upgrade", 200, `{"message":"ok"}`)

	h.handle(text(2, "Сменить тариф"))
	_, live := h.bot.workflows.Get(chatID)
	require.True(t, live)

	h.handle(callback("up:plan:pro"))
	h.handle(callback("up:cycle:annual"))
	calcs := h.backend.called("POST /api/subscription/calculate-upgrade")
	require.Len(t, calcs, 2)
	assert.Contains(t, calcs[1], "target_plan_id=pro")
	assert.Contains(t, calcs[1], "new_billing_cycle=annual")

	h.handle(callback("up:pay"))
	require.Len(t, h.checkout.reqs, 1)
	assert.Equal(t, int64(36050), h.checkout.reqs[0].AmountMinor)
	assert.Equal(t, subscriptions.CheckoutUpgrade, h.checkout.reqs[0].Kind)

	err := h.bot.CheckoutSucceeded(context.Background(), payments.Intent{
		ID: checkoutID, ChatID: chatID, Kind: subscriptions.CheckoutUpgrade, PlanID: "pro",
	}, "pay_1", "sig")
	require.NoError(t, err)

	ups := h.backend.called("POST /api/subscription/upgrade")
	require.Len(t, ups, 1)
	assert.Contains(t, ups[0], "payment_id=pay_1")
	assert.Contains(t, ups[0], "target_plan_id=pro")

	_, live = h.bot.workflows.Get(chatID)
	assert.False(t, live)
	last, ok := h.tg.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, last.Text, "Тариф обновлён")
}

func TestUpgradeFlow_DismissReturnsToCalculation(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.backend.on("GET /api/subscription/status", 200, activeStatus)
	h.backend.on("GET /api/subscription/upgrade-options", 200, `{"current_billing_cycle":"monthly","upgrade_options":[{"id":"pro","name":"Pro"}]}`)
	h.backend.on("POST /api/subscription/calculate-upgrade", 200, `{"total_upgrade_cost":100,"target_plan":{"id":"pro","name":"Pro"}}`)

	h.handle(text(2, "Сменить тариф"))
	h.handle(callback("up:plan:pro"))
	h.handle(callback("up:pay"))

	require.NoError(t, h.bot.CheckoutDismissed(context.Background(), payments.Intent{
		ID: checkoutID, ChatID: chatID, Kind: subscriptions.CheckoutUpgrade, PlanID: "pro",
	}))

	wf, ok := h.bot.workflows.Get(chatID)
	require.True(t, ok)
	assert.Equal(t, subscriptions.PhaseCalculationReady, wf.Snapshot().Phase)
}

// startPaidUpgrade — апгрейд на pro, ожидающий оплату по checkoutID.
func startPaidUpgrade(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.login("admin")
	h.backend.on("GET /api/subscription/status", 200, activeStatus)
	h.backend.on("GET /api/subscription/upgrade-options", 200, `{"current_billing_cycle":"monthly","upgrade_options":[{"id":"pro","name":"Pro"}]}`)
	h.backend.on("POST /api/subscription/calculate-upgrade", 200, `{"total_upgrade_cost":100,"target_plan":{"id":"pro","name":"Pro"}}`)
	h.backend.on("POST /api/subscription/upgrade", 200, `{"message":"ok"}`)

	h.handle(text(2, "Сменить тариф"))
	h.handle(callback("up:plan:pro"))
	h.handle(callback("up:pay"))
	return h
}

func TestUpgradeFlow_StaleDismissKeepsPayment(t *testing.T) {
	h := startPaidUpgrade(t)

	require.NoError(t, h.bot.CheckoutDismissed(context.Background(), payments.Intent{
		ID: staleID, ChatID: chatID, Kind: subscriptions.CheckoutUpgrade, PlanID: "pro",
	}))

	wf, ok := h.bot.workflows.Get(chatID)
	require.True(t, ok)
	snap := wf.Snapshot()
	assert.Equal(t, subscriptions.PhaseProcessingPayment, snap.Phase)
	require.NotNil(t, snap.Checkout)
	assert.Equal(t, checkoutID.String(), snap.Checkout.ID)
	assert.Contains(t, strings.Join(h.tg.texts(), "\n"), "Оплата отменена")
}

func TestUpgradeFlow_StaleSuccessBypassesLiveWorkflow(t *testing.T) {
	h := startPaidUpgrade(t)
	wf, _ := h.bot.workflows.Get(chatID)

	require.NoError(t, h.bot.CheckoutSucceeded(context.Background(), payments.Intent{
		ID: staleID, ChatID: chatID, Kind: subscriptions.CheckoutUpgrade, PlanID: "pro",
	}, "pay_stale", "sig"))

	ups := h.backend.called("POST /api/subscription/upgrade")
	require.Len(t, ups, 1)
	assert.Contains(t, ups[0], "payment_id=pay_stale")
	// подтверждение прошло мимо живого расчёта: его оплата не подтверждалась
	assert.Equal(t, subscriptions.PhaseProcessingPayment, wf.Snapshot().Phase)
}

func TestUpgradeFlow_DismissAfterCancelStillNotifies(t *testing.T) {
	h := startPaidUpgrade(t)
	in := payments.Intent{ID: checkoutID, ChatID: chatID, Kind: subscriptions.CheckoutUpgrade, PlanID: "pro"}

	require.NoError(t, h.bot.CheckoutDismissed(context.Background(), in))
	require.NoError(t, h.bot.CheckoutDismissed(context.Background(), in))

	last, ok := h.tg.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, last.Text, "Оплата отменена")
}

func TestUpgradeFlow_HighestPlan(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.backend.on("GET /api/subscription/status", 200, activeStatus)
	h.backend.on("GET /api/subscription/upgrade-options", 200, `{"current_billing_cycle":"annual","upgrade_options":[]}`)

	h.handle(text(2, "Сменить тариф"))

	assert.Empty(t, h.backend.called("POST /api/subscription/calculate-upgrade"))
	_, live := h.bot.workflows.Get(chatID)
	assert.False(t, live)
	assert.Contains(t, strings.Join(h.tg.texts(), "\n"), "максимальном тарифе")
}

func TestTrialGoesToPurchase(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.backend.on("GET /api/subscription/status", 200, `{"status":"trial"}`)
	h.backend.on("GET /api/plans/public", 200, `[{"id":"basic","name":"Basic","price_per_user_monthly":49,"display_order":1}]`)
	h.backend.on("POST /api/subscription/create", 200, `{"order_id":"order_1","amount":490,"currency":"INR"}`)
	h.backend.on("POST /api/subscription/verify-payment", 200, `{"status":"active","billing_cycle":"monthly","plan":{"id":"basic","name":"Basic"}}`)

	h.handle(text(2, "Сменить тариф"))
	st, _ := h.states.Get(context.Background(), chatID)
	require.Equal(t, dialog.StateSubBuyPick, st.State)

	h.handle(callback("buy:plan:basic"))
	h.handle(callback("buy:go"))
	assert.Equal(t, map[string]any{"plan_id": "basic", "billing_cycle": "monthly"}, h.backend.bodies["POST /api/subscription/create"])
	require.Len(t, h.checkout.reqs, 1)
	assert.Equal(t, "order_1", h.checkout.reqs[0].OrderID)
	assert.Equal(t, int64(49000), h.checkout.reqs[0].AmountMinor)

	err := h.bot.CheckoutSucceeded(context.Background(), payments.Intent{
		ChatID: chatID, Kind: subscriptions.CheckoutSubscribe, OrderID: "order_1", PlanID: "basic",
	}, "pay_9", "sig_9")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"order_id": "order_1", "payment_id": "pay_9", "signature": "sig_9"},
		h.backend.bodies["POST /api/subscription/verify-payment"])
}

func reviewState(h *harness) {
	_ = h.states.Set(context.Background(), chatID, dialog.StateEmpReview, dialog.Payload{
		"emp_id": "emp-1", "emp_name": "Asha Rao", "current": "active",
		"target": "terminated", "date": "2024-01-15", "reason": "performance",
	})
}

func TestEmployeeStatusSubmit(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.backend.on("PUT /api/employees/emp-1/status", 200, `{}`)
	h.backend.on("GET /api/employees", 200, `[]`)
	reviewState(h)

	h.handle(callback("emp:send"))

	assert.Equal(t, map[string]any{
		"status":           "terminated",
		"status_reason":    "performance",
		"termination_date": "2024-01-15",
	}, h.backend.bodies["PUT /api/employees/emp-1/status"])
	assert.Len(t, h.backend.called("GET /api/employees"), 1)
	st, _ := h.states.Get(context.Background(), chatID)
	assert.Equal(t, dialog.StateEmpList, st.State)
}

func TestEmployeeStatusRejectedKeepsInput(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.backend.on("PUT /api/employees/emp-1/status", 400, `{"detail":"Termination date cannot be in the future"}`)
	reviewState(h)

	h.handle(callback("emp:send"))

	st, _ := h.states.Get(context.Background(), chatID)
	assert.Equal(t, dialog.StateEmpReview, st.State)
	reason, _ := dialog.GetString(st.Payload, "reason")
	assert.Equal(t, "performance", reason)
	assert.Empty(t, h.backend.called("GET /api/employees"))
	assert.Contains(t, strings.Join(h.tg.texts(), "\n"), "Termination date cannot be in the future")
}

func TestEmployeeReasonRequiredLocally(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	_ = h.states.Set(context.Background(), chatID, dialog.StateEmpReason, dialog.Payload{
		"emp_id": "emp-1", "current": "active", "target": "resigned",
	})

	h.handle(text(3, "   "))

	st, _ := h.states.Get(context.Background(), chatID)
	assert.Equal(t, dialog.StateEmpReason, st.State)
	assert.Empty(t, h.backend.called("PUT"))
}

func TestCompanyFieldEdit(t *testing.T) {
	h := newHarness(t)
	h.login(invitations.RoleSuperAdmin)
	h.backend.on("PUT /api/super-admin/companies/c1", 200, `{"id":"c1","name":"Acme Ltd","is_active":true}`)
	_ = h.states.Set(context.Background(), chatID, dialog.StateCompField, dialog.Payload{"comp_id": "c1", "field": "name"})

	h.handle(text(4, "  Acme Ltd "))

	assert.Equal(t, map[string]any{"name": "Acme Ltd"}, h.backend.bodies["PUT /api/super-admin/companies/c1"])
	st, _ := h.states.Get(context.Background(), chatID)
	assert.Equal(t, dialog.StateCompItem, st.State)
}

func TestCompaniesDeniedForAdmin(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.bot.showCompanies(context.Background(), chatID, 0)
	assert.Empty(t, h.backend.called("GET /api/super-admin/companies"))
	assert.Contains(t, strings.Join(h.tg.texts(), "\n"), "Доступ запрещён")
}

func TestMenuWithoutSession(t *testing.T) {
	h := newHarness(t)
	h.handle(command("/start"))
	assert.Contains(t, strings.Join(h.tg.texts(), "\n"), "ссылку-приглашение")
}

func TestLogoutForgetsChat(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.bot.themeFor(context.Background(), chatID)

	h.handle(command("/logout"))

	_, err := h.sessions.Get(context.Background(), chatID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, ok := h.bot.providers.Get(chatID)
	assert.False(t, ok)
}

func TestThemeToggle(t *testing.T) {
	h := newHarness(t)
	h.login("admin")

	h.handle(callback("theme:toggle"))
	assert.Equal(t, theme.Dark, h.bot.currentTheme(context.Background(), chatID))

	edit, ok := h.tg.last().(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "🌙")
}

func TestSendPricingXLSXNeedsReports(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	h.backend.on("GET /api/subscription/status", 200, `{"status":"active","plan":{"id":"pro","features":{"reports":true}}}`)
	h.backend.on("GET /api/plans/public", 200, `[{"id":"pro","name":"Pro","price_per_user_monthly":99}]`)

	h.bot.sendPricingXLSX(context.Background(), chatID)

	doc, ok := h.tg.last().(tgbotapi.DocumentConfig)
	require.True(t, ok)
	fb, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(fb.Name, ".xlsx"))
	assert.NotEmpty(t, fb.Bytes)
}
