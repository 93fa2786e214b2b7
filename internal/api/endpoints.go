package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Spok95/payroll-console/internal/domain/companies"
	"github.com/Spok95/payroll-console/internal/domain/employees"
	"github.com/Spok95/payroll-console/internal/domain/invitations"
	"github.com/Spok95/payroll-console/internal/domain/plans"
	"github.com/Spok95/payroll-console/internal/domain/subscriptions"
)

/*** Сотрудники ***/

func (c *Client) ListEmployees(ctx context.Context) ([]employees.Employee, error) {
	var out []employees.Employee
	err := c.do(ctx, http.MethodGet, "GET /api/employees", "/api/employees", nil, nil, &out)
	return out, err
}

func (c *Client) UpdateEmployeeStatus(ctx context.Context, employeeID string, p employees.StatusPayload) error {
	path := "/api/employees/" + url.PathEscape(employeeID) + "/status"
	return c.do(ctx, http.MethodPut, "PUT /api/employees/{id}/status", path, nil, p, nil)
}

/*** Приглашения ***/

func (c *Client) VerifyInvitation(ctx context.Context, token string) (*invitations.Invitation, error) {
	var out invitations.Invitation
	path := "/api/invitations/verify/" + url.PathEscape(token)
	if err := c.do(ctx, http.MethodGet, "GET /api/invitations/verify/{token}", path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type acceptRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (c *Client) AcceptInvitation(ctx context.Context, token, password string) (*invitations.Credentials, error) {
	var out invitations.Credentials
	body := acceptRequest{Token: token, Password: password}
	if err := c.do(ctx, http.MethodPost, "POST /api/invitations/accept", "/api/invitations/accept", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/*** Подписка ***/

func (c *Client) SubscriptionStatus(ctx context.Context) (*subscriptions.CompanyStatus, error) {
	var out subscriptions.CompanyStatus
	if err := c.do(ctx, http.MethodGet, "GET /api/subscription/status", "/api/subscription/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createRequest struct {
	PlanID       string                     `json:"plan_id"`
	BillingCycle subscriptions.BillingCycle `json:"billing_cycle"`
}

func (c *Client) CreateSubscription(ctx context.Context, planID string, cycle subscriptions.BillingCycle) (*subscriptions.Order, error) {
	var out subscriptions.Order
	body := createRequest{PlanID: planID, BillingCycle: cycle}
	if err := c.do(ctx, http.MethodPost, "POST /api/subscription/create", "/api/subscription/create", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyPayment(ctx context.Context, proof subscriptions.PaymentProof) (*subscriptions.CompanyStatus, error) {
	var out subscriptions.CompanyStatus
	if err := c.do(ctx, http.MethodPost, "POST /api/subscription/verify-payment", "/api/subscription/verify-payment", nil, proof, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpgradeOptions(ctx context.Context) (*subscriptions.UpgradeOptions, error) {
	var out subscriptions.UpgradeOptions
	if err := c.do(ctx, http.MethodGet, "GET /api/subscription/upgrade-options", "/api/subscription/upgrade-options", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CalculateUpgrade(ctx context.Context, planID string, cycle subscriptions.BillingCycle) (*subscriptions.UpgradeCalculation, error) {
	q := url.Values{}
	q.Set("target_plan_id", planID)
	q.Set("new_billing_cycle", string(cycle))

	var out subscriptions.UpgradeCalculation
	if err := c.do(ctx, http.MethodPost, "POST /api/subscription/calculate-upgrade", "/api/subscription/calculate-upgrade", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Upgrade(ctx context.Context, planID, paymentID string) error {
	q := url.Values{}
	q.Set("target_plan_id", planID)
	q.Set("payment_id", paymentID)
	return c.do(ctx, http.MethodPost, "POST /api/subscription/upgrade", "/api/subscription/upgrade", q, nil, nil)
}

/*** Тарифы ***/

func (c *Client) PublicPlans(ctx context.Context) ([]plans.Plan, error) {
	var out []plans.Plan
	err := c.do(ctx, http.MethodGet, "GET /api/plans/public", "/api/plans/public", nil, nil, &out)
	return out, err
}

func (c *Client) AdminPlans(ctx context.Context) ([]plans.Plan, error) {
	var out []plans.Plan
	err := c.do(ctx, http.MethodGet, "GET /api/super-admin/plans", "/api/super-admin/plans", nil, nil, &out)
	return out, err
}

/*** Компании (супер-админ) ***/

func (c *Client) ListCompanies(ctx context.Context) ([]companies.Company, error) {
	var out []companies.Company
	err := c.do(ctx, http.MethodGet, "GET /api/super-admin/companies", "/api/super-admin/companies", nil, nil, &out)
	return out, err
}

func (c *Client) GetCompany(ctx context.Context, id string) (*companies.Company, error) {
	var out companies.Company
	path := "/api/super-admin/companies/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, "GET /api/super-admin/companies/{id}", path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, u companies.Update) (*companies.Company, error) {
	var out companies.Company
	path := "/api/super-admin/companies/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, "PUT /api/super-admin/companies/{id}", path, nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var (
	_ employees.Backend             = (*Client)(nil)
	_ invitations.Backend           = (*Client)(nil)
	_ subscriptions.Backend         = (*Client)(nil)
	_ subscriptions.PurchaseBackend = (*Client)(nil)
	_ plans.Source                  = (*Client)(nil)
)
