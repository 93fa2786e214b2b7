// Package api — клиент HTTP API бэкенда (кадры, подписки, тарифы, компании).
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Spok95/payroll-console/internal/apperr"
	"github.com/Spok95/payroll-console/internal/infra/metrics"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const maxErrorBody = 64 << 10

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     *slog.Logger
}

func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// WithToken возвращает копию клиента, которая ходит с access-токеном пользователя.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// do выполняет запрос. endpoint — шаблон маршрута для метрик и логов.
func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", endpoint, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequests.WithLabelValues(endpoint, metrics.Outcome(0, err)).Inc()
		c.log.Warn("backend request failed", "endpoint", endpoint, "err", err)
		return fmt.Errorf("%w: %s: %v", apperr.ErrNetwork, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.BackendRequests.WithLabelValues(endpoint, metrics.Outcome(resp.StatusCode, nil)).Inc()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		be := &apperr.Backend{Status: resp.StatusCode, Detail: detailText(raw)}
		c.log.Info("backend rejected request", "endpoint", endpoint, "status", resp.StatusCode, "detail", be.Detail)
		return be
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", apperr.ErrNetwork, endpoint, err)
	}
	return nil
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// detailText достаёт текст ошибки: detail строкой, список {msg} или message.
func detailText(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return ""
	}
	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s
		}
		var items []validationItem
		if err := json.Unmarshal(eb.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return eb.Message
}
