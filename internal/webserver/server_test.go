package webserver

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/config"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/domain"
)

type stubCheckout struct {
	orders   []domain.Order
	answered map[string]bool
	err      error
}

func (s *stubCheckout) Acknowledge(_ context.Context, order domain.Order) error {
	s.orders = append(s.orders, order)
	if s.err != nil {
		return s.err
	}
	if s.answered == nil {
		s.answered = map[string]bool{}
	}
	if s.answered[order.QueryID] {
		return errors.New("query was already answered")
	}
	s.answered[order.QueryID] = true
	return nil
}

func newTestServer(checkout *stubCheckout) *Server {
	logger, _ := logtest.NewNullLogger()
	cfg := config.Config{
		WebAppURL:   "https://shop.example.com",
		HomepageURL: "https://example.com",
		HTTPPort:    8000,
	}
	return New(cfg, checkout, logrus.NewEntry(logger))
}

func postWebData(t *testing.T, srv *Server, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest("POST", "/web-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}

	return resp.StatusCode, strings.TrimSpace(string(raw))
}

func TestWebDataSuccess(t *testing.T) {
	checkout := &stubCheckout{}
	srv := newTestServer(checkout)

	status, body := postWebData(t, srv, `{"queryId":"q1","products":[{"title":"Plan A"}],"totalPrice":100}`)

	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if body != "{}" {
		t.Fatalf("expected empty JSON object, got %s", body)
	}

	if len(checkout.orders) != 1 {
		t.Fatalf("expected exactly one acknowledge call, got %d", len(checkout.orders))
	}

	order := checkout.orders[0]
	if order.QueryID != "q1" || order.TotalPrice != 100 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if len(order.Products) != 1 || order.Products[0].Title != "Plan A" {
		t.Fatalf("unexpected products: %+v", order.Products)
	}
}

func TestWebDataDuplicateQueryID(t *testing.T) {
	checkout := &stubCheckout{}
	srv := newTestServer(checkout)

	status, _ := postWebData(t, srv, `{"queryId":"q1","products":[{"title":"Plan A"}],"totalPrice":100}`)
	if status != 200 {
		t.Fatalf("expected first submission to succeed, got %d", status)
	}

	status, body := postWebData(t, srv, `{"queryId":"q1","products":[{"title":"Plan A"}],"totalPrice":100}`)
	if status != 500 {
		t.Fatalf("expected 500 for duplicate query id, got %d", status)
	}
	if body != "{}" {
		t.Fatalf("expected empty JSON object on failure, got %s", body)
	}
}

func TestWebDataEmptyProducts(t *testing.T) {
	checkout := &stubCheckout{}
	srv := newTestServer(checkout)

	status, body := postWebData(t, srv, `{"queryId":"q2","products":[],"totalPrice":0}`)

	if status != 200 {
		t.Fatalf("expected 200 for empty products, got %d", status)
	}
	if body != "{}" {
		t.Fatalf("expected empty JSON object, got %s", body)
	}

	if len(checkout.orders) != 1 || len(checkout.orders[0].Products) != 0 {
		t.Fatalf("expected order with empty cart, got %+v", checkout.orders)
	}
}

func TestWebDataValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "missing query id", body: `{"products":[{"title":"A"}],"totalPrice":100}`},
		{name: "empty query id", body: `{"queryId":"","products":[],"totalPrice":100}`},
		{name: "missing total price", body: `{"queryId":"q1","products":[{"title":"A"}]}`},
		{name: "product without title", body: `{"queryId":"q1","products":[{}],"totalPrice":100}`},
		{name: "malformed json", body: `{"queryId":`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			checkout := &stubCheckout{}
			srv := newTestServer(checkout)

			status, _ := postWebData(t, srv, tc.body)

			if status != 400 {
				t.Fatalf("expected 400, got %d", status)
			}
			if len(checkout.orders) != 0 {
				t.Fatalf("expected no acknowledge call before validation, got %d", len(checkout.orders))
			}
		})
	}
}

func TestWebDataZeroTotalPricePassesValidation(t *testing.T) {
	checkout := &stubCheckout{}
	srv := newTestServer(checkout)

	status, _ := postWebData(t, srv, `{"queryId":"q3","products":[{"title":"Free"}],"totalPrice":0}`)

	if status != 200 {
		t.Fatalf("expected explicit zero total to pass validation, got %d", status)
	}
}

func TestLanding(t *testing.T) {
	srv := newTestServer(&stubCheckout{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "https://example.com") {
		t.Fatalf("expected homepage in landing body, got %s", raw)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubCheckout{})

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `"status":"ok"`) {
		t.Fatalf("unexpected health body: %s", raw)
	}
}
