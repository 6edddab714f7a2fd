package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports/mocks"
	rest "github.com/Gunvolt24/wb_tickets/internal/transport/http"
	"github.com/golang/mock/gomock"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func serve(t *testing.T, svc *mocks.MockTicketPurchaser, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := rest.NewHandler(svc, noopLogger{}, 0)
	r := rest.NewRouter(h, "", "test")

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var got struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v, body=%s", err, w.Body.String())
	}
	return got.Error
}

func TestPurchaseTickets_NoContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	svc.EXPECT().PurchaseTickets(gomock.Any(), domain.AccountID(7),
		domain.RawTicketRequest{"ADULT": json.Number("2"), "CHILD": json.Number("1")},
		domain.RawTicketRequest{"INFANT": json.Number("1")},
	).Return(nil)

	w := serve(t, svc, http.MethodPost, "/accounts/7/tickets",
		`{"ticket_requests":[{"ADULT":2,"CHILD":1},{"INFANT":1}]}`)

	if w.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d, body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("X-Request-ID must be set")
	}
}

func TestPurchaseTickets_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	svc.EXPECT().PurchaseTickets(gomock.Any(), domain.AccountID(7),
		domain.RawTicketRequest{"INFANT": json.Number("2")},
	).Return(domain.NewPurchaseError(domain.ReasonNoAdult, domain.MsgNoAdult))

	w := serve(t, svc, http.MethodPost, "/accounts/7/tickets", `{"ticket_requests":[{"INFANT":2}]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d, body=%s", w.Code, w.Body.String())
	}
	if got := errorMessage(t, w); got != domain.MsgNoAdult {
		t.Fatalf("want %q, got %q", domain.MsgNoAdult, got)
	}
}

func TestPurchaseTickets_NonIntegerAccountReachesService(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	// нецелый id → 0, отказ формирует сервис
	svc.EXPECT().PurchaseTickets(gomock.Any(), domain.AccountID(0),
		domain.RawTicketRequest{"ADULT": json.Number("1")},
	).Return(domain.NewPurchaseError(domain.ReasonInvalidAccount, domain.MsgInvalidAccount))

	w := serve(t, svc, http.MethodPost, "/accounts/abc/tickets", `{"ticket_requests":[{"ADULT":1}]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d, body=%s", w.Code, w.Body.String())
	}
	if got := errorMessage(t, w); got != domain.MsgInvalidAccount {
		t.Fatalf("want %q, got %q", domain.MsgInvalidAccount, got)
	}
}

func TestPurchaseTickets_BadBody(t *testing.T) {
	bodies := []string{
		"",
		"{",
		`{"ticket_requests":[{"ADULT":1}],"extra":true}`,
		`{"ticket_requests":{"ADULT":1}}`,
		`{"ticket_requests":[]} trailing`,
	}

	for _, body := range bodies {
		body := body
		t.Run(body, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockTicketPurchaser(ctrl)
			// сервис не вызывается

			w := serve(t, svc, http.MethodPost, "/accounts/1/tickets", body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d, body=%s", w.Code, w.Body.String())
			}
			if got := errorMessage(t, w); got != domain.MsgInvalidFormat {
				t.Fatalf("want %q, got %q", domain.MsgInvalidFormat, got)
			}
		})
	}
}

func TestPurchaseTickets_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"downstream", fmt.Errorf("%w: make payment: %w", domain.ErrDownstreamFailure, errors.New("broker down")), http.StatusBadGateway},
		{"timeout", fmt.Errorf("make payment: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockTicketPurchaser(ctrl)

			svc.EXPECT().PurchaseTickets(gomock.Any(), domain.AccountID(3),
				domain.RawTicketRequest{"ADULT": json.Number("1")},
			).Return(tt.err)

			w := serve(t, svc, http.MethodPost, "/accounts/3/tickets", `{"ticket_requests":[{"ADULT":1}]}`)

			if w.Code != tt.want {
				t.Fatalf("want %d, got %d, body=%s", tt.want, w.Code, w.Body.String())
			}
			if msg := errorMessage(t, w); strings.Contains(msg, "broker down") || strings.Contains(msg, "boom") {
				t.Fatalf("internal error details must not leak: %q", msg)
			}
		})
	}
}

func TestPurchaseTickets_HandlerTimeoutApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	svc.EXPECT().PurchaseTickets(gomock.Any(), domain.AccountID(5),
		domain.RawTicketRequest{"ADULT": json.Number("1")},
	).DoAndReturn(func(ctx context.Context, _ domain.AccountID, _ ...domain.RawTicketRequest) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("handler timeout must set a deadline")
		}
		return nil
	})

	h := rest.NewHandler(svc, noopLogger{}, 50*time.Millisecond)
	r := rest.NewRouter(h, "", "test")

	req := httptest.NewRequest(http.MethodPost, "/accounts/5/tickets", strings.NewReader(`{"ticket_requests":[{"ADULT":1}]}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestQuoteTickets_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	svc.EXPECT().Quote(gomock.Any(), domain.AccountID(11),
		domain.RawTicketRequest{"ADULT": json.Number("2"), "CHILD": json.Number("1"), "INFANT": json.Number("1")},
	).Return(domain.PurchaseOutcome{Seats: 3, Amount: 65}, nil)

	w := serve(t, svc, http.MethodPost, "/accounts/11/tickets/quote",
		`{"ticket_requests":[{"ADULT":2,"CHILD":1,"INFANT":1}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var got domain.PurchaseOutcome
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got != (domain.PurchaseOutcome{Seats: 3, Amount: 65}) {
		t.Fatalf("unexpected quote: %+v", got)
	}
}

func TestQuoteTickets_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	svc.EXPECT().Quote(gomock.Any(), domain.AccountID(11),
		domain.RawTicketRequest{"ADULT": json.Number("30")},
	).Return(domain.PurchaseOutcome{}, domain.TooManyTicketsError(30, 25))

	w := serve(t, svc, http.MethodPost, "/accounts/11/tickets/quote", `{"ticket_requests":[{"ADULT":30}]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d, body=%s", w.Code, w.Body.String())
	}
	if got := errorMessage(t, w); got != "The purchase request for 30 exceeded 25 tickets" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestGetPrices_200(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	svc.EXPECT().Rules().Return(domain.DefaultRules())

	w := serve(t, svc, http.MethodGet, "/prices", "")

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var got struct {
		Prices     map[string]int64 `json:"prices"`
		MaxTickets int              `json:"max_tickets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Prices["ADULT"] != 25 || got.Prices["CHILD"] != 15 || got.Prices["INFANT"] != 0 || len(got.Prices) != 3 {
		t.Fatalf("unexpected prices: %+v", got.Prices)
	}
	if got.MaxTickets != 25 {
		t.Fatalf("want max_tickets 25, got %d", got.MaxTickets)
	}
}

func TestNoRoute_404(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	w := serve(t, svc, http.MethodGet, "/no-such-route", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestMethodNotAllowed_405(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	w := serve(t, svc, http.MethodPost, "/prices", "")

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d, body=%s", w.Code, w.Body.String())
	}
	if allow := w.Header().Get("Allow"); allow != "GET" {
		t.Fatalf("want Allow: GET, got %q", allow)
	}
}

func TestPing_200(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	w := serve(t, svc, http.MethodGet, "/ping", "")

	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("want 200 pong, got %d %q", w.Code, w.Body.String())
	}
}

func TestMetrics_200(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTicketPurchaser(ctrl)

	w := serve(t, svc, http.MethodGet, "/metrics", "")

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	// Содержимое может меняться — достаточно проверить, что не пусто.
	if w.Body.Len() == 0 {
		t.Fatal("metrics body is empty")
	}
}
