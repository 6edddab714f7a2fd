package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handler — HTTP-обработчики покупки билетов.
type Handler struct {
	service        ports.TicketPurchaser
	log            ports.Logger
	handlerTimeout time.Duration // 0 — без собственного таймаута
}

func NewHandler(service ports.TicketPurchaser, log ports.Logger, handlerTimeout time.Duration) *Handler {
	return &Handler{service: service, log: log, handlerTimeout: handlerTimeout}
}

// purchaseRequest — тело POST /accounts/:id/tickets и /quote.
type purchaseRequest struct {
	TicketRequests []domain.RawTicketRequest `json:"ticket_requests"`
}

type pricesResponse struct {
	Prices     map[domain.TicketType]int64 `json:"prices"`
	MaxTickets int                         `json:"max_tickets"`
}

// NewRouter — gin-роутер сервиса; serviceName уходит в otelgin, ginMode — "debug" | "release" | "test".
func NewRouter(h *Handler, serviceName, ginMode string) *gin.Engine {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/prices", h.getPrices)

	accounts := r.Group("/accounts/:id")
	accounts.POST("/tickets", h.purchaseTickets)
	accounts.POST("/tickets/quote", h.quoteTickets)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	return r
}

func (h *Handler) getPrices(c *gin.Context) {
	rules := h.service.Rules()
	prices := make(map[domain.TicketType]int64, len(domain.TicketTypes))
	for _, t := range domain.TicketTypes {
		prices[t] = rules.Prices().Price(t)
	}
	c.JSON(http.StatusOK, pricesResponse{Prices: prices, MaxTickets: rules.MaxTickets()})
}

func (h *Handler) purchaseTickets(c *gin.Context) {
	accountID, req, ok := h.bindPurchase(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.service.PurchaseTickets(ctx, accountID, req.TicketRequests...); err != nil {
		h.writeError(c, "PurchaseTickets", accountID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) quoteTickets(c *gin.Context) {
	accountID, req, ok := h.bindPurchase(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	outcome, err := h.service.Quote(ctx, accountID, req.TicketRequests...)
	if err != nil {
		h.writeError(c, "Quote", accountID, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// bindPurchase — account id из пути и строгий разбор тела.
// Нецелый id не отклоняется здесь: он превращается в 0 и ловится проверкой аккаунта.
func (h *Handler) bindPurchase(c *gin.Context) (domain.AccountID, purchaseRequest, bool) {
	idParam := c.Param("id")
	accountID := domain.ParseAccountID(idParam)
	c.Request = c.Request.WithContext(ctxmeta.WithAccountID(c.Request.Context(), idParam))

	var req purchaseRequest
	if err := httpx.DecodeStrictJSON(c, &req); err != nil {
		h.log.Warnf(c.Request.Context(), "bad purchase body account=%s: %v", idParam, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.MsgInvalidFormat})
		return 0, purchaseRequest{}, false
	}
	return accountID, req, true
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.handlerTimeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.handlerTimeout)
}

// writeError — 400 для нарушения правил, 502 для отказа оплаты/брони, 504 по таймауту, иначе 500.
func (h *Handler) writeError(c *gin.Context, op string, accountID domain.AccountID, err error) {
	var pe *domain.PurchaseError
	switch {
	case errors.As(err, &pe):
		c.JSON(http.StatusBadRequest, gin.H{"error": pe.Message})
	case errors.Is(err, domain.ErrInvalidPurchase):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDownstreamFailure):
		h.log.Errorf(c.Request.Context(), "%s failed account=%d err=%v", op, accountID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment or seat reservation failed"})
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warnf(c.Request.Context(), "%s timed out account=%d err=%v", op, accountID, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		h.log.Errorf(c.Request.Context(), "%s failed account=%d err=%v", op, accountID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
