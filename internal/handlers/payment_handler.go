package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tuntun/internal/models"
	"tuntun/internal/services"
)

type PaymentHandler struct {
	Service *services.PaymentService
	log     *zap.Logger
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   *Date           `json:"date"`
	Title  string          `json:"title"`
	Notes  string          `json:"notes"`
}

func (r *paymentRequest) payment(clientID string) *models.Payment {
	return &models.Payment{
		ClientID: clientID,
		Amount:   r.Amount,
		Date:     r.Date.OrZero(),
		Title:    r.Title,
		Notes:    r.Notes,
	}
}

func NewPaymentHandler(service *services.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: service, log: log.Named("payments")}
}

// @Summary      Client payments
// @Description  Payments of one client, newest first, with the amount paid so far
// @Tags         Payments
// @Produce      json
// @Param        id   path      string  true  "client id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /clients/{id}/payments [get]
func (h *PaymentHandler) ListByClient(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.Param("id")
	payments, err := h.Service.ListByClient(ctx, clientID)
	if err != nil {
		respondError(c, h.log, err, "Could not load payments")
		return
	}
	total, err := h.Service.ClientTotal(ctx, clientID)
	if err != nil {
		respondError(c, h.log, err, "Could not load payments")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payments":   payments,
		"total_paid": total,
	})
}

// @Summary      Record payment
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        id       path      string          true  "client id"
// @Param        payment  body      paymentRequest  true  "payment"
// @Success      201      {object}  models.Payment
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /clients/{id}/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := req.payment(c.Param("id"))
	if _, err := h.Service.Add(c.Request.Context(), p); err != nil {
		respondError(c, h.log, err, "Could not add payment")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) Update(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := req.payment(c.Param("id"))
	p.ID = c.Param("pid")
	if err := h.Service.Update(c.Request.Context(), p); err != nil {
		respondError(c, h.log, err, "Could not update payment")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id"), c.Param("pid")); err != nil {
		respondError(c, h.log, err, "Could not delete payment")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAll returns every payment, oldest first.
func (h *PaymentHandler) ListAll(c *gin.Context) {
	payments, err := h.Service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Could not load payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Total(c *gin.Context) {
	total, err := h.Service.Total(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Could not load payments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}
