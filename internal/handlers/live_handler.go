package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tuntun/internal/models"
	"tuntun/internal/realtime"
	"tuntun/internal/services"
)

// LiveHandler streams query results over WebSocket and re-sends them
// whenever the underlying data changes.
type LiveHandler struct {
	clients  *services.ClientService
	payments *services.PaymentService
	hub      *realtime.Hub
	log      *zap.Logger
}

func NewLiveHandler(clients *services.ClientService, payments *services.PaymentService, hub *realtime.Hub, log *zap.Logger) *LiveHandler {
	return &LiveHandler{clients: clients, payments: payments, hub: hub, log: log.Named("live")}
}

func (h *LiveHandler) onErr(topic string) func(error) {
	return func(err error) {
		h.log.Error("live query failed", zap.String("topic", topic), zap.Error(err))
	}
}

// Clients streams the client list, filtered by ?q= when present.
func (h *LiveHandler) Clients(c *gin.Context) {
	query := c.Query("q")
	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		return
	}
	realtime.Serve(c.Request.Context(), conn, h.hub, realtime.TopicClients,
		func(ctx context.Context) ([]*models.Client, error) {
			return h.clients.List(ctx, query)
		}, h.onErr(realtime.TopicClients))
}

// ClientPayments streams one client's payments, newest first.
func (h *LiveHandler) ClientPayments(c *gin.Context) {
	clientID := c.Param("id")
	if _, err := h.clients.Get(c.Request.Context(), clientID); err != nil {
		respondError(c, h.log, err, "Could not load payments")
		return
	}
	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		return
	}
	topic := realtime.ClientPaymentsTopic(clientID)
	realtime.Serve(c.Request.Context(), conn, h.hub, topic,
		func(ctx context.Context) ([]*models.Payment, error) {
			return h.payments.ListByClient(ctx, clientID)
		}, h.onErr(topic))
}

// Payments streams every payment, oldest first.
func (h *LiveHandler) Payments(c *gin.Context) {
	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		return
	}
	realtime.Serve(c.Request.Context(), conn, h.hub, realtime.TopicPayments,
		h.payments.ListAll, h.onErr(realtime.TopicPayments))
}
