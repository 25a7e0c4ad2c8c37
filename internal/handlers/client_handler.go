package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tuntun/internal/models"
	"tuntun/internal/services"
)

type ClientHandler struct {
	Service *services.ClientService
	log     *zap.Logger
}

type clientRequest struct {
	SerialNumber  string          `json:"serial_number"`
	ClientName    string          `json:"client_name"`
	AccountNumber string          `json:"account_number"`
	OpeningDate   *Date           `json:"opening_date"`
	ClosingDate   *Date           `json:"closing_date"`
	PlanPrice     decimal.Decimal `json:"plan_price"`
	Mobile        string          `json:"mobile"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	Notes         string          `json:"notes"`
}

func (r *clientRequest) apply(client *models.Client) {
	client.SerialNumber = r.SerialNumber
	client.ClientName = r.ClientName
	client.AccountNumber = r.AccountNumber
	client.OpeningDate = r.OpeningDate.OrZero()
	client.ClosingDate = r.ClosingDate.Ptr()
	client.PlanPrice = r.PlanPrice
	client.Mobile = r.Mobile
	client.Email = r.Email
	client.Address = r.Address
	client.Notes = r.Notes
}

func NewClientHandler(service *services.ClientService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{Service: service, log: log.Named("clients")}
}

// @Summary      List clients
// @Description  All clients by name, or those whose name or account number contains q
// @Tags         Clients
// @Produce      json
// @Param        q    query     string  false  "search text"
// @Success      200  {array}   models.Client
// @Failure      500  {object}  map[string]string
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.Service.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.log, err, "Could not load clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// @Summary      Add client
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Param        client  body      clientRequest  true  "client"
// @Success      201     {object}  models.Client
// @Failure      400     {object}  map[string]string
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client := &models.Client{}
	req.apply(client)
	if _, err := h.Service.Add(c.Request.Context(), client); err != nil {
		respondError(c, h.log, err, "Couldn't save client")
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) GetByID(c *gin.Context) {
	client, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		respondError(c, h.log, err, "Could not load client")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	existing, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		respondError(c, h.log, err, "Couldn't save client")
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OpeningDate == nil || req.OpeningDate.IsZero() {
		req.OpeningDate = &Date{existing.OpeningDate}
	}
	req.apply(existing)

	if err := h.Service.Update(c.Request.Context(), existing); err != nil {
		respondError(c, h.log, err, "Couldn't save client")
		return
	}
	c.JSON(http.StatusOK, existing)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		respondError(c, h.log, err, "Could not delete client")
		return
	}
	c.Status(http.StatusNoContent)
}
