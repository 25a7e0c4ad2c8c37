package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tuntun/internal/services"
)

type DashboardHandler struct {
	Service *services.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service *services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Service: service, log: log.Named("dashboard")}
}

// @Summary      Dashboard
// @Description  Totals and day-bucketed charts of client growth and payment history
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  models.DashboardSummary
// @Failure      500  {object}  map[string]string
// @Router       /dashboard [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	data, err := h.Service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Could not load dashboard")
		return
	}
	c.JSON(http.StatusOK, data)
}
