package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tuntun/internal/services"
)

type StatementHandler struct {
	Service *services.StatementService
	log     *zap.Logger
}

func NewStatementHandler(service *services.StatementService, log *zap.Logger) *StatementHandler {
	return &StatementHandler{Service: service, log: log.Named("statements")}
}

// @Summary      Download statement
// @Tags         Statements
// @Produce      application/pdf
// @Param        id   path  string  true  "client id"
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]string
// @Router       /clients/{id}/statement [get]
func (h *StatementHandler) Download(c *gin.Context) {
	body, name, err := h.Service.Render(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "Could not build statement")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", body)
}

func (h *StatementHandler) Email(c *gin.Context) {
	if err := h.Service.Email(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "Could not send statement")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Statement sent"})
}
