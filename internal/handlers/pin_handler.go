package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tuntun/internal/middleware"
	"tuntun/internal/pin"
	"tuntun/internal/services"
)

// PinHandler runs each request through a fresh keypad, so the HTTP flows
// follow the same mode transitions as the terminal keypad.
type PinHandler struct {
	security *services.SecurityService
	sessions *middleware.Sessions
	log      *zap.Logger
	mu       sync.Mutex
}

type unlockRequest struct {
	Pin string `json:"pin" binding:"required"`
}

type setPinRequest struct {
	Pin     string `json:"pin" binding:"required"`
	Confirm string `json:"confirm" binding:"required"`
}

type changePinRequest struct {
	Old     string `json:"old" binding:"required"`
	Pin     string `json:"pin" binding:"required"`
	Confirm string `json:"confirm" binding:"required"`
}

func NewPinHandler(security *services.SecurityService, sessions *middleware.Sessions, log *zap.Logger) *PinHandler {
	return &PinHandler{security: security, sessions: sessions, log: log.Named("pin")}
}

// @Summary      PIN status
// @Tags         PIN
// @Produce      json
// @Success      200  {object}  models.PinStatus
// @Router       /pin/status [get]
func (h *PinHandler) Status(c *gin.Context) {
	st, err := h.security.Status()
	if err != nil {
		respondError(c, h.log, err, "Could not read security settings")
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Unlock
// @Description  Verifies the PIN and returns a session token for the data routes
// @Tags         PIN
// @Accept       json
// @Produce      json
// @Param        body  body      unlockRequest  true  "PIN"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /pin/unlock [post]
func (h *PinHandler) Unlock(c *gin.Context) {
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	pad, ok := h.pad(c, true)
	if !ok {
		return
	}
	ev := pad.Enter(req.Pin)
	if ev == nil || ev.Kind != pin.EventUnlockSuccess {
		h.padError(c, ev)
		return
	}

	token, exp, err := h.sessions.Issue()
	if err != nil {
		h.log.Error("issue session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not unlock"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": exp.UTC().Format(time.RFC3339),
	})
}

// Create sets the first PIN.
func (h *PinHandler) Create(c *gin.Context) {
	var req setPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	pad, ok := h.pad(c, false)
	if !ok {
		return
	}
	pad.SetMode(pin.Create)
	if ev := pad.Enter(req.Pin); ev != nil {
		h.padError(c, ev)
		return
	}
	h.finish(c, pad.Enter(req.Confirm), pin.EventPinSet, http.StatusCreated, "PIN set")
}

// Change replaces the PIN after checking the current one.
func (h *PinHandler) Change(c *gin.Context) {
	var req changePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	pad, ok := h.pad(c, true)
	if !ok {
		return
	}
	pad.SetMode(pin.ChangeOld)
	for _, p := range []string{req.Old, req.Pin} {
		if ev := pad.Enter(p); ev != nil {
			h.padError(c, ev)
			return
		}
	}
	h.finish(c, pad.Enter(req.Confirm), pin.EventPinChanged, http.StatusOK, "PIN changed")
}

// Remove disables the app lock.
func (h *PinHandler) Remove(c *gin.Context) {
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	pad, ok := h.pad(c, true)
	if !ok {
		return
	}
	pad.SetMode(pin.Remove)
	h.finish(c, pad.Enter(req.Pin), pin.EventPinRemoved, http.StatusOK, "PIN removed")
}

// pad builds a keypad and checks that a PIN is (or is not) configured.
func (h *PinHandler) pad(c *gin.Context, wantSet bool) (*pin.Pad, bool) {
	pad, err := pin.NewPad(h.security)
	if err != nil {
		respondError(c, h.log, err, "Could not read security settings")
		return nil, false
	}
	if set := pad.State().IsPinSet; set != wantSet {
		msg := "PIN is not set"
		if set {
			msg = "PIN is already set"
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return nil, false
	}
	return pad, true
}

func (h *PinHandler) finish(c *gin.Context, ev *pin.Event, want pin.EventKind, status int, message string) {
	if ev == nil || ev.Kind != want {
		h.padError(c, ev)
		return
	}
	h.log.Info(ev.Kind.String())
	c.JSON(status, gin.H{"message": message})
}

func (h *PinHandler) padError(c *gin.Context, ev *pin.Event) {
	if ev == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incomplete PIN entry"})
		return
	}
	switch {
	case errors.Is(ev.Err, pin.ErrLocked):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": ev.Message})
	case errors.Is(ev.Err, pin.ErrIncorrect):
		c.JSON(http.StatusUnauthorized, gin.H{"error": ev.Message})
	case errors.Is(ev.Err, pin.ErrInvalid), ev.Err == nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": ev.Message})
	default:
		h.log.Error("pin storage", zap.Error(ev.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": ev.Message})
	}
}
