package handlers

import (
	"errors"
	"net/http"
	"time"

	"vibenest/internal/service"
	"vibenest/internal/state"

	"github.com/gin-gonic/gin"
)

// Common response strings to avoid magic strings and typos.
const (
	errVibeNotFound = "Vibe not found"
	msgSystemReset  = "System Reset"
	errGetLogs      = "failed to load logs"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"success": false, "error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// @Summary      Current vibe snapshot
// @Description  Mode, active vibe with preset details, pending proposal and the last 5 transcript entries
// @Tags         vibe
// @Produce      json
// @Success      200  {object}  models.VibeState
// @Router       /state [get]
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Vibe.GetState(c.Request.Context()))
}

// @Summary      Force the current vibe
// @Tags         vibe
// @Produce      json
// @Param        name  path  string  true  "Vibe key (focus|chill|chaos|forest|midnight)"
// @Success      200  {object}  map[string]interface{}  "success, state"
// @Failure      404  {object}  map[string]interface{}
// @Router       /set-vibe/{name} [post]
func (h *Handler) setVibe(c *gin.Context) {
	name := c.Param("name")
	snap, err := h.services.Vibe.SetVibe(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, state.ErrUnknownVibe) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": errVibeNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to set vibe", "set_vibe_failed", err, "vibe", name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": snap})
}

// @Summary      Toggle interaction mode
// @Tags         vibe
// @Produce      json
// @Param        mode  path  string  true  "quick | conversation"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /set-mode/{mode} [post]
func (h *Handler) setMode(c *gin.Context) {
	mode := c.Param("mode")
	if err := h.services.Vibe.SetMode(c.Request.Context(), mode); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mode": mode})
}

// @Summary      Reset state and conversation memory
// @Tags         vibe
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /action/reset [post]
func (h *Handler) reset(c *gin.Context) {
	h.services.Vibe.Reset(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": msgSystemReset})
}

// @Summary      List vibe events
// @Tags         logs
// @Produce      json
// @Param        from  query  string  false  "RFC3339 lower bound"
// @Param        to    query  string  false  "RFC3339 upper bound"
// @Param        type  query  string  false  "Event type filter"
// @Success      200  {array}   models.VibeEvent
// @Failure      400  {object}  map[string]interface{}
// @Router       /logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	var filter service.LogFilter

	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid 'from': " + err.Error()})
			return
		}
		filter.From = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid 'to': " + err.Error()})
			return
		}
		filter.To = t
	}
	filter.Type = c.Query("type")

	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetLogs, "get_logs_failed", err)
		return
	}
	c.JSON(http.StatusOK, events)
}
