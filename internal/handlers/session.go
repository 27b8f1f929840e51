package handlers

import (
	"context"
	"errors"
	"net/http"

	"foodlog/internal/flow"
	"foodlog/internal/models"
	"foodlog/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusEnded   = "ended"
	statusCapture = "capture"
	statusPreview = "preview"
	statusCleared = "cleared"
	statusSubmit  = "processing"
	statusSaving  = "saving"
	statusHome    = "home"

	errCreateSession   = "failed to create session"
	errEndSession      = "failed to end session"
	errNoSession       = "session not resolved"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// flowErrorStatus maps flow and session errors to an HTTP status.
func flowErrorStatus(err error) int {
	switch {
	case errors.Is(err, flow.ErrInvalidFileType), errors.Is(err, flow.ErrInvalidImage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, flow.ErrTransitionIgnored), errors.Is(err, flow.ErrNoPreview):
		return http.StatusConflict
	case errors.Is(err, flow.ErrClosed), errors.Is(err, service.ErrSessionNotFound):
		return http.StatusGone
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondFlowError writes err using flowErrorStatus. Only unexpected
// errors are logged; rejected files and ignored actions are user feedback.
func (h *Handler) respondFlowError(c *gin.Context, logKey string, err error) {
	code := flowErrorStatus(err)
	if code == http.StatusInternalServerError {
		h.logAndJSONError(c, code, "internal error", logKey, err, "session_id", c.GetString(ctxSessionID))
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// respondWithStatusAndSession replies with a status and the current session view.
func respondWithStatusAndSession(c *gin.Context, f service.Flow, status string, extra gin.H) {
	resp := gin.H{"status": status, "session": f.Snapshot()}
	for k, v := range extra {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// requireFlow returns the session flow or aborts with 401.
func requireFlow(c *gin.Context) (service.Flow, bool) {
	f := flowFrom(c)
	if f == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNoSession})
		return nil, false
	}
	return f, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Create scan session
// @Description  Starts a session on the HOME screen and returns its bearer token.
// @Tags         session
// @Produce      json
// @Success      201  {object}  service.SessionTicket
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sessions [post]
func (h *Handler) createSession(c *gin.Context) {
	ticket, err := h.services.Create(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateSession, "session_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  models.SessionSnapshot
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/session [get]
// @Security     BearerAuth
func (h *Handler) getSession(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.Snapshot())
}

// @Summary      End session
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/session [delete]
// @Security     BearerAuth
func (h *Handler) endSession(c *gin.Context) {
	id := c.GetString(ctxSessionID)
	if err := h.services.End(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusGone, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errEndSession, "session_end_failed", err, "session_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusEnded})
}

// @Summary      Open the capture screen
// @Description  HOME, CAPTURE or RESULTS → CAPTURE. Ignored (409) while processing.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session"
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/session/capture [post]
// @Security     BearerAuth
func (h *Handler) startCapture(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	if err := f.StartCapture(); err != nil {
		h.respondFlowError(c, "start_capture_failed", err)
		return
	}
	respondWithStatusAndSession(c, f, statusCapture, nil)
}

// @Summary      Start another scan
// @Description  Alias of capture, used from the results screen.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session"
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/session/new-scan [post]
// @Security     BearerAuth
func (h *Handler) newScan(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	if err := f.NewScan(); err != nil {
		h.respondFlowError(c, "new_scan_failed", err)
		return
	}
	respondWithStatusAndSession(c, f, statusCapture, nil)
}

// @Summary      Return home
// @Description  Any screen → HOME. Cancels pending processing or save timers.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session"
// @Router       /api/v1/session/home [post]
// @Security     BearerAuth
func (h *Handler) goHome(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	f.ReturnHome()
	respondWithStatusAndSession(c, f, statusHome, nil)
}

// @Summary      Discard the preview
// @Description  "Choose different": drops the selected image, stays on CAPTURE.
// @Tags         image
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session"
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/session/image [delete]
// @Security     BearerAuth
func (h *Handler) clearImage(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	if err := f.ClearPreview(); err != nil {
		h.respondFlowError(c, "clear_preview_failed", err)
		return
	}
	respondWithStatusAndSession(c, f, statusCleared, nil)
}

// @Summary      Analyze the preview
// @Description  CAPTURE → PROCESSING with the selected image. Results follow automatically.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session"
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/session/analyze [post]
// @Security     BearerAuth
func (h *Handler) analyze(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	if err := f.Analyze(); err != nil {
		h.respondFlowError(c, "analyze_failed", err)
		return
	}
	respondWithStatusAndSession(c, f, statusSubmit, nil)
}

// @Summary      Nutrition results
// @Tags         session
// @Produce      json
// @Success      200  {object}  flow.Results
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/session/results [get]
// @Security     BearerAuth
func (h *Handler) getResults(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	res, err := f.Results()
	if err != nil {
		h.respondFlowError(c, "results_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Log the meal
// @Description  Confirms the results; the session returns HOME after the save delay. Nothing is persisted.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session"
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/session/save [post]
// @Security     BearerAuth
func (h *Handler) save(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	if err := f.Save(); err != nil {
		h.respondFlowError(c, "save_failed", err)
		return
	}
	respondWithStatusAndSession(c, f, statusSaving, nil)
}

// @Summary      Drain notifications
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, notifications"
// @Router       /api/v1/session/notifications [get]
// @Security     BearerAuth
func (h *Handler) getNotifications(c *gin.Context) {
	f, ok := requireFlow(c)
	if !ok {
		return
	}
	notes := f.Notifications()
	if notes == nil {
		notes = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(notes),
		"notifications": notes,
	})
}
