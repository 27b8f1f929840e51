package handlers

import (
	"net/http"
	"strings"

	"foodlog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxSessionID = "sessionId"
	ctxFlow      = "flow"
)

func (h *Handler) sessionMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	id, f, err := h.resolveSession(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxSessionID, id)
	c.Set(ctxFlow, f)
	c.Next()
}

// resolveSession turns a session token into the session id and its flow.
func (h *Handler) resolveSession(token string) (string, service.Flow, error) {
	id, err := h.services.Authorize(token)
	if err != nil {
		return "", nil, err
	}
	f, err := h.services.Flow(id)
	if err != nil {
		return "", nil, err
	}
	return id, f, nil
}

// flowFrom returns the flow stored by sessionMiddleware.
func flowFrom(c *gin.Context) service.Flow {
	v, ok := c.Get(ctxFlow)
	if !ok {
		return nil
	}
	f, _ := v.(service.Flow)
	return f
}
