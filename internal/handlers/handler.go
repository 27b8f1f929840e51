package handlers

import (
	"foodlog/internal/logger"
	"foodlog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultMaxImageBytes int64 = 10 << 20

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services      *service.Service
	log           *logger.Logger
	maxImageBytes int64
}

// Option tweaks a Handler.
type Option func(*Handler)

// WithMaxImageBytes bounds uploaded and dropped images.
func WithMaxImageBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxImageBytes = n
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, maxImageBytes: defaultMaxImageBytes}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Live session stream (HTTP upgrade), token in the query string
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/sessions", h.createSession)
		h.registerSessionRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	session := api.Group("/session", h.sessionMiddleware)
	{
		session.GET("", h.getSession)
		session.DELETE("", h.endSession)
		session.POST("/capture", h.startCapture)
		session.POST("/image", h.uploadImage)
		// Body example: {"name":"lunch.png","type":"image/png","data":"iVBORw0..."}
		session.POST("/image/drop", h.dropImage)
		session.GET("/image", h.getImage)
		session.DELETE("/image", h.clearImage)
		session.POST("/analyze", h.analyze)
		session.GET("/results", h.getResults)
		session.POST("/save", h.save)
		session.POST("/new-scan", h.newScan)
		session.POST("/home", h.goHome)
		session.GET("/notifications", h.getNotifications)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs", h.sessionMiddleware)
	{
		logs.GET("", h.getLogs)
		logs.GET("/", h.getLogs)
	}
}
