package handlers

import (
	"autofocus_analysis/internal/logger"
	"autofocus_analysis/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Snapshot feed on the same port
	router.GET("/ws", h.requestLogMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requestLogMiddleware)
	{
		h.registerReportRoutes(api)
		h.registerAnalysisRoutes(api)
		api.GET("/logs", h.getLogs)
	}
}

func (h *Handler) registerReportRoutes(api *gin.RouterGroup) {
	reports := api.Group("/reports")
	{
		// Body example: {"dir":"/home/me/Documents/N.I.N.A/AutoFocus"}
		reports.POST("/load", h.loadReports)
		reports.GET("", h.listReports)
	}
}

func (h *Handler) registerAnalysisRoutes(api *gin.RouterGroup) {
	an := api.Group("/analysis")
	{
		an.GET("", h.getAnalysis)
		// Body example: {"temperature_from":-5,"selected_filter":"L","date_from":"2024-03-01"}
		an.PATCH("/filters", h.patchFilters)
		an.GET("/reports", h.getFilteredReports)
	}
}

// logAndJSONError logs err under logKey and answers with {"error": userMsg}.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", requestID(c)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
