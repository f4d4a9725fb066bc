// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/handler"
	"escpos-service/internal/middleware"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config           *config.Config
	logger           *zap.Logger
	commandService   *service.CommandService
	discoveryService *service.DiscoveryService
	eventBus         *service.EventBus
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	commandService *service.CommandService,
	discoveryService *service.DiscoveryService,
	eventBus *service.EventBus,
) *Router {
	return &Router{
		config:           config,
		logger:           logger,
		commandService:   commandService,
		discoveryService: discoveryService,
		eventBus:         eventBus,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if r.config.IsDevelopment() && r.config.IsDebugEnabled() {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))
	router.Use(middleware.BodyLimitMiddleware(r.config.Security.MaxBodyBytes))

	r.logger.Debug("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.commandService, r.config, r.logger)
	commandHandler := handler.NewCommandHandler(r.commandService, r.logger)
	discoveryHandler := handler.NewDiscoveryHandler(r.discoveryService, r.logger)
	wsHandler := handler.NewWebSocketHandler(
		r.commandService,
		r.eventBus,
		r.config.Security.AllowedOrigins,
		r.config.Security.MaxBodyBytes,
		r.logger,
	)

	healthHandler.RegisterRoutes(router.Group(""))
	api := router.Group("/api/v1")
	commandHandler.RegisterRoutes(api)
	discoveryHandler.RegisterRoutes(api)
	wsHandler.RegisterRoutes(router.Group("/ws"))

	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully",
		zap.Int("routes", len(router.Routes())),
		zap.Bool("printer", r.commandService.HasPrinter()),
	)
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
