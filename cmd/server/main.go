// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "escpos-service/docs"
	"escpos-service/internal/config"
	"escpos-service/internal/protocol"
	"escpos-service/internal/routes"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server

	transport        protocol.Transport
	commandService   *service.CommandService
	discoveryService *service.DiscoveryService
	eventBus         *service.EventBus
	stopEvents       context.CancelFunc
}

// @title ESC/POS Service API
// @version 1.0.0
// @description Encodes ESC/POS printer commands and sends jobs to a serial, USB or TCP receipt printer

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8085
// @BasePath /api/v1
func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "escpos-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeTransport(); err != nil {
		return nil, fmt.Errorf("failed to initialize printer transport: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.initializeServer()

	return app, nil
}

// initializeTransport builds the printer transport named by printer.connection
func (app *Application) initializeTransport() error {
	transport, err := protocol.CreateTransport(&app.config.Printer, app.logger)
	if err != nil {
		return err
	}
	app.transport = transport

	if transport == nil {
		app.logger.Info("No printer configured, running encode-only")
		return nil
	}
	app.logger.Info("Printer transport initialized", zap.String("connection", string(transport.Type())))
	return nil
}

// initializeServices creates service instances and opens the printer
func (app *Application) initializeServices() error {
	scanners, err := service.DefaultScanners(&app.config.Discovery, app.logger)
	if err != nil {
		return err
	}
	app.discoveryService = service.NewDiscoveryService(&app.config.Discovery, app.logger, scanners...)
	app.eventBus = service.NewEventBus(app.logger)
	var eventsCtx context.Context
	eventsCtx, app.stopEvents = context.WithCancel(context.Background())
	go app.eventBus.Run(eventsCtx)

	app.commandService = service.NewCommandService(app.transport, &app.config.Printer, app.logger)
	app.commandService.SetEventBus(app.eventBus)

	ctx, cancel := context.WithTimeout(context.Background(), app.config.Printer.JobTimeout)
	defer cancel()
	app.commandService.Connect(ctx)

	app.logger.Info("Services initialized successfully")
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	router := routes.NewRouter(app.config, app.logger, app.commandService, app.discoveryService, app.eventBus).SetupRouter()

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown(serverErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		app.shutdown("shutdown signal received")
		return nil
	case err := <-serverErr:
		app.shutdown("http server failed")
		return err
	}
}

// shutdown performs graceful shutdown
func (app *Application) shutdown(reason string) {
	serviceLogger := utils.NewServiceLogger(app.logger, "escpos-service")
	serviceLogger.LogServiceStop(reason)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	// close after the server so in-flight print jobs finish
	if err := app.commandService.Close(); err != nil {
		app.logger.Error("Printer close error", zap.Error(err))
	}
	app.stopEvents()

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}

// Start serves HTTP until a shutdown signal or a server failure
func (app *Application) Start() error {
	serverErr := make(chan error, 1)

	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	return app.waitForShutdown(serverErr)
}
