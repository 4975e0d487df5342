package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "surveydesk/docs" // swagger docs

	"surveydesk/internal/config"
	"surveydesk/internal/di"
	"surveydesk/internal/handler"
	"surveydesk/internal/logger"
	"surveydesk/internal/router"
)

// @title Survey Desk API
// @version 1.0
// @description Organisational survey collection with HPO and leadership questionnaires, reports and CSV export.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := echo.New()
	e.HideBanner = true

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := di.BuildContainer(initCtx, cfg, reg, zlog)
	cancelInit()
	if err != nil {
		zlog.Error("database unavailable, serving setup instructions", zap.Error(err))
		router.RegisterSetup(e, cfg, reg, handler.NewSetupHandler(err, cfg.SetupInstructions()))
	} else {
		defer func() { _ = container.Cleanup() }()
		router.Register(e, cfg, container.JWT, reg, router.Handlers{
			Auth:    handler.NewAuthHandler(container.Auth),
			Users:   handler.NewUserHandler(container.Users),
			Surveys: handler.NewSurveyHandler(container.Surveys),
			Reports: handler.NewReportHandler(container.Reports),
			Admin:   handler.NewAdminHandler(container.Surveys, container.Reports),
		})
	}

	zlog.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		addr := ":" + cfg.ServerPort
		zlog.Info("server starting", zap.String("addr", addr), zap.String("db_driver", cfg.DB.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server start", zap.Error(err))
		}
	}()

	<-stop

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
