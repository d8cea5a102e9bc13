package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/n0S3curity/AquaGrow/config"
	"github.com/n0S3curity/AquaGrow/controllers"
	"github.com/n0S3curity/AquaGrow/logbuf"
	"github.com/n0S3curity/AquaGrow/notify"
	"github.com/n0S3curity/AquaGrow/registry"
	"github.com/n0S3curity/AquaGrow/services"
	"github.com/n0S3curity/AquaGrow/store"
)

//go:embed static
var staticFS embed.FS

const (
	configPath      = "config.json"
	statePath       = "sensors.json"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load environment variables
	godotenv.Load()

	buf := logbuf.NewBuffer(logbuf.MaxEntries)
	log := slog.New(logbuf.NewHandler(buf, slog.NewTextHandler(os.Stderr, nil)))
	slog.SetDefault(log)

	cfg, err := config.Load(configPath, log)
	if err != nil {
		if !errors.Is(err, config.ErrCreatedSample) {
			log.Error("configuration error", "error", err)
		}
		os.Exit(1)
	}

	reg := registry.New(cfg.Sensors, cfg.Arduino.MoistureLowIsDry, log)
	st := store.New(statePath, log)
	hub := controllers.NewHub(log)
	ingest := services.NewIngestor(reg, st, hub, log)

	var commander services.Commander = services.NewHTTPCommander()
	if cfg.Simulator.Enabled {
		log.Info("simulator enabled, watering commands are simulated")
		commander = services.NewSimCommander()
	}
	watering := services.NewCoordinator(reg, commander, cfg.Irrigation.WateringDurationSeconds, log)

	notifier := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	alerter := services.NewAlerter(st, notifier, hub, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go alerter.Run(ctx)
	if cfg.Simulator.Enabled {
		go services.NewSimulator(ingest, cfg, log).Run(ctx)
	}

	sc := &controllers.SensorController{
		Registry: reg,
		Store:    st,
		Ingest:   ingest,
		Watering: watering,
		Logs:     buf,
		LogLimit: cfg.GUI.LogDisplayLimit,
		Log:      log,
	}

	// Set up Gin router with CORS configuration
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type"},
	}))

	dashboard, err := staticFS.ReadFile("static/dashboard.html")
	if err != nil {
		log.Error("embedded dashboard missing", "error", err)
		os.Exit(1)
	}
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", dashboard)
	})
	staticRoot, _ := fs.Sub(staticFS, "static")
	r.StaticFS("/static", http.FS(staticRoot))

	r.GET("/api/status", sc.GetAllStatus)
	r.GET("/api/status/:name", sc.GetSensorStatus)
	r.GET("/api/update", sc.UpdateSensor)
	r.POST("/arduino/data", sc.ReceiveArduinoData)
	r.POST("/api/water", sc.Water)
	r.GET("/api/logs", sc.GetLogs)
	r.GET("/ws", hub.Handle)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down, letting in-flight requests finish")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown did not complete cleanly", "error", err)
	}
}
