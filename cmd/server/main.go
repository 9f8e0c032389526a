package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/config"
	"github.com/Nixie-Tech-LLC/athan/internal/db"
	"github.com/Nixie-Tech-LLC/athan/internal/metrics"
	"github.com/Nixie-Tech-LLC/athan/internal/mqtt"
	"github.com/Nixie-Tech-LLC/athan/internal/redis"
	"github.com/Nixie-Tech-LLC/athan/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(conn)
	storageSystem := InitStorage(cfg)
	m := metrics.New()

	rdb := redis.InitRedis(cfg.Redis.Address, cfg.Redis.Username, cfg.Redis.Password)
	defer rdb.Close()
	trackerCfg := tracker.Config{
		City:    cfg.Athan.City,
		Source:  store,
		Metrics: m,
	}
	cache := redis.NewCache(rdb)
	if err := cache.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, selection will not survive restarts")
	} else {
		trackerCfg.Cache = cache
	}

	mqttClient, err := mqtt.CreateMQTTClient(cfg.MQTT.BrokerURL, cfg.MQTT.ClientID)
	if err != nil {
		log.Warn().Err(err).Msg("mqtt unavailable, screens must poll")
	} else {
		broadcaster := mqtt.NewBroadcaster(mqttClient, cfg.Athan.City)
		defer broadcaster.Close()
		trackerCfg.Publisher = broadcaster
	}

	t := tracker.New(trackerCfg)

	if cfg.Athan.Timetable != "" {
		if err := importStartupTimetable(context.Background(), cfg, store, storageSystem); err != nil {
			log.Error().Err(err).Str("key", cfg.Athan.Timetable).Msg("startup timetable import failed")
		}
	}

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := t.Refresh(ctx, time.Now()); err != nil {
			log.Error().Err(err).Msg("next prayer refresh failed")
		}
	}
	refresh()

	c := cron.New()
	if _, err := c.AddFunc(cfg.Athan.Tick, refresh); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Athan.Tick).Msg("failed to set up cron job")
	}
	c.Start()
	defer c.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if err := RegisterRoutes(r, cfg, store, storageSystem, t, m, LoadTemplates()); err != nil {
		log.Fatal().Err(err).Msg("failed to register routes")
	}

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Str("city", cfg.Athan.City).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
