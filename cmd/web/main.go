package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/fitgptstudio/internal/api"
	"example.com/fitgptstudio/internal/chat"
	"example.com/fitgptstudio/internal/config"
	"example.com/fitgptstudio/internal/events"
	"example.com/fitgptstudio/internal/knowledge"
	"example.com/fitgptstudio/internal/logging"
	"example.com/fitgptstudio/internal/realtime"
	"example.com/fitgptstudio/internal/session"
	"example.com/fitgptstudio/internal/studio"
	httptransport "example.com/fitgptstudio/internal/transport/http"
	"example.com/fitgptstudio/internal/web"
)

func main() {
	loaded, dotenvErr := config.LoadDotEnv(".env", ".env.local")
	cfg := config.Load()

	logger := logging.WithService(logging.NewLogger(cfg.LogLevel), "fitgpt-web")
	if dotenvErr != nil {
		logger.WithError(dotenvErr).Warn("failed to load env file")
	} else if len(loaded) > 0 {
		logger.WithField("files", loaded).Debug("loaded env files")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Now()
	var repo *knowledge.InMemoryRepository
	var err error
	if cfg.SeedFile != "" {
		repo, err = knowledge.LoadFile(cfg.SeedFile, now)
	} else {
		repo, err = knowledge.NewInMemoryRepository(now)
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to load seed data")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	var dispatcher *events.Dispatcher
	if cfg.EventsEnabled() {
		eventsLogger := logger.WithField("component", "events")
		writer := events.NewWriter(events.WriterConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.ChatEventsTopic}, eventsLogger)
		defer writer.Close()
		dispatcher = events.NewDispatcher(writer, cfg.ChatEventsTopic, cfg.EventQueueSize, eventsLogger)
		go dispatcher.Start(ctx)
		publisher = dispatcher
		logger.WithField("brokers", cfg.KafkaBrokers).Info("chat events enabled")
	}

	hub := realtime.NewHub()
	sessions, err := chat.NewSessions(chat.SessionsConfig{
		Responder: chat.Config{
			Greeting: repo.Greeting(),
			Replies:  repo.Replies(),
			MinDelay: cfg.ChatReplyMinDelay,
			MaxDelay: cfg.ChatReplyMaxDelay,
		},
		TTL:      cfg.ChatSessionTTL,
		Setup:    studio.ChatFanout(hub, publisher),
		Teardown: hub.CloseKey,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to configure chat")
	}
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		sessions.Run(ctx, cfg.ChatSweepInterval)
	}()

	service := studio.NewService(repo, sessions, nil)
	manager := session.NewManager(session.Config{
		Secret:     cfg.SessionSecret,
		Issuer:     cfg.SessionIssuer,
		CookieName: cfg.SessionCookie,
		TTL:        cfg.ChatSessionTTL,
		Secure:     cfg.SessionSecure,
	}, logger.WithField("component", "session"))

	sockets := realtime.NewHandler(hub, realtime.Config{
		ClockInterval:  cfg.LiveClockInterval,
		AllowedOrigins: []string{cfg.CORSAllowedOrigin},
	}, logger.WithField("component", "realtime"))

	pages, err := web.NewPages(service, manager, logger.WithField("component", "web"))
	if err != nil {
		logger.WithError(err).Fatal("failed to parse templates")
	}
	handler := api.NewHandler(service, manager, sockets, logger.WithField("component", "api"))

	router := chi.NewRouter()
	router.NotFound(api.NotFound)
	router.MethodNotAllowed(api.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httptransport.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(httptransport.CORS(cfg.CORSAllowedOrigin))
	router.Use(manager.Wrap)

	handler.RegisterRoutes(router)
	pages.RegisterRoutes(router)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:           cfg.HTTPAddress,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, router)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithField("address", cfg.HTTPAddress).Info("fitgpt studio listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	<-shutdownCh
	logger.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
	}

	cancel()
	<-janitorDone
	if dispatcher != nil {
		dispatcher.Wait()
	}
}
