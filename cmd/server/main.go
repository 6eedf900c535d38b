package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"teamhub/config"
	_ "teamhub/docs"
	"teamhub/internal/adapters/auth"
	"teamhub/internal/adapters/email"
	deliveryhttp "teamhub/internal/delivery/http"
	"teamhub/internal/delivery/http/controllers"
	"teamhub/internal/delivery/http/middleware"
	"teamhub/internal/metrics"
	"teamhub/internal/repository/postgres"
	"teamhub/internal/services"
)

const shutdownTimeout = 15 * time.Second

// @title Teamhub API
// @version 1.0
// @description Team events, invitations and squad selection.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rosterMetrics, err := metrics.NewRoster(reg)
	if err != nil {
		return fmt.Errorf("register roster metrics: %w", err)
	}
	httpMetrics, err := metrics.NewHTTP(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.Region,
			AccessKeyID:        cfg.Mail.AccessKeyID,
			SecretAccessKey:    cfg.Mail.SecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("build mailer: %w", err)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// Repositories
	tx := postgres.NewTransactor(db)
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewEventParticipantRepository(db)
	invitationRepo := postgres.NewEventInvitationRepository(db)
	squadRepo := postgres.NewSquadRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	memberRepo := postgres.NewMemberRepository(db)

	// Services
	invitationService := services.NewInvitationService(invitationRepo, tx, rosterMetrics, cfg.RequestTimeout)
	squadService := services.NewSquadService(squadRepo, tx, rosterMetrics, cfg.RequestTimeout)
	eventService := services.NewEventService(eventRepo, participantRepo, invitationRepo, invitationService,
		tx, rosterMetrics, logger, cfg.RequestTimeout)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	dispatcher := services.NewNotificationDispatcher(notificationRepo, memberRepo, emailService, logger)

	// Delivery
	eventController := controllers.NewEventController(logger, eventService, invitationService, dispatcher)
	rosterController := controllers.NewRosterController(logger, eventService, invitationService, squadService, dispatcher)
	router := deliveryhttp.NewRouter(eventController, rosterController, verifier, reg, logger)

	var handler http.Handler = router
	handler = middleware.Instrument(httpMetrics, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
