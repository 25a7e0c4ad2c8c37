package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	_ "tuntun/docs"
	"tuntun/internal/config"
	"tuntun/internal/handlers"
	"tuntun/internal/middleware"
	"tuntun/internal/migrations"
	"tuntun/internal/pdf"
	"tuntun/internal/realtime"
	"tuntun/internal/repositories"
	"tuntun/internal/routes"
	"tuntun/internal/securestore"
	"tuntun/internal/services"
	"tuntun/internal/utils"
)

const shutdownTimeout = 10 * time.Second

// OpenSecurity opens the encrypted local store and the PIN service on top of it.
func OpenSecurity(cfg *config.Config, log *zap.Logger) (*services.SecurityService, error) {
	store, err := securestore.Open(cfg.Security.StorePath, cfg.Security.MasterSecret)
	if err != nil {
		return nil, fmt.Errorf("open secure store: %w", err)
	}
	return services.NewSecurityService(store, cfg.Security.MaxAttempts, cfg.Security.Lockout, log), nil
}

func OpenDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

type App struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *sql.DB
	router *gin.Engine
	cron   *cron.Cron

	payments *services.PaymentService
}

// New connects to the database, applies migrations and wires every
// component.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, err
	}

	security, err := OpenSecurity(cfg, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	jwtSecret := cfg.Security.JWTSecret
	if jwtSecret == "" {
		if jwtSecret, err = utils.NewSecret(32); err != nil {
			db.Close()
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn("security.jwt_secret is empty; sessions will not survive a restart")
	}
	sessions := middleware.NewSessions(jwtSecret, cfg.Security.TokenTTL)

	// === Repos ===
	clientRepo := repositories.NewClientRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// === Services ===
	hub := realtime.NewHub()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	telegram, err := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log)
	if err != nil {
		log.Warn("telegram notifications disabled", zap.Error(err))
		telegram = nil
	}
	notifiers := []services.PaymentNotifier{telegram}
	if cfg.Mobizon.Enabled {
		mobizon := utils.NewClientWithOptions(cfg.Mobizon.APIKey, cfg.Mobizon.SenderID, cfg.Mobizon.DryRun, log)
		notifiers = append(notifiers, services.NewSMSService(mobizon, log))
	}

	clientService := services.NewClientService(clientRepo, hub, log)
	paymentService := services.NewPaymentService(paymentRepo, clientRepo, hub, log, notifiers...)
	dashboardService := services.NewDashboardService(clientRepo, paymentRepo, security)
	pdfGen := pdf.NewStatementGenerator(cfg.Files.RootDir, cfg.Files.FontPath)
	statementService := services.NewStatementService(clientRepo, paymentRepo, pdfGen, emailService, log)
	duesService := services.NewDuesService(paymentRepo, telegram, emailService, cfg.Dues.OwnerEmail, cfg.Dues.GraceDays, log)

	// === Jobs ===
	c := cron.New()
	if _, err := duesService.Schedule(c, cfg.Dues.Schedule); err != nil {
		db.Close()
		return nil, err
	}
	pinRL := middleware.NewRateLimiter(cfg.Security.AttemptsPerMinute, cfg.Security.AttemptsPerMinute, log.Named("ratelimit"))
	if _, err := c.AddFunc("@hourly", func() { pinRL.Cleanup(10000) }); err != nil {
		db.Close()
		return nil, err
	}

	// === Gin ===
	router := gin.New()
	routes.SetupRoutes(router, routes.Handlers{
		Health:    handlers.NewHealthHandler(db),
		Pin:       handlers.NewPinHandler(security, sessions, log),
		Clients:   handlers.NewClientHandler(clientService, log),
		Payments:  handlers.NewPaymentHandler(paymentService, log),
		Dashboard: handlers.NewDashboardHandler(dashboardService, log),
		Statement: handlers.NewStatementHandler(statementService, log),
		Live:      handlers.NewLiveHandler(clientService, paymentService, hub, log),
	}, routes.Guards{
		Session: middleware.PinSession(sessions, security, log.Named("session")),
		PinRate: pinRL,
	}, log)

	return &App{cfg: cfg, log: log, db: db, router: router, cron: c, payments: paymentService}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.cron.Start()
	defer func() { <-a.cron.Stop().Done() }()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.payments.Drain()
	return nil
}

func (a *App) Close() error {
	return a.db.Close()
}
