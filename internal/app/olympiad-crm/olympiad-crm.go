// Package olympiadcrm собирает основное HTTP-приложение CRM:
// подключения к базе и redis, миграции, сервисы и сервер.
package olympiadcrm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/olympiad-crm/internal/cache"
	"github.com/magabrotheeeer/olympiad-crm/internal/config"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/jwt"
	"github.com/magabrotheeeer/olympiad-crm/internal/migrations"
	authservice "github.com/magabrotheeeer/olympiad-crm/internal/services/auth"
	clientservice "github.com/magabrotheeeer/olympiad-crm/internal/services/client"
	employeeservice "github.com/magabrotheeeer/olympiad-crm/internal/services/employee"
	olympiadservice "github.com/magabrotheeeer/olympiad-crm/internal/services/olympiad"
	reminderservice "github.com/magabrotheeeer/olympiad-crm/internal/services/reminder"
	reportservice "github.com/magabrotheeeer/olympiad-crm/internal/services/report"
	timerservice "github.com/magabrotheeeer/olympiad-crm/internal/services/timer"
	"github.com/magabrotheeeer/olympiad-crm/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы основного приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: хранилище, миграции, кеш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	services := &Services{
		Auth:     authservice.NewAuthService(db, jwtMaker),
		Client:   clientservice.NewClientService(db, cacheRedis, logger),
		Timer:    timerservice.NewTimerService(db, logger),
		Olympiad: olympiadservice.NewOlympiadService(db, logger),
		Employee: employeeservice.NewEmployeeService(db, logger),
		Reminder: reminderservice.NewReminderService(db, logger),
		Report:   reportservice.NewReportService(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
