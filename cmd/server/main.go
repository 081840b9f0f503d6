// @title                      ADASTE Loan System API
// @version                    1.0
// @description                Client registration, loan applications and decisions, M-PESA repayments and SMS notifications.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/adaste/loan-system/internal/api"
	"github.com/adaste/loan-system/internal/api/handler"
	"github.com/adaste/loan-system/internal/core/ports"
	"github.com/adaste/loan-system/internal/core/service"
	"github.com/adaste/loan-system/internal/infrastructure/db"
	"github.com/adaste/loan-system/internal/infrastructure/db/redis"
	"github.com/adaste/loan-system/internal/infrastructure/payment/mpesa"
	"github.com/adaste/loan-system/internal/infrastructure/queue"
	"github.com/adaste/loan-system/internal/infrastructure/sms/africastalking"
	"github.com/adaste/loan-system/internal/pkg/config"
	"github.com/adaste/loan-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "adaste-loan-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}

	checks := make(map[string]handler.ReadinessCheck, len(store.Checks)+1)
	for name, check := range store.Checks {
		checks[name] = handler.ReadinessCheck(check)
	}

	// Redis is optional. Without REDIS_ADDR callbacks are not de-duplicated.
	var dedup ports.CallbackDeduplicator
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		dedup = redis.NewCallbackDedup(rdb, 0)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("mpesa callback de-duplication enabled")
	}

	mpesaClient, err := mpesa.NewClient(mpesa.Config{
		BaseURL:     cfg.MPesa.BaseURL,
		Shortcode:   cfg.MPesa.Shortcode,
		Passkey:     cfg.MPesa.Passkey,
		Token:       cfg.MPesa.Token,
		CallbackURL: cfg.MPesa.CallbackURL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid mpesa configuration")
	}

	smsClient, err := africastalking.NewClient(africastalking.Config{
		BaseURL:  cfg.SMS.BaseURL,
		Username: cfg.SMS.Username,
		APIKey:   cfg.SMS.APIKey,
		SenderID: cfg.SMS.SenderID,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid sms configuration")
	}

	notifications := service.NewNotificationService(smsClient, log)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.SMS.Workers, notifications, log)
	dispatcher.Start(dispatchCtx)

	e := api.NewRouter(api.Dependencies{
		AuthService: service.NewAuthService(store.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BootstrapKey, log),
		UserService: service.NewUserService(store.Users, service.DefaultPasswords{
			Officer: cfg.Auth.DefaultOfficerPassword,
			Client:  cfg.Auth.DefaultClientPassword,
		}, log),
		LoanService:         service.NewLoanService(store.Loans, store.Users, dispatcher, log),
		PaymentService:      service.NewPaymentService(mpesaClient, dedup, log),
		NotificationService: notifications,
		ReadinessChecks:     checks,
		JWTSecret:           cfg.Auth.JWTSecret,
		Logger:              log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	stopDispatch()
	dispatcher.Wait()
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("storage close")
	}
}
