package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/adaste/loan-system/docs"
	"github.com/adaste/loan-system/internal/api/handler"
	"github.com/adaste/loan-system/internal/api/middleware"
	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
)

const bodyLimit = "1M"

// Dependencies are the services and settings the HTTP layer is built from.
type Dependencies struct {
	AuthService         ports.AuthService
	UserService         ports.UserService
	LoanService         ports.LoanService
	PaymentService      ports.PaymentService
	NotificationService ports.NotificationService

	ReadinessChecks map[string]handler.ReadinessCheck
	JWTSecret       string
	Logger          zerolog.Logger
	// MetricsRegisterer receives the HTTP metrics. Nil means the default registry.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "loans",
		Registerer: deps.MetricsRegisterer,
		Skipper:    skipInfraRoutes,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	loanHandler := handler.NewLoanHandler(deps.LoanService)
	paymentHandler := handler.NewPaymentHandler(deps.PaymentService, deps.Logger)
	smsHandler := handler.NewSMSHandler(deps.NotificationService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.ReadinessChecks)

	requireAuth := middleware.Auth(deps.JWTSecret)
	optionalAuth := middleware.OptionalAuth(deps.JWTSecret)
	can := middleware.Require

	// --- Infrastructure (no auth required) ---
	e.GET("/", handler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Public ---
	api.POST("/register", userHandler.Register)
	api.POST("/bootstrap-admin", authHandler.BootstrapAdmin)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/loans/apply", loanHandler.Apply, optionalAuth)

	// --- Any authenticated role ---
	api.GET("/me", authHandler.Me, requireAuth)
	api.POST("/client/change-password", authHandler.ChangePassword, requireAuth)
	api.GET("/loans", loanHandler.List, requireAuth)

	// --- Staff ---
	api.GET("/officers", userHandler.ListOfficers, requireAuth, can(domain.CapViewOfficers))
	api.POST("/officers", userHandler.CreateOfficer, requireAuth, can(domain.CapCreateOfficers))
	api.POST("/admin/create-investor", userHandler.CreateInvestor, requireAuth, can(domain.CapCreateInvestors))
	api.POST("/officer/create-client", userHandler.CreateClient, requireAuth, can(domain.CapCreateClients))
	api.GET("/clients", userHandler.ListClients, requireAuth, can(domain.CapViewClients))
	api.GET("/loans/all", loanHandler.ListAll, requireAuth, can(domain.CapViewAllLoans))
	api.POST("/loans/approve/:id", loanHandler.Approve, requireAuth, can(domain.CapDecideLoans))
	api.POST("/loans/reject/:id", loanHandler.Reject, requireAuth, can(domain.CapDecideLoans))
	api.PUT("/loans/update/:id", loanHandler.Update, requireAuth, can(domain.CapDecideLoans))

	// --- Integrations ---
	e.POST("/mpesa/stkpush", paymentHandler.STKPush)
	e.POST("/mpesa/stk/callback", paymentHandler.Callback)
	e.POST("/sms/test", smsHandler.Test, requireAuth, can(domain.CapSendSMS))

	return e
}

func skipInfraRoutes(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper:      skipInfraRoutes,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
