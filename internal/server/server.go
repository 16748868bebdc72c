package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storeadmin/internal/config"
	"storeadmin/internal/handler"
	"storeadmin/internal/middleware"
	"storeadmin/internal/repository"
	"storeadmin/internal/telemetry"
	"storeadmin/internal/usecase"
	"storeadmin/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// 組み立てに必要な部品。DBかメモリかは呼び出し側が決める
type Deps struct {
	Config   config.Config
	Logger   *zap.Logger
	Tx       repository.TransactionManager
	Users    repository.UserRepository
	Products repository.ProductRepository
	Audit    repository.AuditLogRepository
	Settings repository.SettingsStore

	// nilなら計測しない
	Metrics        *telemetry.OrderMetrics
	TracerProvider trace.TracerProvider
	HealthChecks   map[string]handler.Pinger
}

// New wires usecases, handlers and middleware into an echo instance.
func New(d Deps) (*echo.Echo, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := d.Config

	//usecase
	shippingUC := usecase.NewShippingUsecase(d.Settings, d.Audit, cfg.DefaultShippingCost, logger)
	orderUC := usecase.NewOrderUsecase(
		d.Tx,
		validator.NewOrderValidator(d.Products, cfg.PriceDriftTolerance),
		shippingUC,
		d.Metrics,
		logger,
	)
	adminOrderUC := usecase.NewAdminOrderUsecase(d.Tx, d.Metrics, logger)
	productUC := usecase.NewProductUsecase(d.Products, d.Tx, logger)
	authUC := usecase.NewAuthUsecase(cfg, d.Users, validator.NewAuthValidator(d.Users), logger)
	auditUC := usecase.NewAuditUsecase(d.Audit)
	adminUserUC := usecase.NewAdminUserUsecase(d.Users, d.Audit, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(telemetry.TraceMiddleware(cfg.ServiceName, d.TracerProvider))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	guards := handler.RouteGuards{
		Auth: []echo.MiddlewareFunc{
			middleware.AuthJWT(cfg),
			middleware.ActiveUserGuard(d.Users),
		},
		Admin: []echo.MiddlewareFunc{
			middleware.AuthJWT(cfg),
			middleware.ActiveUserGuard(d.Users),
			middleware.AdminRoleGuard(),
		},
	}
	if cfg.RateLimit != "" {
		limit, err := middleware.RateLimit(cfg.RateLimit, logger)
		if err != nil {
			return nil, err
		}
		guards.RateLimit = limit
	}

	//ルート登録
	handler.NewHealthHandler(d.HealthChecks).RegisterRoutes(e)
	handler.NewAuthHandler(authUC, logger).RegisterRoutes(e, guards)
	handler.NewProductHandler(productUC, logger).RegisterRoutes(e)
	handler.NewOrderHandler(orderUC, logger).RegisterRoutes(e, guards)
	handler.NewShippingHandler(shippingUC, logger).RegisterRoutes(e, guards)
	handler.NewAdminOrderHandler(adminOrderUC, logger).RegisterRoutes(e, guards)
	handler.NewAdminProductHandler(productUC, logger).RegisterRoutes(e, guards)
	handler.NewAuditHandler(auditUC, logger).RegisterRoutes(e, guards)
	handler.NewAdminUserHandler(adminUserUC, logger).RegisterRoutes(e, guards)

	return e, nil
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func Start(ctx context.Context, e *echo.Echo, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("http server shutting down")
	return e.Shutdown(shutdownCtx)
}
