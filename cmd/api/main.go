package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storeadmin/internal/config"
	"storeadmin/internal/handler"
	"storeadmin/internal/infra/db"
	infraRepo "storeadmin/internal/infra/repository"
	"storeadmin/internal/infra/settings"
	"storeadmin/internal/repository"
	"storeadmin/internal/server"
	"storeadmin/internal/telemetry"
	"storeadmin/internal/usecase"
	"storeadmin/internal/validator"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := telemetry.NewLogger(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//金額はJSONで数値として返す
	decimal.MarshalJSONWithoutQuotes = true

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewOrderMetrics(otel.Meter(cfg.ServiceName))
	if err != nil {
		return err
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	healthChecks := map[string]handler.Pinger{"db": sqlDB.PingContext}

	//送料の保存先
	var store repository.SettingsStore
	switch cfg.SettingsBackend {
	case config.SettingsBackendRedis:
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = settings.NewRedisStore(rdb)
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		store = settings.NewFileStore(cfg.SettingsFile)
	}
	logger.Info("settings backend", zap.String("backend", cfg.SettingsBackend))

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//管理者の初期作成
	if cfg.AdminEmail != "" {
		authUC := usecase.NewAuthUsecase(cfg, userRepo, validator.NewAuthValidator(userRepo), logger)
		if err := authUC.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
		logger.Info("admin account ensured", zap.String("email", cfg.AdminEmail))
	}

	e, err := server.New(server.Deps{
		Config:       cfg,
		Logger:       logger,
		Tx:           infraRepo.NewTxManagerGorm(gormDB),
		Users:        userRepo,
		Products:     infraRepo.NewProductGormRepository(gormDB),
		Audit:        auditRepo,
		Settings:     store,
		Metrics:      metrics,
		HealthChecks: healthChecks,
	})
	if err != nil {
		return err
	}

	return server.Start(ctx, e, ":"+cfg.Port, logger)
}
