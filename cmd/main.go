package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Leganyst/naconsulta/internal/auth"
	"github.com/Leganyst/naconsulta/internal/config"
	"github.com/Leganyst/naconsulta/internal/db"
	"github.com/Leganyst/naconsulta/internal/handler"
	"github.com/Leganyst/naconsulta/internal/logger"
	"github.com/Leganyst/naconsulta/internal/middleware"
	"github.com/Leganyst/naconsulta/internal/model"
	"github.com/Leganyst/naconsulta/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 1. Загружаем конфиг из env (.env подхватывается автоматически).
	cfg, err := config.Load()
	if err != nil {
		// логгер ещё не настроен
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init db")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("sql DB")
	}
	defer sqlDB.Close()

	// 3. Миграции моделей и базовые роли.
	if cfg.Database.AutoMigrate {
		if err := model.AutoMigrate(gormDB); err != nil {
			log.Fatal().Err(err).Msg("auto migrate")
		}
		if err := model.SeedRoles(gormDB); err != nil {
			log.Fatal().Err(err).Msg("seed roles")
		}
	}

	// 4. Сервисы.
	hasher, err := auth.NewHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher")
	}
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authSvc := service.NewAuthService(gormDB, hasher, tokens, log)
	userSvc := service.NewUserService(gormDB, hasher, authSvc, log)
	addressSvc := service.NewAddressService(gormDB, log)
	appointmentSvc := service.NewAppointmentService(gormDB, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 5. HTTP API.
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.Deps{
		Users:        userSvc,
		Auth:         authSvc,
		Addresses:    addressSvc,
		Appointments: appointmentSvc,
		Tokens:       tokens,
		DB:           sqlDB,
		Limiter:      middleware.NewRateLimiter(ctx, cfg.Server.LoginRate, cfg.Server.LoginBurst),
		Log:          log,
		Env:          cfg.Primary.Env,
		CORSOrigins:  cfg.Server.CORSAllowedOrigins,
	})
	httpServer := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http serve")
		}
	}()

	// 6. gRPC: health и reflection.
	var grpcServer *grpc.Server
	healthSrv := health.NewServer()
	if cfg.Server.GRPCAddr != "" {
		grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthSrv)
		reflection.Register(grpcServer)

		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Server.GRPCAddr).Msg("listen")
		}
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

		go func() {
			log.Info().Str("addr", cfg.Server.GRPCAddr).Msg("gRPC server listening")
			if err := grpcServer.Serve(lis); err != nil {
				log.Fatal().Err(err).Msg("grpc serve")
			}
		}()
	}

	// 7. Грейсфул-шатдаун по сигналу.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
}
