package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waste3d/coursemarket-api/config"
	"github.com/waste3d/coursemarket-api/internal/application/usecase"
	"github.com/waste3d/coursemarket-api/internal/infrastructure/cache"
	"github.com/waste3d/coursemarket-api/internal/infrastructure/events"
	"github.com/waste3d/coursemarket-api/internal/infrastructure/gateway"
	"github.com/waste3d/coursemarket-api/internal/infrastructure/repository"
	"github.com/waste3d/coursemarket-api/internal/infrastructure/security"
	"github.com/waste3d/coursemarket-api/internal/middleware"
	grpc_server "github.com/waste3d/coursemarket-api/internal/transport/grpc"
	handlers "github.com/waste3d/coursemarket-api/internal/transport/http"
	"github.com/waste3d/coursemarket-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	// 1. Конфиг и логгер
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New("enrollment-service", logger.ParseLevel(cfg.LogLevel))
	if logger.ParseLevel(cfg.LogLevel) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Postgres
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		fatal(log, "failed to connect to DB", err)
	}
	log.Info("running migrations")
	if err := repository.Migrate(db); err != nil {
		fatal(log, "failed to migrate DB", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		fatal(log, "failed to get sql.DB", err)
	}

	// 3. Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		fatal(log, "failed to connect to Redis", err)
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr)

	// 4. События: RabbitMQ, если задан, иначе просто пишем в лог
	var publisher usecase.EventPublisher = events.NewLogPublisher(log)
	if cfg.AMQPURL != "" {
		rmq, err := events.NewRabbitMQPublisher(cfg.AMQPURL, log)
		if err != nil {
			fatal(log, "failed to connect to RabbitMQ", err)
		}
		defer rmq.Close()
		publisher = rmq
	}

	// 5. Слои
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	lectureCounts := cache.NewLectureCountCache(rdb, courseRepo, log)

	razorpay := gateway.NewRazorpayClient(cfg.RazorpayURL, cfg.RazorpayKey, cfg.RazorpaySecret, gateway.DefaultBreakerSettings(), log)
	verifier := security.NewSignatureVerifier(cfg.RazorpaySecret)
	tokens := security.NewTokenManager(cfg.AccessSecret)

	enrollmentUC := usecase.NewEnrollmentUseCase(userRepo, courseRepo, razorpay, verifier, enrollmentRepo, publisher, cfg.Currency, log)
	progressUC := usecase.NewProgressUseCase(progressRepo, lectureCounts, courseRepo, log)
	catalogUC := usecase.NewCatalogUseCase(userRepo, courseRepo)
	reconcileUC := usecase.NewReconcileUseCase(userRepo, enrollmentRepo, log)

	if cfg.ReconcileOnStart {
		n, err := reconcileUC.Run(context.Background())
		if err != nil {
			log.Error("reconcile on start failed", "error", err)
		} else {
			log.Info("reconcile on start finished", "repaired", n)
		}
	}

	router := handlers.NewRouter(handlers.Handlers{
		Course:     handlers.NewCourseHandler(catalogUC, log),
		Enrollment: handlers.NewEnrollmentHandler(enrollmentUC, log),
		Progress:   handlers.NewProgressHandler(progressUC, log),
		Admin:      handlers.NewAdminHandler(reconcileUC, log),
	}, tokens, middleware.NewRateLimiter(rdb, log), cfg.Origins(), log)

	// 6. gRPC health
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthSrv := grpc_server.NewHealthServer(log,
		grpc_server.Dependency{Name: "postgres", Ping: sqlDB.PingContext},
		grpc_server.Dependency{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)
	go healthSrv.Watch(ctx, 15*time.Second)

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		fatal(log, "failed to listen", err)
	}
	grpcServer := healthSrv.NewServer()
	go func() {
		log.Info("gRPC health server running", "addr", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server stopped", "error", err)
		}
	}()

	// 7. HTTP
	srv := &http.Server{Addr: cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info("enrollment service running", "addr", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "failed to run server", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
	healthSrv.Shutdown()
	grpcServer.GracefulStop()
	_ = rdb.Close()
	_ = sqlDB.Close()
}
