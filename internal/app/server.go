package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"dashflow-service/internal/config"
	"dashflow-service/internal/db"
	activityHandler "dashflow-service/internal/handlers/activity"
	authHandler "dashflow-service/internal/handlers/auth"
	clientHandler "dashflow-service/internal/handlers/client"
	memberHandler "dashflow-service/internal/handlers/member"
	orderHandler "dashflow-service/internal/handlers/order"
	productHandler "dashflow-service/internal/handlers/product"
	reportHandler "dashflow-service/internal/handlers/report"
	wsHandler "dashflow-service/internal/handlers/websocket"
	"dashflow-service/internal/middleware"
	"dashflow-service/internal/pkg/jwt"
	"dashflow-service/internal/pkg/session"
	"dashflow-service/internal/repository/postgres"
	activityUsecase "dashflow-service/internal/service/activity"
	authUsecase "dashflow-service/internal/service/auth"
	clientUsecase "dashflow-service/internal/service/client"
	memberUsecase "dashflow-service/internal/service/member"
	orderUsecase "dashflow-service/internal/service/order"
	productUsecase "dashflow-service/internal/service/product"
	reportUsecase "dashflow-service/internal/service/report"
	"dashflow-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- Migrations -----
	if err := db.RunMigrations(s.cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.NewManager(jwt.Config{
		Secret: s.cfg.JWTSecret,
		Issuer: s.cfg.JWTIssuer,
		TTL:    s.cfg.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	// ----- Repositories -----
	authRepo := postgres.NewAuthRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)

	// ----- Session Manager -----
	sessionManager := session.NewManager(redisClient, authRepo)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager, sessionManager, logger)
	go hub.Run(ctx)

	// ----- Services -----
	authService := authUsecase.NewAuthService(authRepo, memberRepo, jwtManager, sessionManager, logger)
	activityService := activityUsecase.NewActivityService(activityRepo, hub, logger)
	clientService := clientUsecase.NewClientService(clientRepo, activityService, logger)
	productService := productUsecase.NewProductService(productRepo, activityService, logger)
	orderService := orderUsecase.NewOrderService(orderRepo, activityService, logger)
	memberService := memberUsecase.NewMemberService(memberRepo, activityService, authService, logger)
	reportService := reportUsecase.NewReportService(orderRepo, clientRepo, productRepo, logger)

	// ----- Seed Admin -----
	if err := s.seedAdmin(authService); err != nil {
		logger.Error("failed to seed admin account", zap.Error(err))
	}

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:     authHandler.NewAuthHandler(authService),
		ClientHandler:   clientHandler.NewClientHandler(clientService),
		ProductHandler:  productHandler.NewProductHandler(productService),
		OrderHandler:    orderHandler.NewOrderHandler(orderService),
		MemberHandler:   memberHandler.NewMemberHandler(memberService),
		ActivityHandler: activityHandler.NewActivityHandler(activityService),
		ReportHandler:   reportHandler.NewReportHandler(reportService),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(authService),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	SetupRouter(s.engine, handlers)

	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// seedAdmin makes sure a first login exists on a fresh database.
func (s *Server) seedAdmin(authService *authUsecase.AuthService) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return authService.EnsureAdminExists(ctx, s.cfg.AdminUsername, s.cfg.AdminEmail, s.cfg.AdminPassword)
}
