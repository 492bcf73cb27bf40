package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ticket-marketplace/config"
	"ticket-marketplace/controllers"
	"ticket-marketplace/database"
	"ticket-marketplace/kafka"
	"ticket-marketplace/logger"
	"ticket-marketplace/repository"
	"ticket-marketplace/routes"
	"ticket-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	mongoClient, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		zapLogger.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.Close(mongoClient); err != nil {
			zapLogger.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		zapLogger.Fatal("index creation failed", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		// The role cache is an optimization; the service degrades to direct
		// store lookups without it.
		zapLogger.Warn("Redis connection failed, role cache disabled", zap.Error(err))
		redisClient = nil
	}

	ticketRepo := repository.NewMongoTicketRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	userRepo := repository.NewMongoUserRepository(db)

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.ClientDomain)
	roleSvc := services.NewRoleService(userRepo, redisClient, zapLogger)
	checkoutSvc := services.NewCheckoutService(ticketRepo, stripeSvc, zapLogger)

	var events services.EventPublisher
	if cfg.KafkaBrokers != "" {
		producer := kafka.NewOrderEventProducer(
			strings.Split(cfg.KafkaBrokers, ","),
			cfg.KafkaOrderTopic,
			zapLogger,
		)
		defer producer.Close()
		events = producer
	}

	reconcileSvc := services.NewReconciliationService(orderRepo, ticketRepo, stripeSvc, events, zapLogger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zapLogger))
	r.Use(func(c *gin.Context) {
		reqCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(reqCtx)
		c.Next()
	})

	routes.Register(r, cfg.JWTSecret, roleSvc,
		&controllers.PaymentController{Checkout: checkoutSvc, Reconcile: reconcileSvc, Logger: zapLogger},
		&controllers.TicketController{Tickets: ticketRepo, Logger: zapLogger},
		&controllers.OrderController{Orders: orderRepo, Tickets: ticketRepo, Logger: zapLogger},
		&controllers.UserController{Users: userRepo, Roles: roleSvc, Logger: zapLogger},
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zapLogger.Info("server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("server exited cleanly")
}
