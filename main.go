package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/odark007/liq-store/cart"
	"github.com/odark007/liq-store/controllers"
	"github.com/odark007/liq-store/database"
	"github.com/odark007/liq-store/logger"
	"github.com/odark007/liq-store/middleware"
	"github.com/odark007/liq-store/models"
	awspkg "github.com/odark007/liq-store/pkg/aws"
	"github.com/odark007/liq-store/repository"
	"github.com/odark007/liq-store/routes"
	"github.com/odark007/liq-store/sender"
	"github.com/odark007/liq-store/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Environment)
	zlog := logger.Log
	defer zlog.Sync() //nolint:errcheck

	if err := database.Connect(zlog, cfg.Postgres,
		&models.Product{},
		&models.ProductVariant{},
		&models.InventoryMaster{},
		&models.Order{},
		&models.OrderItem{},
		&models.StoreSettings{},
		&models.DeliveryZone{},
		&models.Tax{},
		&models.NotificationTemplate{},
	); err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close() //nolint:errcheck

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// AWS clients
	var snsClient awspkg.SNSPublisher
	if awsCfg, awsErr := awspkg.LoadAWSConfig(context.Background()); awsErr != nil {
		zlog.Warn("AWS config unavailable, SNS disabled", zap.Error(awsErr))
	} else {
		snsClient = awspkg.NewSNSClient(awsCfg)
	}

	// Notification channels; an unconfigured channel degrades to logged
	// failures instead of blocking startup.
	var smsSender sender.SMSSender = sender.NoopSMSSender{}
	if s, err := sender.NewArkeselSender(cfg.ArkeselAPIKey, cfg.ArkeselSenderID); err != nil {
		zlog.Warn("SMS sender disabled", zap.Error(err))
	} else {
		smsSender = s
	}
	var emailSender sender.EmailSender = sender.NoopEmailSender{}
	if s, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass); err != nil {
		zlog.Warn("Email sender disabled", zap.Error(err))
	} else {
		emailSender = s
	}

	paystackClient, err := services.NewPaystackClient(cfg.PaystackSecretKey)
	if err != nil {
		zlog.Fatal("Payment gateway config missing", zap.Error(err))
	}

	// Repositories
	catalogRepo := repository.NewGormCatalogRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	settingsRepo := repository.NewGormSettingsRepository(database.DB)
	cartRepo := cart.NewRedisRepository(redisClient, time.Duration(cfg.CartTTLHours)*time.Hour)

	// Services
	dispatcher := services.NewNotificationDispatcher(settingsRepo, smsSender, emailSender, zlog)
	cartStore := cart.NewStore(cartRepo, zlog)
	cartService := services.NewCartService(cartStore, catalogRepo, zlog)
	checkoutService := services.NewCheckoutService(
		catalogRepo, orderRepo, settingsRepo, dispatcher,
		snsClient, cfg.OrderSNSTopicARN,
		cfg.NotifyGatewayOrdersImmediately, zlog,
	)
	orderService := services.NewOrderService(orderRepo, catalogRepo, settingsRepo, dispatcher, zlog)
	settingsService := services.NewSettingsService(settingsRepo, zlog)
	paymentService := services.NewPaymentService(paystackClient, orderRepo, settingsRepo, dispatcher, zlog)

	// Controllers
	checkoutController := controllers.NewCheckoutController(checkoutService, cartService)
	cartController := controllers.NewCartController(cartService)
	paymentController := controllers.NewPaymentController(paymentService, paystackClient, zlog)
	adminController := controllers.NewAdminController(orderService, settingsService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "liq-store"})
	})

	limiter := middleware.NewRateLimiter(rate.Limit(5), 10)
	routes.Register(r, checkoutController, cartController, paymentController, adminController, []byte(cfg.JWTSecret), limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	zlog.Info("Storefront backend started", zap.String("port", cfg.Port))
	<-quit
	zlog.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited cleanly")
}
