package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apperrors "github.com/cetler74/modern-e-commerce-platform/common/errors"
	"github.com/cetler74/modern-e-commerce-platform/common/logger"
	"github.com/cetler74/modern-e-commerce-platform/common/metrics"
	commonmw "github.com/cetler74/modern-e-commerce-platform/common/middleware"
	"github.com/cetler74/modern-e-commerce-platform/controllers"
	"github.com/cetler74/modern-e-commerce-platform/database"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"
	"github.com/cetler74/modern-e-commerce-platform/repository"
	"github.com/cetler74/modern-e-commerce-platform/routes"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "storefront"

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	// --- 1. AWS and logging ---

	awsCfg, awsErr := aws_pkg.LoadAWSConfig(context.Background())

	var cwLogs *aws_pkg.CloudWatchLogsClient
	if awsErr == nil {
		if c, err := aws_pkg.NewCloudWatchLogsClient(context.Background(), awsCfg, serviceName); err == nil && c.IsEnabled() {
			cwLogs = c
		}
	}
	var log *zap.Logger
	if cwLogs != nil {
		log = logger.InitializeWithWriter(os.Getenv("APP_ENV"), cwLogs)
	} else {
		log = logger.Initialize(os.Getenv("APP_ENV"))
	}
	defer log.Sync()

	if awsErr != nil {
		log.Warn("AWS config unavailable, AWS integrations disabled", zap.Error(awsErr))
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- 2. Data stores ---

	if err := database.Connect(cfg.Postgres, log); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := database.DB

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(context.Background(), cfg.RedisURL, log)
		if err != nil {
			log.Warn("Redis unavailable, product cache and idempotency cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	// --- 3. Dependency Injection (Wiring the layers together) ---

	repos := repository.NewRepositories(db)
	tx := repository.NewGormTransactor(db)

	var (
		productCache repository.ProductCache
		idempotency  repository.IdempotencyStore
	)
	if redisClient != nil {
		productCache = repository.NewRedisProductCache(redisClient, cfg.ProductCacheTTL)
		idempotency = repository.NewRedisIdempotencyStore(redisClient, cfg.IdempotencyTTL)
	}

	var (
		cwMetrics *aws_pkg.MetricsClient
		publisher aws_pkg.SNSPublisher
		queue     services.EventSender
		presigner aws_pkg.UploadPresigner
		sink      = repository.NewGormEventSink(db)
	)
	if awsErr == nil {
		cwMetrics = aws_pkg.NewMetricsClient(awsCfg)
		publisher = aws_pkg.NewSNSClient(awsCfg)
		if cfg.OrderEventsQueueURL != "" {
			queue = aws_pkg.NewSQSQueue(awsCfg, cfg.OrderEventsQueueURL)
		}
		if cfg.ProductMediaBucket != "" {
			presigner = aws_pkg.NewS3Presigner(awsCfg, cfg.ProductMediaBucket)
		}
		if cfg.AnalyticsTable != "" {
			sink = repository.NewDynamoEventSink(aws_pkg.NewDynamoDBClient(awsCfg), cfg.AnalyticsTable)
		}
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal("Failed to initialize token service", zap.Error(err))
	}

	authService := services.NewAuthService(repos.Users, tx, tokens, log)
	productService := services.NewProductService(repos.Products, productCache, presigner, cwMetrics, log)
	cartService := services.NewCartService(repos.Carts, repos.Products, log)
	checkoutService := services.NewCheckoutService(services.CheckoutDeps{
		Transactor:  tx,
		Orders:      repos.Orders,
		Idempotency: idempotency,
		Pricing:     cfg.Pricing,
		SNS:         publisher,
		TopicArn:    cfg.OrderTopicArn,
		Queue:       queue,
		Metrics:     cwMetrics,
		Logger:      log,
	})
	orderService := services.NewOrderService(services.OrderDeps{
		Transactor: tx,
		Orders:     repos.Orders,
		Customers:  repos.Customers,
		Products:   repos.Products,
		Pricing:    cfg.Pricing,
		SNS:        publisher,
		TopicArn:   cfg.OrderTopicArn,
		Queue:      queue,
		Metrics:    cwMetrics,
		Logger:     log,
	})
	subscriptionService := services.NewSubscriptionService(services.SubscriptionDeps{
		Transactor:    tx,
		Subscriptions: repos.Subscriptions,
		Customers:     repos.Customers,
		SNS:           publisher,
		TopicArn:      cfg.SubscriptionTopicArn,
		Metrics:       cwMetrics,
		Logger:        log,
	})
	blogService := services.NewBlogService(repos.Blog, log)
	userService := services.NewUserService(tx, repos.Users, repos.Customers, repos.Addresses, log)
	analyticsService := services.NewAnalyticsService(sink, repos.Reports, log)

	if err := controllers.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	// --- 4. HTTP Server & Middleware ---

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := commonmw.NewRateLimiter(commonmw.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitPerMinute, 10*time.Minute)
	stopSweeper := make(chan struct{})
	go limiter.RunSweeper(stopSweeper)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(commonmw.RequestID())
	r.Use(commonmw.RequestLogger(log))
	r.Use(apperrors.Recovery(log))
	r.Use(apperrors.ErrorMiddleware(log))
	r.Use(commonmw.CORS(cfg.AllowedOrigins))
	r.Use(commonmw.SecurityHeaders())
	r.Use(commonmw.RateLimitMiddleware(limiter))
	r.Use(commonmw.Metrics(cwMetrics, serviceName))
	r.Use(commonmw.Timeout(30 * time.Second))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": serviceName})
	})
	r.GET("/metrics", metrics.Handler())

	routes.RegisterRoutes(r, authService, routes.Controllers{
		Auth:         controllers.NewAuthController(authService),
		Products:     controllers.NewProductController(productService),
		Cart:         controllers.NewCartController(cartService),
		Checkout:     controllers.NewCheckoutController(checkoutService),
		Orders:       controllers.NewOrderController(orderService),
		Subscription: controllers.NewSubscriptionController(subscriptionService),
		Blog:         controllers.NewBlogController(blogService),
		Users:        controllers.NewUserController(userService),
		Analytics:    controllers.NewAnalyticsController(analyticsService),
	})
	r.NoRoute(apperrors.NoRoute())
	r.NoMethod(apperrors.NoMethod())

	// --- 5. Graceful Shutdown ---

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Storefront starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down storefront...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	close(stopSweeper)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}
	if err := database.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	log.Info("Storefront stopped gracefully")
}
