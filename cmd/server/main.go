package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	auditapp "github.com/investtrack/backend/internal/application/audit"
	catalogapp "github.com/investtrack/backend/internal/application/catalog"
	identityapp "github.com/investtrack/backend/internal/application/identity"
	portfolioapp "github.com/investtrack/backend/internal/application/portfolio"
	"github.com/investtrack/backend/internal/domain/audit"
	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/identity"
	"github.com/investtrack/backend/internal/domain/portfolio"
	"github.com/investtrack/backend/internal/infrastructure/auth"
	"github.com/investtrack/backend/internal/infrastructure/config"
	"github.com/investtrack/backend/internal/infrastructure/logger"
	"github.com/investtrack/backend/internal/infrastructure/persistence"
	"github.com/investtrack/backend/internal/infrastructure/persistence/memory"
	"github.com/investtrack/backend/internal/infrastructure/telemetry"
	"github.com/investtrack/backend/internal/interfaces/http/handler"
	"github.com/investtrack/backend/internal/interfaces/http/middleware"
	"github.com/investtrack/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting InvestTrack Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage", cfg.Database.Driver),
	)

	ctx := context.Background()

	// Telemetry: tracer, meter and optional continuous profiler
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilerEnabled,
		ServerAddress:       cfg.Telemetry.ProfilerEndpoint,
		ApplicationName:     cfg.Telemetry.ServiceName,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	if tracerProvider.IsEnabled() && profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Repositories, selected by storage driver
	var (
		db             *persistence.Database
		userRepo       identity.UserRepository
		productRepo    catalog.ProductRepository
		investmentRepo portfolio.InvestmentRepository
		logRepo        audit.TransactionLogRepository
	)

	switch cfg.Database.Driver {
	case "memory":
		memProducts := memory.NewProductRepository()
		userRepo = memory.NewUserRepository()
		productRepo = memProducts
		investmentRepo = memory.NewInvestmentRepository(memProducts)
		logRepo = memory.NewTransactionLogRepository(cfg.Audit.MemoryCap)
		log.Info("Using in-memory repositories")

	default:
		db, err = persistence.NewDatabaseWithLogger(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		log.Info("Database connected successfully")

		if err := telemetry.RegisterDBStatsGauges(meterProvider, db); err != nil {
			log.Warn("Failed to register db pool gauges", zap.Error(err))
		}

		userRepo = persistence.NewGormUserRepository(db.DB)
		productRepo = persistence.NewGormProductRepository(db.DB)
		investmentRepo = persistence.NewGormInvestmentRepository(db.DB)
		logRepo = persistence.NewGormTransactionLogRepository(db.DB)
	}

	// Demo data
	if cfg.Seed.Enabled {
		seeder := persistence.NewSeeder(productRepo, log)
		if err := seeder.SeedProducts(ctx); err != nil {
			log.Error("Failed to seed products", zap.Error(err))
		}
	}

	// Token revocation store
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Using Redis token blacklist", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Info("Using in-memory token blacklist")
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo)
	productService := catalogapp.NewProductService(productRepo, userRepo, investmentRepo)
	investmentService := portfolioapp.NewInvestmentService(investmentRepo, productRepo, userRepo)
	logService := auditapp.NewLogService(logRepo, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	productHandler := handler.NewProductHandler(productService)
	investmentHandler := handler.NewInvestmentHandler(investmentService)
	logHandler := handler.NewLogHandler(logService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimited := middleware.RateLimit(authLimiter)
		engine.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/v1/auth/") {
				authLimited(c)
				return
			}
			c.Next()
		})
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	if cfg.Audit.Enabled {
		engine.Use(middleware.AuditWithConfig(middleware.AuditConfig{
			LogService: logService,
			SkipPaths:  cfg.Audit.SkipPaths,
		}))
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(authHandler).
		Register(productHandler).
		Register(investmentHandler).
		Register(logHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness. With the in-memory driver there is no
// database to probe, so the store always reports ok.
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage := "ok"
		status := http.StatusOK
		healthy := "healthy"

		if db != nil {
			if err := db.Ping(c.Request.Context()); err != nil {
				reqLog := logger.GetGinLogger(c)
				reqLog.Warn("Health check failed", zap.Error(err))
				storage = "error"
				status = http.StatusServiceUnavailable
				healthy = "unhealthy"
			}
		}

		c.JSON(status, gin.H{
			"status":   healthy,
			"time":     time.Now().Format(time.RFC3339),
			"database": storage,
		})
	}
}
