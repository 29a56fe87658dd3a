package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/a-mirror/mirror-api/handlers"
	"github.com/a-mirror/mirror-api/internal/bots"
	"github.com/a-mirror/mirror-api/internal/config"
	"github.com/a-mirror/mirror-api/internal/database"
	"github.com/a-mirror/mirror-api/internal/events"
	"github.com/a-mirror/mirror-api/internal/mirrors"
	"github.com/a-mirror/mirror-api/pkg/logger"
	"github.com/a-mirror/mirror-api/pkg/metrics"
	"github.com/a-mirror/mirror-api/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v rate_limit=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.RateLimit.Enabled)

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis when configured: event stream for the downstream
	// comment-reconciliation consumer, plus the optional distributed
	// rate limiter.
	var redisClient *redis.Client
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v — mirror events will not be published", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			publisher = events.NewRedisPublisher(redisClient, "")
			logger.Infof("Connected to Redis for mirror events: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per admin subject when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races
	ctx := context.Background()
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	var errConn error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if errConn == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if errConn != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(cfg.MongoDB.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("failed to ensure indexes: %v", err)
	}

	botsSvc := bots.NewService(bots.NewMongoRepository(db.Collection("bots")))
	mirrorsSvc := mirrors.NewService(mirrors.NewMongoRepository(db.Collection("mirrors")), botsSvc, publisher, cfg.API.Token)

	// Admin bot-registry routes, gated by the admin JWT middleware
	adminGroup := r.Group("/api/admin/bots", middleware.AdminAuth(cfg))
	handlers.NewBotsHandler(botsSvc).Register(adminGroup)

	// Bot-facing mirror routes authorize per request via the body's auth block
	mirrorGroup := r.Group("/api/bot/mirroredvideos")
	handlers.NewMirrorsHandler(mirrorsSvc).Register(mirrorGroup)

	// Minimal Swagger UI + JSON for API documentation
	handlers.RegisterSwagger(r)

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		if err := client.Ping(c.Request.Context(), nil); err != nil {
			deps["mongo"] = false
			ready = false
		} else {
			deps["mongo"] = true
		}

		// Redis is optional; report it unhealthy only when configured and unreachable
		if cfg.Redis.Host != "" {
			if redisClient == nil || redisClient.Ping(c.Request.Context()).Err() != nil {
				deps["redis"] = false
				ready = false
			} else {
				deps["redis"] = true
			}
		} else {
			deps["redis"] = true
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting mirror-api on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
