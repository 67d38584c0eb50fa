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

	"github.com/mathplanner/mathplanner/handlers"
	"github.com/mathplanner/mathplanner/internal/ai"
	"github.com/mathplanner/mathplanner/internal/catalog"
	"github.com/mathplanner/mathplanner/internal/compile"
	"github.com/mathplanner/mathplanner/internal/config"
	"github.com/mathplanner/mathplanner/internal/database"
	"github.com/mathplanner/mathplanner/internal/oidc"
	"github.com/mathplanner/mathplanner/internal/profile"
	"github.com/mathplanner/mathplanner/internal/sessions"
	"github.com/mathplanner/mathplanner/internal/storage"
	"github.com/mathplanner/mathplanner/internal/tokens"
	"github.com/mathplanner/mathplanner/pkg/logger"
	"github.com/mathplanner/mathplanner/pkg/metrics"
	"github.com/mathplanner/mathplanner/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v compilers=%d ai=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "",
		len(cfg.Compilers.Endpoints), cfg.AI.APIKey != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and
	// respond to OPTIONS. Production should use a stricter policy.
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

	ctx := context.Background()

	// Redis: refresh sessions and the distributed rate limiter
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "mp:session:"))
	} else {
		logger.Warnf("no Redis configured, refresh sessions held in memory")
		sessionsSvc = sessions.NewService(sessions.NewMemoryRepository())
	}

	// MongoDB: profiles, catalog, generation-job metadata
	var profilesSvc *profile.Service
	var catalogRepo catalog.Repository
	if cfg.MongoDB.URI != "" {
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
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)
			profilesSvc = profile.NewService(profile.NewMongoRepository(db.Collection("profiles")))
			catalogRepo = catalog.NewMongoRepo(db)
		}
	}
	if profilesSvc == nil {
		logger.Warnf("no MongoDB configured, profiles and catalog held in memory")
		profilesSvc = profile.NewService(profile.NewMemoryRepository())
	}
	if catalogRepo == nil {
		catalogRepo = catalog.NewMemoryRepo()
	}
	catalogSvc := catalog.NewService(catalogRepo)

	// MinIO: template source and PDF archive
	var store storage.Store
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStore(cfg.MinIO)
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage: %v", err)
		} else {
			store = s
		}
	}
	if store == nil {
		logger.Warnf("no object storage configured, templates and archives held in memory")
		store = storage.NewMemoryStore()
	}

	orchestrator := compile.NewOrchestrator(cfg.Compilers.Endpoints)
	draftsSvc := ai.NewService(ai.NewClient(cfg.AI))

	// Bearer verification: locally issued JWTs by default, an external OIDC
	// provider when configured.
	var verifier middleware.Verifier = tokens.Verifier{Secret: cfg.JWT.Secret}
	if cfg.OIDC.IssuerURL != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier, keeping local JWT verification: %v", err)
		} else {
			verifier = ver
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"sessions":  sessionsSvc != nil,
			"profiles":  profilesSvc != nil,
			"catalog":   catalogRepo != nil,
			"storage":   store != nil,
			"redis":     !cfg.RateLimit.UseRedis || redisClient != nil,
			"compilers": true, // synthetic fallback keeps compilation available
		}
		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.NewAuthHandler(cfg, profilesSvc, sessionsSvc).Register(r.Group("/"))
	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(verifier))
	handlers.NewProfileHandler(profilesSvc).Register(api)
	handlers.NewCatalogHandler(catalogSvc, profilesSvc).Register(api)
	handlers.NewGenerateHandler(cfg, profilesSvc, catalogSvc, store, orchestrator, draftsSvc).Register(api)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting mathplanner service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
