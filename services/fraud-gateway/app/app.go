package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/pkg/cache"
	"github.com/nimeshabuddhika/konduto-go/pkg/client"
	"github.com/nimeshabuddhika/konduto-go/pkg/database"
	middleware "github.com/nimeshabuddhika/konduto-go/pkg/middlewares"
	"github.com/nimeshabuddhika/konduto-go/pkg/repositories"
	"github.com/nimeshabuddhika/konduto-go/pkg/utils"
	"github.com/nimeshabuddhika/konduto-go/services/fraud-gateway/configs"
	"github.com/nimeshabuddhika/konduto-go/services/fraud-gateway/internal/handlers"
	"github.com/nimeshabuddhika/konduto-go/services/fraud-gateway/internal/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitKey = "konduto:rate"

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}
	aesKey, err := utils.DecodeString(cfg.AesKey)
	if err != nil {
		return nil, nil, err
	}

	// Initialize postgres db
	dbConfig := database.Config{
		PrimaryDSN: cfg.PrimaryDbAddr,
		ReadDSNs:   []string{cfg.ReplicaDbAddr},
		MaxConns:   cfg.MaxDbCons,
		MinConns:   cfg.MinDbCons,
	}
	db, disconnect, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		return nil, nil, err
	}

	// Run migrations on primary
	if err := database.RunMigrations(logger, cfg.PrimaryDbAddr); err != nil {
		disconnect()
		return nil, nil, err
	}

	clientOpts := []client.ClientOption{
		client.WithHTTPClient(utils.NewHTTPClient(utils.WithClientTimeout(cfg.KondutoTimeout))),
		client.WithBasicAuth(cfg.KondutoAPIKey),
		client.WithLogger(logger),
	}

	// Redis is optional: it backs the order cache and the fleet-wide rate limit
	var redisClient *redis.Client
	closeRedis := func() {}
	if !utils.IsEmpty(cfg.RedisAddr) {
		redisClient, closeRedis, err = cache.New(ctx, cache.Config{Addr: cfg.RedisAddr})
		if err != nil {
			disconnect()
			return nil, nil, err
		}
		clientOpts = append(clientOpts, client.WithCache(cache.NewOrderCache(redisClient, cfg.CacheTTL)))
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	}
	limiter := pkg.NewDistributedLimiter(redisClient, rateLimitKey, cfg.RateLimitPerSec, cfg.RateLimitBurst, time.Second, logger)
	clientOpts = append(clientOpts, client.WithLimiter(limiter))

	kdt, err := client.New(cfg.KondutoEndpoint, clientOpts...)
	if err != nil {
		closeRedis()
		disconnect()
		return nil, nil, err
	}

	// Setup dependencies
	analysisService := services.NewAnalysisService(logger, db, repositories.NewAnalysisRepository(), kdt, aesKey)
	r := NewRouter(handlers.NewBaseHandler(logger), handlers.NewOrderHandler(logger, analysisService))

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	cleanup := func() {
		closeRedis()
		// close db pools
		disconnect()
	}

	return srv, cleanup, nil
}

// NewRouter builds the gin engine: /health and /metrics at the root, order routes under /api/v1.
func NewRouter(baseHandler *handlers.BaseHandler, orderHandler *handlers.OrderHandler) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api/v1")
	api.Use(middleware.TraceID())
	api.Use(middleware.Metrics())

	orderHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)
	return r
}
