package configs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port            string        `mapstructure:"PORT" validate:"required,number"`
	KondutoEndpoint string        `mapstructure:"KONDUTO_ENDPOINT" validate:"required,url"`
	KondutoAPIKey   string        `mapstructure:"KONDUTO_API_KEY" validate:"required"`
	KondutoTimeout  time.Duration `mapstructure:"KONDUTO_TIMEOUT" validate:"gt=0"`
	PrimaryDbAddr   string        `mapstructure:"PRIMARY_DB_ADDR" validate:"required"`
	ReplicaDbAddr   string        `mapstructure:"REPLICA_DB_ADDR"`
	MaxDbCons       int32         `mapstructure:"MAX_DB_CONNECTIONS" validate:"min=1"`
	MinDbCons       int32         `mapstructure:"MIN_DB_CONNECTIONS" validate:"min=1,ltefield=MaxDbCons"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"` // optional; no cache and a local-only limiter without it
	CacheTTL        time.Duration `mapstructure:"CACHE_TTL" validate:"gte=0"`
	RateLimitPerSec int           `mapstructure:"RATE_LIMIT_PER_SEC" validate:"gte=0"` // 0 disables limiting
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST" validate:"gte=0"`
	AesKey          string        `mapstructure:"AES_KEY" validate:"required,base64"`
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("KONDUTO_ENDPOINT", pkg.DefaultKondutoEndpoint)
	viper.SetDefault("KONDUTO_TIMEOUT", "10s")
	viper.SetDefault("MAX_DB_CONNECTIONS", "10")
	viper.SetDefault("MIN_DB_CONNECTIONS", "2")
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("RATE_LIMIT_PER_SEC", "20")
	viper.SetDefault("RATE_LIMIT_BURST", "40")

	// Optional: Read from config.yaml if exists
	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		logger.Warn("running in test mode")
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running in development mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./services/fraud-gateway/configs")
	_ = viper.ReadInConfig() // Ignore if no file

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst < cfg.RateLimitPerSec {
		cfg.RateLimitBurst = cfg.RateLimitPerSec
	}
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	return &cfg, nil
}
