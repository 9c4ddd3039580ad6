package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port               string
	Environment        string
	MongoURI           string
	DBName             string
	StorageBackend     string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	CORSAllowedOrigins []string
	RedisAddr          string
	ProductCacheTTL    time.Duration
	AMQPURL            string
	VerifyOrderTotal   bool
	TracingEnabled     bool
}

// Load reads .env (when present) and the process environment into AppEnv.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
	return AppEnv
}

func FromEnv() Config {
	return Config{
		Port:               getEnvOrDefault("PORT", "5000"),
		Environment:        getEnvOrDefault("APP_ENV", "development"),
		MongoURI:           getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:             getEnvOrDefault("DB_NAME", "storefront"),
		StorageBackend:     strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", "mongo")),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", 24*60, time.Minute),
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", ""),
		ProductCacheTTL:    getDurationEnv("PRODUCT_CACHE_TTL", 300, time.Second),
		AMQPURL:            getEnvOrDefault("AMQP_URL", ""),
		VerifyOrderTotal:   getBoolEnv("ORDER_VERIFY_TOTAL", false),
		TracingEnabled:     getBoolEnv("OTEL_ENABLED", false),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
