package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	MongoURL     string
	DatabaseName string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret    string
	JWTAlgorithm string
	TokenTTL     time.Duration

	ImageKitPrivateKey  string
	ImageKitPublicKey   string
	ImageKitURLEndpoint string

	AIAPIKey  string
	AIAPIBase string
	AIModel   string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		MongoURL:            getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DatabaseName:        getEnv("DATABASE_NAME", "mediscanner"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTAlgorithm:        getEnv("JWT_ALGORITHM", "HS256"),
		TokenTTL:            time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		ImageKitPrivateKey:  os.Getenv("IMAGEKIT_PRIVATE_KEY"),
		ImageKitPublicKey:   os.Getenv("IMAGEKIT_PUBLIC_KEY"),
		ImageKitURLEndpoint: os.Getenv("IMAGEKIT_URL_ENDPOINT"),
		AIAPIKey:            os.Getenv("AI_API_KEY"),
		AIAPIBase:           os.Getenv("AI_API_BASE"),
		AIModel:             getEnv("AI_MODEL", "gpt-4o-mini"),
		SwaggerHost:         os.Getenv("SWAGGER_HOST"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q: only the HMAC family is allowed", cfg.JWTAlgorithm)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
