package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMySQL  = "mysql"
	StoreDriverMemory = "memory"

	minJWTSecretLength = 32
)

type Config struct {
	AppPort           string
	AppEnv            string
	StoreDriver       string
	MongoURI          string
	MongoDatabase     string
	DbHost            string
	DbPort            string
	DbUser            string
	DbPassword        string
	DbName            string
	DbParams          string
	JWTSecret         string
	TrustedProxies    []string
	TranslationFolder string
	ShutdownTimeout   time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "production"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),
		MongoURI:          getEnv("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "taskmanager"),
		DbHost:            getEnv("MYSQL_HOST", "db"),
		DbPort:            getEnv("MYSQL_PORT", "3306"),
		DbUser:            getEnv("MYSQL_USER", "taskmanager"),
		DbPassword:        getEnv("MYSQL_PASSWORD", "taskmanager"),
		DbName:            getEnv("MYSQL_DATABASE", "taskmanager"),
		DbParams:          getEnv("MYSQL_PARAMS", "parseTime=true"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TrustedProxies:    parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
		TranslationFolder: getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
		ShutdownTimeout:   parseDuration(os.Getenv("SHUTDOWN_TIMEOUT"), 15*time.Second),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo, StoreDriverMySQL, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
