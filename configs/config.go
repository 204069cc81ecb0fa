package configs

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	minJWTSecretLength = 32
)

type Config struct {
	AppPort     string
	StoreDriver string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	JWTExpiration time.Duration

	CORSAllowOrigins  string
	RateLimitMax      int
	LoginRateLimitMax int
	TaskCacheTTL      time.Duration

	SeedDemoData bool
	LogDir       string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using environment and default values")
		}
	}

	return Config{
		AppPort:     getEnv("APP_PORT", "3004"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvAsInt("DB_PORT", 5432),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvAsInt("REDIS_PORT", 6379),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getEnv("JWT_ISSUER", "TodoListAPI"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "TodoListClient"),
		JWTExpiration: time.Duration(getEnvAsInt("JWT_EXPIRATION_MINUTES", 60)) * time.Minute,

		CORSAllowOrigins:  getEnv("CORS_ALLOW_ORIGINS", "http://localhost:4200"),
		RateLimitMax:      getEnvAsInt("RATE_LIMIT_MAX", 100),
		LoginRateLimitMax: getEnvAsInt("LOGIN_RATE_LIMIT_MAX", 10),
		TaskCacheTTL:      time.Duration(getEnvAsInt("TASK_CACHE_TTL_SECONDS", 3600)) * time.Second,

		SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", true),
		LogDir:       getEnv("LOG_DIR", "logs"),
	}
}

// Validate reports every setting that prevents the application from starting.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBName == "" {
			errs = append(errs, errors.New("DB_NAME is not set"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	} else if len(c.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength))
	}
	if c.JWTIssuer == "" || c.JWTAudience == "" {
		errs = append(errs, errors.New("JWT_ISSUER and JWT_AUDIENCE must not be empty"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

// DatabaseURL is the postgres connection URL shared by database/sql and the
// migration runner.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func (c Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
