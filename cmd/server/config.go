package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// config holds every setting of the server, read from the environment.
type config struct {
	AppHost     string
	AppPort     string
	LogLevel    string
	RateLimit   string   // ulule/limiter format, e.g. 100-M
	CORSOrigins []string // allowed browser origins

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string // empty disables the list cache
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int
	RedisExp          time.Duration

	KafkaBrokers []string // empty disables event publishing
	KafkaTopic   string

	JWTSecretKey string
	JWTIssuer    string
	JWTExp       time.Duration
}

// dsn returns the PostgreSQL connection string.
func (c config) dsn() string {
	return "postgres://" + c.PGUser + ":" + c.PGPassword + "@" +
		c.PGHost + ":" + strconv.Itoa(c.PGPort) + "/" + c.PGDB + "?sslmode=disable"
}

// parseConfig loads environment variables from a file and returns
// the application, database, Redis, Kafka, logging and JWT configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.RateLimit = getEnv("APP_RATE_LIMIT", "100-M")
	cfg.CORSOrigins = splitList(getEnv("APP_CORS_ORIGINS", "*"))

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	if cfg.PGPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if cfg.PGMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if cfg.PGMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	if cfg.RedisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if cfg.RedisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}
	var redisExpSecond int
	if redisExpSecond, err = strconv.Atoi(getEnv("REDIS_EXP_SECOND", "60")); err != nil {
		return
	}
	cfg.RedisExp = time.Duration(redisExpSecond) * time.Second

	// Kafka config
	cfg.KafkaBrokers = splitList(getEnv("KAFKA_BROKERS", ""))
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "transactions")

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "gw-money-tracker")
	var jwtExpSecond int
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}
	cfg.JWTExp = time.Duration(jwtExpSecond) * time.Second

	return
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
