package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	_ "github.com/sbilibin2017/gw-money-tracker/docs"
	"github.com/sbilibin2017/gw-money-tracker/internal/jwt"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/middlewares"
	"github.com/sbilibin2017/gw-money-tracker/internal/migrations"
	"github.com/sbilibin2017/gw-money-tracker/internal/repositories"
	"github.com/sbilibin2017/gw-money-tracker/internal/services"
	"github.com/sbilibin2017/gw-money-tracker/internal/validators"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-money-tracker API
// @version 1.0.0
// @description Personal finance tracker: per-user income and expense transactions
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath, tokenFor := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if tokenFor != "" {
		if err := issueToken(os.Stdout, cfg, tokenFor); err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
		return
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Fprintf(os.Stderr, "Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path and
// the user id to issue a development token for, if any.
func parseFlags() (configPath, tokenFor string) {
	c := flag.String("c", "config.env", "Path to configuration file")
	t := flag.String("token", "", "Print a bearer token for the given user id and exit")
	flag.Parse()
	return *c, *t
}

// newTokens creates the bearer token issuer and verifier.
func newTokens(cfg config) *jwt.JWT {
	return jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithExpiration(cfg.JWTExp),
	)
}

// issueToken writes a signed bearer token for userID to w.
func issueToken(w io.StringWriter, cfg config, userID string) error {
	tokens := newTokens(cfg)
	token, err := tokens.Generate(context.Background(), userID)
	if err != nil {
		return err
	}
	_, err = w.WriteString(token + "\n")
	return err
}

// run initializes the logger, database, Redis, Kafka and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	if err := logger.Initialize(cfg.LogLevel, "json"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Schema
	if err := migrations.Up(cfg.dsn()); err != nil {
		return err
	}

	// Connect to PostgreSQL
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.dsn())
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)

	// Connect to Redis; the service works without the cache
	var cache services.TransactionCache
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Log.Warnw("Redis unavailable, transaction list cache disabled", "error", err)
		} else {
			cache = repositories.NewTransactionCacheRepository(rdb, cfg.RedisExp)
		}
	}

	// Kafka writer
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Rate limiter
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", cfg.RateLimit, err)
	}

	tokens := newTokens(cfg)

	writeRepo := repositories.NewTransactionWriteRepository(db, middlewares.GetTxFromContext)
	readRepo := repositories.NewTransactionReadRepository(db)
	svc := services.NewUserTransactionService(writeRepo, readRepo, cache, kafkaWriter, validators.New(),
		services.WithAfterCommit(middlewares.AfterCommit),
	)

	router := newRouter(routerDeps{
		db:          db,
		svc:         svc,
		tokens:      tokens,
		limiter:     limiter.New(memory.NewStore(), rate),
		corsOrigins: cfg.CORSOrigins,
		swaggerURL:  fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
