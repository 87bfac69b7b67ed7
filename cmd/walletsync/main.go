package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/core-coin/walletsync/internal/auth"
	"github.com/core-coin/walletsync/internal/cache"
	"github.com/core-coin/walletsync/internal/config"
	"github.com/core-coin/walletsync/internal/http_api"
	"github.com/core-coin/walletsync/internal/models"
	"github.com/core-coin/walletsync/internal/notificator"
	"github.com/core-coin/walletsync/internal/privy"
	"github.com/core-coin/walletsync/internal/repository"
	"github.com/core-coin/walletsync/internal/walletsync"
	"github.com/core-coin/walletsync/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "walletsync",
		Usage: "Walletsync provisions local wallet records for Privy authenticated users",
		Flags: flags(),
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "HTTP API port"},
		&cli.StringFlag{Name: "database-driver", Aliases: []string{"db"}, Usage: "Database driver (postgres or sqlite)"},
		&cli.StringFlag{Name: "sqlite-path", Usage: "SQLite database file"},
		&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
		&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
		&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
		&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
		&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
		&cli.StringFlag{Name: "privy-app-id", Usage: "Privy app id"},
		&cli.StringFlag{Name: "privy-api-url", Usage: "Privy API base URL"},
		&cli.StringFlag{Name: "redis-addr", Aliases: []string{"r"}, Usage: "Redis address for the address cache"},
		&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
	}
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("database-driver") {
		cfg.DatabaseDriver = c.String("database-driver")
	}
	if c.IsSet("sqlite-path") {
		cfg.SQLitePath = c.String("sqlite-path")
	}
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("privy-app-id") {
		cfg.PrivyAppID = c.String("privy-app-id")
	}
	if c.IsSet("privy-api-url") {
		cfg.PrivyAPIURL = c.String("privy-api-url")
	}
	if c.IsSet("redis-addr") {
		cfg.RedisAddr = c.String("redis-addr")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}
}

// loadConfig reads the environment, applies flag overrides and validates the result.
func loadConfig(c *cli.Context) (*config.Config, error) {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := openDatabase(cfg, log.Named("repository"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %v", err)
	}

	privyClient := privy.NewClient(log.Named("privy"), cfg.PrivyAPIURL, cfg.PrivyAppID, cfg.PrivyAppSecret, cfg.PrivyTimeout)

	var opts []walletsync.Option

	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// The cache is an optimization; run without it.
			log.Warnw("Redis unavailable, address cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			addressCache := cache.NewRedisCache(client, cfg.CacheTTL)
			defer addressCache.Close()
			opts = append(opts, walletsync.WithAddressCache(addressCache))
			log.Infow("Address cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	// Initialize notificator
	notifications, err := newNotificator(ctx, cfg, log.Named("notificator"))
	if err != nil {
		return err
	}
	if notifications.Enabled() {
		opts = append(opts, walletsync.WithNotificator(notifications))
	}

	syncer := walletsync.NewWalletSync(db, verifier, privyClient, log.Named("walletsync"), cfg.PlaceholderEmailDomain, opts...)

	apiServer := http_api.NewHTTPServer(syncer, cfg.APIPort, cfg.CORSAllowedOrigins, log.Named("http"))
	go apiServer.Start()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	return apiServer.Shutdown()
}

func openDatabase(cfg *config.Config, log *logger.Logger) (*repository.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		return repository.NewSQLiteDB(cfg.SQLitePath, log)
	default:
		return repository.NewPostgresDB(cfg.PostgresDSN(), log)
	}
}

// newVerifier prefers a configured static key and falls back to the app's JWKS endpoint.
func newVerifier(ctx context.Context, cfg *config.Config) (models.TokenVerifier, error) {
	if cfg.PrivyVerificationKey != "" {
		return auth.NewKeyVerifier(cfg.PrivyVerificationKey, cfg.PrivyIssuer, cfg.PrivyAppID)
	}
	client := &http.Client{Timeout: cfg.PrivyTimeout}
	return auth.NewJWKSVerifier(ctx, cfg.JWKSURL(), cfg.PrivyIssuer, cfg.PrivyAppID, client), nil
}

func newNotificator(ctx context.Context, cfg *config.Config, log *logger.Logger) (*notificator.Notificator, error) {
	var senders []notificator.Sender
	if cfg.TelegramBotToken != "" {
		telegram, err := notificator.NewTelegramNotificator(ctx, log, cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		senders = append(senders, telegram)
	}
	if cfg.NotifyEmail != "" {
		senders = append(senders, notificator.NewEmailNotificator(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender, cfg.NotifyEmail))
	}
	return notificator.NewNotificator(log, senders...), nil
}
