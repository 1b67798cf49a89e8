package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"checkin/internal/adapters/rest"
	"checkin/internal/application"
	"checkin/internal/config"
	"checkin/internal/infrastructure/database"
	"checkin/internal/infrastructure/i18n"
	"checkin/internal/infrastructure/memory"
	"checkin/internal/infrastructure/password"
	"checkin/internal/infrastructure/ratelimit"
	"checkin/internal/infrastructure/seed"
	"checkin/internal/infrastructure/telemetry"
	"checkin/internal/infrastructure/token"
	"checkin/internal/ports/output"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		migrateOnly bool
		seedFile    string
		addr        string
		showHelp    bool
	)
	flagSet := pflag.NewFlagSet("checkin-server", pflag.ContinueOnError)
	flagSet.BoolVar(&migrateOnly, "migrate-only", false, "apply database migrations and exit")
	flagSet.StringVar(&seedFile, "seed", "", "load users, events and participants from a YAML `file` before serving")
	flagSet.StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show this help")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: checkin-server [flags]\n\nFlags:\n")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showHelp {
		flagSet.Usage()
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTPAddr = addr
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "checkin-server",
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	if migrateOnly {
		if cfg.StorageDriver != config.DriverPostgres {
			return fmt.Errorf("--migrate-only requires STORAGE_DRIVER=%s", config.DriverPostgres)
		}
		return database.RunMigrations(cfg.DatabaseURL)
	}

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	hasher, err := password.NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := token.NewJWT([]byte(cfg.JWTSecret), cfg.JWTTTL)
	if err != nil {
		return err
	}

	services := rest.Services{
		Auth:         application.NewAuthService(repos.users, hasher, tokens, logger),
		Participants: application.NewParticipantService(repos.participants),
		Events:       application.NewEventService(repos.events),
		Entries:      application.NewEntryService(repos.entries, repos.participants, repos.events),
		Statistics:   application.NewStatisticsService(repos.entries, repos.participants, repos.events),
	}
	users := application.NewUserService(repos.users, hasher)
	services.Users = users

	if cfg.BootstrapAdminUsername != "" {
		created, err := users.EnsureAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			logger.Info("👤 bootstrap admin created", "username", cfg.BootstrapAdminUsername)
		}
	}

	if seedFile != "" {
		f, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}
		res, err := seed.NewSeeder(services.Users, services.Events, services.Participants, logger).Apply(ctx, f)
		if err != nil {
			return fmt.Errorf("seed %s: %w", seedFile, err)
		}
		logger.Info("🌱 seed applied", "file", seedFile, "created", res.Created, "skipped", res.Skipped)
	}

	limiter, closeLimiter, err := newLimiter(cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	handler := rest.NewHandler(services, rest.Options{
		Translator:     i18n.NewTranslator(cfg.DefaultLocale),
		Limiter:        limiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		EventLocation:  cfg.EventLocation(),
		Logger:         logger,
	})
	return rest.NewServer(cfg.HTTPAddr, handler, logger).Start(ctx)
}

type repositories struct {
	participants output.ParticipantRepository
	events       output.EventRepository
	users        output.UserRepository
	entries      output.EntryRepository
}

func openStore(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		store := memory.NewStore()
		slog.Warn("⚠️ using in-memory storage, data is lost on exit")
		return repositories{
			participants: store.Participants(),
			events:       store.Events(),
			users:        store.Users(),
			entries:      store.Entries(),
		}, store.Close, nil
	}

	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return repositories{}, nil, err
		}
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("database: %w", err)
	}
	return repositories{
		participants: database.NewParticipantRepository(pool),
		events:       database.NewEventRepository(pool),
		users:        database.NewUserRepository(pool),
		entries:      database.NewEntryRepository(pool),
	}, pool.Close, nil
}

func newLimiter(cfg *config.Config) (output.RateLimiter, func(), error) {
	if cfg.RedisURL == "" {
		return ratelimit.NewLocal(cfg.RateLimitWindow, cfg.RateLimitMax), func() {}, nil
	}
	client, err := ratelimit.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return ratelimit.NewRedis(client, cfg.RateLimitWindow, cfg.RateLimitMax), func() { client.Close() }, nil
}
