package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	billingmodule "github.com/dmitrymomot/blogsmith/modules/billing"
	"github.com/dmitrymomot/blogsmith/modules/generation"
	"github.com/dmitrymomot/blogsmith/pkg/account"
	"github.com/dmitrymomot/blogsmith/pkg/affiliate"
	"github.com/dmitrymomot/blogsmith/pkg/billing"
	"github.com/dmitrymomot/blogsmith/pkg/blog"
	"github.com/dmitrymomot/blogsmith/pkg/config"
	"github.com/dmitrymomot/blogsmith/pkg/email"
	"github.com/dmitrymomot/blogsmith/pkg/entitlement"
	"github.com/dmitrymomot/blogsmith/pkg/generator"
	"github.com/dmitrymomot/blogsmith/pkg/httpserver"
	"github.com/dmitrymomot/blogsmith/pkg/logger"
	"github.com/dmitrymomot/blogsmith/pkg/mongo"
	"github.com/dmitrymomot/blogsmith/pkg/plans"
	"github.com/dmitrymomot/blogsmith/pkg/redis"
)

type appConfig struct {
	Logger logger.Config
	HTTP   httpserver.Config
	Mongo  mongo.Config
	Redis  redis.Config
	Stripe billing.StripeConfig
	Email  email.Config

	PlansFile   string        `env:"PLANS_FILE"`
	DevMailDir  string        `env:"DEV_MAIL_DIR"`
	StartupWait time.Duration `env:"STARTUP_TIMEOUT" envDefault:"60s"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Logger, os.Stdout, slog.String("service", "blogsmith"))

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg appConfig, log *slog.Logger) error {
	ctx := context.Background()

	startupCtx, cancel := context.WithTimeout(ctx, cfg.StartupWait)
	defer cancel()

	db, err := mongo.Database(startupCtx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = db.Client().Disconnect(ctx) }()

	redisClient, err := redis.Connect(startupCtx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	if err := affiliate.EnsureIndexes(startupCtx, db); err != nil {
		return err
	}

	source := plans.CatalogSource(plans.NewStaticSource(plans.DefaultPlans()...))
	if cfg.PlansFile != "" {
		source = plans.NewYAMLFileSource(cfg.PlansFile)
	}
	catalog, err := plans.NewCatalog(startupCtx, source)
	if err != nil {
		return err
	}

	accounts := account.NewMongoStore(db)
	blogs := blog.NewMongoStore(db)
	affiliates := affiliate.NewMongoStore(db)

	provider, err := billing.NewStripeProvider(cfg.Stripe)
	if err != nil {
		return err
	}

	var sender email.Sender
	if cfg.DevMailDir != "" {
		sender = email.NewDevSender(cfg.DevMailDir)
	} else {
		sender = email.MustNewPostmarkSender(cfg.Email)
	}

	billingSvc := billing.NewService(catalog, accounts, provider, billing.NewRedisDeduper(redisClient),
		billing.WithLogger(log),
		billing.WithConversionRecorder(affiliate.NewService(affiliates, accounts, log)),
		billing.WithNotifier(email.NewNotifier(sender, cfg.Email.SupportEmail)),
	)

	guard := entitlement.NewGuard(catalog, accounts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Mount("/api", generation.Router(generation.RouterOptions{
		Guard:     guard,
		Generator: generator.NewTemplateGenerator(),
		Blogs:     blogs,
		Logger:    log,
	}))
	r.Mount("/api/stripe", billingmodule.Router(billingmodule.RouterOptions{
		Service: billingSvc,
		Logger:  log,
	}))

	return httpserver.Run(ctx, cfg.HTTP, r, log)
}
