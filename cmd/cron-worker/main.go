package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rafaeldtavares/juristrack-backend/internal/billing"
	"github.com/rafaeldtavares/juristrack-backend/internal/cron"
	"github.com/rafaeldtavares/juristrack-backend/internal/datajud"
	"github.com/rafaeldtavares/juristrack-backend/internal/favorites"
	"github.com/rafaeldtavares/juristrack-backend/internal/notifications"
	"github.com/rafaeldtavares/juristrack-backend/internal/processes"
	"github.com/rafaeldtavares/juristrack-backend/internal/subscriptions"
	"github.com/rafaeldtavares/juristrack-backend/internal/users"
	"github.com/rafaeldtavares/juristrack-backend/pkg/config"
	"github.com/rafaeldtavares/juristrack-backend/pkg/db"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
	"github.com/rafaeldtavares/juristrack-backend/pkg/metrics"
	"github.com/rafaeldtavares/juristrack-backend/pkg/migrate"
	"github.com/rafaeldtavares/juristrack-backend/pkg/redis"
	"github.com/rafaeldtavares/juristrack-backend/pkg/stripe"
)

const lockKeyFormat = "jt:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	datajudClient, err := datajud.NewClient(cfg.DataJud, datajud.WithCache(datajud.NewRedisCache(redisClient)))
	if err != nil {
		logg.Error(context.Background(), "failed to create datajud client", err)
		os.Exit(1)
	}

	processesRepo := processes.NewRepository(dbClient.DB())
	processService, err := processes.NewService(processes.ServiceParams{
		Repo:     processesRepo,
		DB:       dbClient,
		Searcher: datajudClient,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create process service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	billingRepo := billing.NewRepository(dbClient.DB())
	subscriptionsService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:    billingRepo,
		Users:   users.NewRepository(dbClient.DB()),
		Gateway: subscriptions.NewStripeGateway(stripeClient),
		Logger:  logg,
		Config:  cfg.Stripe,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	refreshJob, err := cron.NewProcessRefreshJob(cron.ProcessRefreshJobParams{
		Logger:        logg,
		FavoritesRepo: favorites.NewRepository(dbClient.DB()),
		ProcessRepo:   processesRepo,
		Refresher:     processService,
		Notifier:      notificationsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create process refresh job", err)
		os.Exit(1)
	}

	reconcileJob, err := cron.NewSubscriptionReconcileJob(cron.SubscriptionReconcileJobParams{
		Logger:      logg,
		BillingRepo: billingRepo,
		Renewer:     subscriptionsService,
		Limit:       cfg.Billing.ReconcileBatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription reconcile job", err)
		os.Exit(1)
	}

	cleanupJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		Repository: notifications.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(refreshJob, reconcileJob, cleanupJob)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
