package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/rafaeldtavares/juristrack-backend/api/routes"
	"github.com/rafaeldtavares/juristrack-backend/internal/auth"
	"github.com/rafaeldtavares/juristrack-backend/internal/billing"
	"github.com/rafaeldtavares/juristrack-backend/internal/chat"
	"github.com/rafaeldtavares/juristrack-backend/internal/datajud"
	"github.com/rafaeldtavares/juristrack-backend/internal/favorites"
	"github.com/rafaeldtavares/juristrack-backend/internal/notifications"
	"github.com/rafaeldtavares/juristrack-backend/internal/processes"
	"github.com/rafaeldtavares/juristrack-backend/internal/subscriptions"
	"github.com/rafaeldtavares/juristrack-backend/internal/users"
	"github.com/rafaeldtavares/juristrack-backend/pkg/auth/session"
	"github.com/rafaeldtavares/juristrack-backend/pkg/config"
	"github.com/rafaeldtavares/juristrack-backend/pkg/db"
	"github.com/rafaeldtavares/juristrack-backend/pkg/gemini"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
	"github.com/rafaeldtavares/juristrack-backend/pkg/migrate"
	"github.com/rafaeldtavares/juristrack-backend/pkg/redis"
	"github.com/rafaeldtavares/juristrack-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		SessionManager: sessionManager,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

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

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		FavoritesRepo: favorites.NewRepository(dbClient.DB()),
		ProcessRepo:   processesRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	billingRepo := billing.NewRepository(dbClient.DB())
	billingService, err := billing.NewService(billing.ServiceParams{Repo: billingRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	subscriptionsService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:    billingRepo,
		Users:   usersRepo,
		Gateway: subscriptions.NewStripeGateway(stripeClient),
		Logger:  logg,
		Config:  cfg.Stripe,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	geminiClient, err := gemini.NewClient(cfg.Gemini)
	if err != nil {
		logg.Error(context.Background(), "failed to create gemini client", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Repo:        chat.NewRepository(dbClient.DB()),
		ProcessRepo: processesRepo,
		Generator:   geminiClient,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			registerService,
			processService,
			favoritesService,
			billingService,
			subscriptionsService,
			notificationsService,
			chatService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
