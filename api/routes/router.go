package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafaeldtavares/juristrack-backend/api/controllers"
	"github.com/rafaeldtavares/juristrack-backend/api/middleware"
	"github.com/rafaeldtavares/juristrack-backend/internal/auth"
	"github.com/rafaeldtavares/juristrack-backend/internal/billing"
	"github.com/rafaeldtavares/juristrack-backend/internal/chat"
	"github.com/rafaeldtavares/juristrack-backend/internal/favorites"
	"github.com/rafaeldtavares/juristrack-backend/internal/notifications"
	"github.com/rafaeldtavares/juristrack-backend/internal/processes"
	"github.com/rafaeldtavares/juristrack-backend/internal/subscriptions"
	"github.com/rafaeldtavares/juristrack-backend/pkg/auth/session"
	"github.com/rafaeldtavares/juristrack-backend/pkg/config"
	"github.com/rafaeldtavares/juristrack-backend/pkg/db"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
	"github.com/rafaeldtavares/juristrack-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	processService *processes.Service,
	favoritesService favorites.Service,
	billingService *billing.Service,
	subscriptionsService *subscriptions.Service,
	notificationsService notifications.Service,
	chatService *chat.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(registerService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
		r.Post("/refresh", controllers.RefreshToken(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Post("/logout", controllers.Logout(authService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/processes", func(r chi.Router) {
			r.Post("/search", controllers.SearchProcessByNumber(processService, logg))
			r.Post("/search/party", controllers.SearchProcessesByParty(processService, logg))
			r.Post("/search/court", controllers.SearchProcessesByCourt(processService, logg))
			r.Get("/searches", controllers.SearchHistory(processService, logg))
			r.Get("/{processId}", controllers.GetProcess(processService, logg))
			r.Post("/{processId}/favorite", controllers.AddFavorite(favoritesService, logg))
			r.Delete("/{processId}/favorite", controllers.RemoveFavorite(favoritesService, logg))
		})
		r.Get("/courts", controllers.ListCourts(processService, logg))
		r.Get("/favorites", controllers.ListFavorites(favoritesService, logg))

		r.Get("/plans", controllers.ListPlans(billingService, logg))
		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/checkout", controllers.CreateCheckout(subscriptionsService, logg))
			r.Post("/validate", controllers.ValidateCheckout(subscriptionsService, logg))
			r.Get("/active", controllers.GetActiveSubscription(subscriptionsService, logg))
			r.Post("/cancel", controllers.CancelSubscription(subscriptionsService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/chat", func(r chi.Router) {
			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", controllers.CreateConversation(chatService, logg))
				r.Get("/", controllers.ListConversations(chatService, logg))
				r.Get("/{conversationId}/messages", controllers.GetConversationMessages(chatService, logg))
				r.Post("/{conversationId}/messages", controllers.SendChatMessage(chatService, logg))
				r.Delete("/{conversationId}", controllers.DeleteConversation(chatService, logg))
			})
			r.Post("/analyze/{processId}", controllers.AnalyzeProcess(chatService, logg))
		})
	})

	return r
}
