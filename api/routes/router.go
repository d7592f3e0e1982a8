package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/hearth-storefront/api/controllers"
	"github.com/angelmondragon/hearth-storefront/api/middleware"
	"github.com/angelmondragon/hearth-storefront/pkg/config"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

// RateLimiter is the fixed-window counter behind the form throttles.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Deps carries everything the HTTP surface needs. Limiter may be nil, which
// disables throttling; Gatherer may be nil, which hides /metrics.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	Location   *time.Location
	Checks     map[string]controllers.Pinger
	Limiter    RateLimiter
	Gatherer   prometheus.Gatherer
	Rooms      controllers.RoomLister
	Room       controllers.RoomFetcher
	Gallery    controllers.GalleryLister
	Workspaces controllers.Workspaces
	Auth       controllers.AuthService
	Account    controllers.AccountService
	Contact    controllers.ContactService
	Chat       controllers.ChatService
	Admin      controllers.AdminService
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)
	contactPolicy := middleware.NewRateLimitPolicy(
		"contact",
		cfg.RateLimit.ContactWindow,
		cfg.RateLimit.ContactIPLimit,
		cfg.RateLimit.ContactEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Checks))
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Get("/rooms", controllers.RoomsList(d.Rooms, logg))
		r.Get("/rooms/{roomId}", controllers.RoomGet(d.Room, logg))
		r.Get("/gallery", controllers.GalleryList(d.Gallery, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(d.Workspaces, logg))
			r.Delete("/", controllers.CartClear(d.Workspaces, logg))
			r.Post("/items", controllers.CartAddItem(d.Workspaces, d.Room, logg))
			r.Delete("/items", controllers.CartRemoveItem(d.Workspaces, logg))
			r.Post("/book-now", controllers.CartBookNow(d.Room, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Auth, logg))
			r.Post("/open", controllers.CheckoutOpen(d.Workspaces, d.Room, logg))
			r.Get("/", controllers.CheckoutGet(d.Workspaces, logg))
			r.Delete("/", controllers.CheckoutClose(d.Workspaces, logg))
			r.Put("/special-requests", controllers.CheckoutSetSpecialRequests(d.Workspaces, logg))
			r.Route("/items", func(r chi.Router) {
				r.Put("/guests", controllers.CheckoutSetGuests(d.Workspaces, logg))
				r.Put("/dates", controllers.CheckoutSetDates(d.Workspaces, loc, logg))
				r.Post("/calendar", controllers.CheckoutToggleCalendar(d.Workspaces, logg))
				r.Post("/removal", controllers.CheckoutRequestRemoval(d.Workspaces, logg))
				r.Post("/removal/confirm", controllers.CheckoutConfirmRemoval(d.Workspaces, logg))
				r.Post("/removal/cancel", controllers.CheckoutCancelRemoval(d.Workspaces, logg))
			})
			r.Post("/confirmation", controllers.CheckoutRequestConfirmation(d.Workspaces, logg))
			r.Post("/confirmation/dismiss", controllers.CheckoutDismissConfirmation(d.Workspaces, logg))
			r.Post("/confirm", controllers.CheckoutConfirm(d.Workspaces, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, d.Limiter, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
			r.Get("/me", controllers.AuthMe(d.Auth, logg))
		})

		r.Route("/account", func(r chi.Router) {
			r.With(middleware.RateLimit(registerPolicy, d.Limiter, logg)).Post("/register", controllers.AccountRegister(d.Account, logg))
			r.Post("/verify-email", controllers.AccountVerifyEmail(d.Account, logg))
		})

		r.With(middleware.RateLimit(contactPolicy, d.Limiter, logg)).Post("/contact", controllers.ContactSend(d.Contact, logg))
		r.Post("/search/availability", controllers.SearchAvailability(loc, logg))
		r.Get("/chat", controllers.ChatWelcome(d.Chat, logg))
		r.Post("/chat", controllers.ChatAsk(d.Chat, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Auth, logg))
			r.Get("/amenities", controllers.AdminAmenities())
			r.Get("/rooms", controllers.AdminRoomsList(d.Admin, logg))
			r.Post("/rooms", controllers.AdminRoomSave(d.Admin, logg))
			r.Put("/rooms/{roomId}", controllers.AdminRoomSave(d.Admin, logg))
			r.Delete("/rooms/{roomId}", controllers.AdminRoomDelete(d.Admin, logg))
			r.Post("/gallery", controllers.AdminGallerySave(d.Admin, logg))
			r.Put("/gallery/{galleryId}", controllers.AdminGallerySave(d.Admin, logg))
			r.Post("/uploads/{uploadId}/cancel", controllers.AdminUploadCancel(d.Admin, logg))
		})
	})

	return r
}
