package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/ojasmehta/yatra/internal/api/admin"
	"github.com/ojasmehta/yatra/internal/api/auth"
	"github.com/ojasmehta/yatra/internal/api/booking"
	"github.com/ojasmehta/yatra/internal/api/chat"
	"github.com/ojasmehta/yatra/internal/api/itinerary"
	"github.com/ojasmehta/yatra/internal/api/sites"
)

// Config contains the handlers and middleware the router wires up.
// Server-wide middleware (request id, logger, recoverer) is applied in
// main before this router is mounted.
type Config struct {
	AuthHandler            *auth.AuthHandler
	ItineraryHandler       *itinerary.Handler
	BookingHandler         *booking.Handler
	ChatHandler            *chat.Handler
	SitesHandler           *sites.Handler
	AdminHandler           *admin.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter builds the application route tree.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)

			r.Post("/chat", cfg.ChatHandler.Ask)

			r.Get("/sites", cfg.SitesHandler.List)
			r.Get("/sites/{siteID}", cfg.SitesHandler.Get)

			r.Get("/bookings/qr/preview", cfg.BookingHandler.PreviewQRCode)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Get("/auth/validate", cfg.AuthHandler.ValidateSession)
			r.Get("/auth/me", cfg.AuthHandler.GetMe)
			r.Put("/auth/me", cfg.AuthHandler.UpdateProfile)
			r.Put("/auth/password", cfg.AuthHandler.UpdatePassword)

			r.Route("/itineraries", func(r chi.Router) {
				r.Post("/generate", cfg.ItineraryHandler.Generate)
				r.Post("/", cfg.ItineraryHandler.Save)
				r.Get("/", cfg.ItineraryHandler.List)
				r.Get("/{itineraryID}", cfg.ItineraryHandler.Get)
				r.Delete("/{itineraryID}", cfg.ItineraryHandler.Delete)
				r.Get("/{itineraryID}/pdf", cfg.ItineraryHandler.ExportPDF)
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", cfg.BookingHandler.ListBooked)
				r.Post("/cart", cfg.BookingHandler.AddToCart)
				r.Get("/cart", cfg.BookingHandler.ListCart)
				r.Delete("/cart/{bookingID}", cfg.BookingHandler.RemoveFromCart)
				r.Post("/confirm", cfg.BookingHandler.ConfirmAll)
				r.Post("/{bookingID}/confirm", cfg.BookingHandler.Confirm)
				r.Get("/{bookingID}/qr", cfg.BookingHandler.QRCode)
			})
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			r.Use(cfg.AdminHandler.RequireAdmin)

			r.Get("/admin/bookings", cfg.AdminHandler.ListAllBookings)
			r.Get("/admin/users", cfg.AdminHandler.ListUsers)
			r.Post("/admin/users/{userID}/role", cfg.AdminHandler.ToggleUserRole)
		})
	})

	return r
}
