// Package rest assembles the HTTP surface of the backend.
package rest

import (
	"net/http"

	"handwash-backend/interfaces/http/rest/handlers"
	custommw "handwash-backend/interfaces/http/rest/middleware"
	"handwash-backend/pkg/auth"
	"handwash-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig carries the handlers and middleware inputs of the router.
type RouterConfig struct {
	Families     *handlers.FamilyHandler
	Events       *handlers.EventHandler
	Push         *handlers.PushHandler
	Profile      *handlers.ProfileHandler
	JWTValidator *auth.JWTValidator
	Logger       *zap.Logger
	LambdaMode   bool
	EnableCORS   bool
}

// NewRouter builds the chi router with the full route table.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(custommw.Logger(cfg.Logger))

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondOK(w, map[string]interface{}{"status": "healthy"})
	})

	r.Group(func(r chi.Router) {
		r.Use(custommw.Authenticate(cfg.JWTValidator, cfg.LambdaMode))

		r.Route("/families", func(r chi.Router) {
			r.Post("/", cfg.Families.CreateFamily)
			r.Get("/", cfg.Families.ListFamilies)
			r.Post("/join", cfg.Families.JoinFamily)
			r.Post("/leave", cfg.Families.LeaveFamily)
			r.Post("/delete", cfg.Families.DeleteFamily)
			r.Get("/members", cfg.Families.ListMembers)
		})

		r.Route("/handwash", func(r chi.Router) {
			r.Post("/events", cfg.Events.Create)
			r.Get("/events", cfg.Events.List)
		})

		r.Route("/push", func(r chi.Router) {
			r.Post("/subscribe", cfg.Push.Subscribe)
			r.Post("/send", cfg.Push.Send)
		})

		r.Get("/me", cfg.Profile.Me)
		r.Put("/profile", cfg.Profile.UpdateProfile)
	})

	return r
}
