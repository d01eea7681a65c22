package routes

import (
	"net/http"

	"elecdesign/internal/auth"
	"elecdesign/internal/config"
	"elecdesign/internal/handlers"
	"elecdesign/internal/logger"
	mdlwr "elecdesign/internal/middleware"
	"elecdesign/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the services the router exposes. Verifier is nil when
// authentication is disabled and Gatherer is nil when metrics are off.
type Deps struct {
	Design   *services.DesignService
	Norms    *services.NormsService
	Verifier *auth.Verifier
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logr *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	designHandler := handlers.NewDesignHandler(deps.Design, logr.Logger)
	normsHandler := handlers.NewNormsHandler(deps.Norms, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	if cfg.MetricsEnabled && deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if deps.Verifier != nil {
			authMW := mdlwr.NewAuthMiddleware(deps.Verifier, logr.Logger)
			r.Use(authMW.JWTAuth)
		}

		r.Route("/design", func(r chi.Router) {
			r.Post("/rooms", designHandler.Rooms)
			r.Post("/demand", designHandler.Demand)
			r.Post("/circuits", designHandler.Circuits)
			r.Post("/voltage-drop", designHandler.VoltageDrop)
			r.Post("/grounding", designHandler.Grounding)
			r.Post("/pipeline", designHandler.Pipeline)
		})

		r.Route("/norms", func(r chi.Router) {
			r.Get("/tables", normsHandler.Tables)
			r.Get("/params/{key}", normsHandler.Param)

			r.Route("/cache", func(r chi.Router) {
				r.Post("/clear", normsHandler.ClearCache)
				r.Post("/preload", normsHandler.Preload)
			})
		})
	})

	return r
}
