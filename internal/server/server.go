// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"basedsprings/internal/config"
	"basedsprings/internal/domain/engagement"
	"basedsprings/internal/domain/spring"
	"basedsprings/internal/domain/wallet"
	"basedsprings/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server. The wallet provider may be nil when
// the host bridge capability is absent.
func NewServer(
	cfg config.ServerConfig,
	engagementCfg config.EngagementConfig,
	natsConn *nats.Conn,
	catalog spring.Catalog,
	engagementService engagement.Service,
	walletManager wallet.Manager,
	walletProvider wallet.Provider,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	springHandler := handlers.NewSpringHandler(catalog)
	engagementHandler := handlers.NewEngagementHandler(engagementService)
	walletHandler := handlers.NewWalletHandler(walletManager)
	shareHandler := handlers.NewShareHandler(walletProvider, catalog)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Springs catalog API
			r.Route("/springs", func(r chi.Router) {
				r.Get("/", springHandler.ListSprings)
				r.Get("/stats/states", springHandler.GetStateStats)
				r.Get("/stats/countries", springHandler.GetCountryStats)
				r.Get("/{id}", springHandler.GetSpring)

				// Per-spring engagement
				r.Post("/{id}/checkins", engagementHandler.CheckIn)
				r.Get("/{id}/checkins/stats", engagementHandler.GetCheckInStats)
				r.Get("/{id}/tips", engagementHandler.ListTips)
				r.Post("/{id}/tips", engagementHandler.CreateTip)
				r.Post("/{id}/share", shareHandler.Share)
			})

			// Tips API
			r.Route("/tips", func(r chi.Router) {
				r.Post("/{id}/replies", engagementHandler.CreateReply)
				r.Post("/{id}/helpful", engagementHandler.MarkHelpful)
			})

			// Nominations API
			r.Route("/nominations", func(r chi.Router) {
				r.Get("/", engagementHandler.ListNominations)
				r.Post("/", engagementHandler.CreateNomination)
				r.Post("/{id}/votes", engagementHandler.CastVote)
			})

			// Quests and leaderboard
			r.Get("/quests", engagementHandler.GetQuests)
			r.Get("/leaderboard", engagementHandler.GetLeaderboard)

			// Wallet session API
			r.Route("/wallet", func(r chi.Router) {
				r.Get("/session", walletHandler.GetSession)
				r.Post("/connect", walletHandler.Connect)
			})
		})
	})

	// WebSocket endpoint for the live engagement event stream
	if natsConn != nil {
		router.Get("/ws/engagement", handlers.EngagementWebSocketHandler(natsConn, engagementCfg.EventsTopic))
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
