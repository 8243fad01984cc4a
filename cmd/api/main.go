// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"basedsprings/internal/adapter/host"
	"basedsprings/internal/adapter/storage"
	"basedsprings/internal/config"
	"basedsprings/internal/domain/wallet"
	"basedsprings/internal/server"
	catalogService "basedsprings/internal/service/catalog"
	engagementService "basedsprings/internal/service/engagement"
	walletService "basedsprings/internal/service/wallet"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Load and validate the springs dataset
	dataset, err := catalogService.Load(cfg.Catalog.DataFile)
	if err != nil {
		log.Fatalf("Failed to load springs dataset: %v", err)
	}
	log.Printf("Loaded %d springs from %s", len(dataset.Springs), cfg.Catalog.DataFile)

	catalog := catalogService.NewEngine(dataset.Springs, dataset.Countries, catalogService.EngineConfig{
		HomeCountry: cfg.Catalog.HomeCountry,
		PageSize:    cfg.Catalog.PageSize,
	})

	// Initialize the engagement journal. Without a configured database the
	// journal lives in memory and durability is bounded by the process.
	var journal engagementService.Journal
	var db *pgxpool.Pool
	if cfg.Database.Host != "" {
		db, err = initDatabase(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		journal = storage.NewEngagementJournal(db)
	} else {
		log.Println("No database configured, using in-memory engagement journal")
		journal = storage.NewMemoryJournal()
	}

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Printf("NATS unavailable, engagement events will not be published: %v", err)
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	// Initialize engagement service
	engagement := engagementService.NewService(
		catalog,
		journal,
		natsConn,
		engagementService.ServiceConfig{
			CheckInCooldown: cfg.Engagement.CheckInCooldown,
			EventsTopic:     cfg.Engagement.EventsTopic,
		},
	)

	// Initialize the host bridge when configured. A nil provider leaves the
	// wallet session in the capability-absent state.
	var provider wallet.Provider
	if cfg.Host.BridgeURL != "" {
		bridge := host.NewBridgeClient(host.BridgeConfig{
			BaseURL:       cfg.Host.BridgeURL,
			AuthToken:     cfg.Host.AuthToken,
			Timeout:       cfg.Host.Timeout,
			WatchInterval: cfg.Wallet.WatchInterval,
		})
		provider = bridge

		// Signal the host that the app is ready to be displayed
		go func() {
			if err := bridge.Ready(ctx); err != nil {
				log.Printf("Host ready signal failed: %v", err)
			}
		}()
	}

	// Initialize wallet session manager
	sessionManager := walletService.NewSessionManager(provider, walletService.SessionManagerConfig{
		RetryDelay:    cfg.Wallet.RetryDelay,
		MaxRetries:    cfg.Wallet.MaxRetries,
		GlobalTimeout: cfg.Wallet.GlobalTimeout,
	})
	sessionManager.Connect()

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		cfg.Engagement,
		natsConn,
		catalog,
		engagement,
		sessionManager,
		provider,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Println("Shutting down services...")

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop wallet session manager
	if err := sessionManager.Stop(shutdownCtx); err != nil {
		log.Printf("Wallet session manager shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
