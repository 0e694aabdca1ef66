package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/auth"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/cache"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/clickhouse"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/dal"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/engine"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/handlers"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/jobs"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/logger"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/mocks"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/pubsub"
)

// eventBus is the shape shared by the real, embedded and mock NATS pub/subs
type eventBus interface {
	Publish(pubsub.Event)
	Subscribe() chan pubsub.Event
	Unsubscribe(chan pubsub.Event)
	SubscribeJetStream(consumerName string, handler func(pubsub.Event)) error
}

var (
	dataStore    dal.LeagueDAL
	authProvider auth.AuthProvider
)

func main() {
	// Initialize logger first
	logger.Init()

	logger.Info("Starting league rankings microservice")

	// Initialize database driver
	dbDriver := os.Getenv("DB_DRIVER")
	if dbDriver == "" {
		dbDriver = "memory"
	}

	var err error
	switch dbDriver {
	case "memory":
		dataStore = dal.NewMemoryDAL()
		logger.Info("Using in-memory data store")
	case "sqlite":
		sqliteFile := os.Getenv("SQLITE_FILE")
		if sqliteFile == "" {
			sqliteFile = "dev.sqlite"
		}
		dataStore, err = dal.NewSQLiteDAL(sqliteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite database", "file", sqliteFile)
	case "mock-postgres":
		sqliteFile := os.Getenv("SQLITE_FILE")
		if sqliteFile == "" {
			sqliteFile = "mock-postgres.sqlite"
		}
		dataStore, err = mocks.NewMockPostgresDAL(sqliteFile)
		if err != nil {
			logger.Error("Failed to initialize mock Postgres", "error", err)
			log.Fatalf("Failed to initialize mock Postgres: %v", err)
		}
	case "postgres":
		dbConnString := os.Getenv("DATABASE_URL")
		if dbConnString == "" {
			logger.Error("DATABASE_URL environment variable is required for postgres driver")
			log.Fatal("DATABASE_URL environment variable is required for postgres driver")
		}
		dataStore, err = dal.NewPostgresDAL(dbConnString)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			log.Fatalf("Failed to initialize Postgres: %v", err)
		}
		logger.Info("Connected to Postgres database")
	default:
		logger.Error("Unknown DB_DRIVER", "driver", dbDriver)
		log.Fatalf("Unknown DB_DRIVER: %s (valid: memory, sqlite, mock-postgres, postgres)", dbDriver)
	}

	// Initialize pub/sub (NATS JetStream or Embedded NATS for local development)
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	natsSubject := os.Getenv("NATS_SUBJECT")
	if natsSubject == "" {
		natsSubject = "league.events"
	}

	environment := os.Getenv("ENVIRONMENT")
	var bus eventBus

	// Use embedded NATS in development mode, real NATS in production.
	// NATS_MODE=mock swaps in the in-memory bus, for tests and environments
	// where even the embedded server cannot bind a port.
	if os.Getenv("NATS_MODE") == "mock" {
		bus = mocks.NewMockNATSPubSub()
	} else if environment == "" || environment == "development" {
		logger.Info("Starting embedded NATS server for local development")
		embeddedNats, err := pubsub.NewEmbeddedNATSPubSub(pubsub.EmbeddedNATSOptions{
			Port:       0, // Random available port
			Subject:    natsSubject,
			StreamName: "LEAGUE_EVENTS",
			StoreDir:   "", // In-memory storage
		})
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		bus = embeddedNats
		logger.Info("Embedded NATS server ready", "url", embeddedNats.GetServerURL())
	} else {
		logger.Info("Using real NATS JetStream for production")
		realNats, err := pubsub.NewNATSPubSub(natsURL, natsSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		bus = realNats
		logger.Info("Connected to NATS", "url", natsURL)
	}

	// Bridge: publishes go to NATS, NATS events fan out to local subscribers
	localPS := pubsub.NewWithUpstream(bus)

	snapshotService := engine.NewSnapshotService()

	api := handlers.NewAPIHandlers(dataStore, localPS, snapshotService)

	// Optional Redis cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		api.WithCache(cache.NewStandingsCache(redisClient))
		logger.Info("Connected to Redis cache", "address", redisAddr)
	} else {
		logger.Info("Redis not configured, standings are recomputed per request")
	}

	// ClickHouse analytics (or mock in development)
	if environment == "" || environment == "development" {
		api.WithAnalytics(mocks.NewMockAnalytics())
	} else {
		chAddr := os.Getenv("CLICKHOUSE_ADDR")
		if chAddr == "" {
			chAddr = "localhost:9000"
		}
		chDB := os.Getenv("CLICKHOUSE_DB")
		if chDB == "" {
			chDB = "default"
		}
		chUser := os.Getenv("CLICKHOUSE_USER")
		if chUser == "" {
			chUser = "default"
		}
		chPass := os.Getenv("CLICKHOUSE_PASSWORD")

		chClient, chErr := clickhouse.NewClient(chAddr, chDB, chUser, chPass)
		if chErr != nil {
			logger.Error("Failed to initialize ClickHouse", "error", chErr, "address", chAddr)
			log.Fatalf("Failed to initialize ClickHouse: %v", chErr)
		}
		api.WithAnalytics(chClient)
		logger.Info("Connected to ClickHouse", "address", chAddr, "database", chDB)
	}

	// Start the batch draft-order consumer on the durable subscription
	consumer := jobs.NewConsumer(dataStore, snapshotService, bus)
	if err := consumer.Start(bus); err != nil {
		logger.Error("Failed to start draft-order consumer", "error", err)
		log.Fatalf("Failed to start draft-order consumer: %v", err)
	}

	// Initialize authentication
	// Use mock auth in development mode, Authentik OAuth2 in production
	if environment == "" || environment == "development" {
		logger.Info("Using mock authentication for local development (no Authentik server required)")
		authProvider = auth.NewMockAuth()
	} else {
		authentikBaseURL := os.Getenv("AUTHENTIK_BASE_URL")
		authentikClientID := os.Getenv("AUTHENTIK_CLIENT_ID")
		authentikClientSecret := os.Getenv("AUTHENTIK_CLIENT_SECRET")
		authentikRedirectURL := os.Getenv("AUTHENTIK_REDIRECT_URL")

		if authentikBaseURL == "" || authentikClientID == "" || authentikClientSecret == "" {
			logger.Error("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID, and AUTHENTIK_CLIENT_SECRET environment variables are required for production")
			log.Fatal("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID, and AUTHENTIK_CLIENT_SECRET environment variables are required for production")
		}

		if authentikRedirectURL == "" {
			authentikRedirectURL = "http://localhost:3000/auth/callback"
		}

		authProvider = auth.NewAuthentikAuth(&auth.AuthentikConfig{
			BaseURL:      authentikBaseURL,
			ClientID:     authentikClientID,
			ClientSecret: authentikClientSecret,
			RedirectURL:  authentikRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
		})
		logger.Info("Connected to Authentik", "url", authentikBaseURL)
	}

	// Start gRPC health server in a goroutine (Kubernetes grpc probes)
	grpcPort := os.Getenv("GRPC_PORT")
	if grpcPort == "" {
		grpcPort = "50051"
	}

	go func() {
		lis, err := net.Listen("tcp", "0.0.0.0:"+grpcPort)
		if err != nil {
			logger.Error("Failed to listen for gRPC", "error", err, "port", grpcPort)
			log.Fatalf("Failed to listen for gRPC: %v", err)
		}

		grpcServer := grpc.NewServer()
		healthServer := health.NewServer()
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthServer)

		logger.Info("gRPC health server starting", "address", "0.0.0.0:"+grpcPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	// Set up HTTP routes
	mux := http.NewServeMux()

	// Auth routes (public)
	mux.HandleFunc("/auth/login", authProvider.LoginHandler)
	mux.HandleFunc("/auth/callback", authProvider.CallbackHandler)
	mux.HandleFunc("/auth/logout", authProvider.LogoutHandler)

	// Read API (public)
	mux.HandleFunc("/api/teams", api.ListTeams)
	mux.HandleFunc("/api/standings", api.GetStandings)
	mux.HandleFunc("/api/standings/history", api.GetTeamRankHistory)
	mux.HandleFunc("/api/draft-order/snapshot", api.GetSnapshot)
	mux.HandleFunc("/api/draft-order/snapshots", api.ListSnapshots)
	mux.HandleFunc("/api/playoffs/seeds", api.GetPlayoffSeeds)
	mux.HandleFunc("/api/playoffs/bracket", api.GetPlayoffBracket)

	// Write API (admin only)
	mux.HandleFunc("/api/draft-order/compute", authProvider.Middleware(auth.RequireAdmin(api.ComputeDraftOrder)))
	mux.HandleFunc("/api/games/result", authProvider.Middleware(auth.RequireAdmin(api.RecordGameResult)))
	mux.HandleFunc("/api/reset", authProvider.Middleware(auth.RequireAdmin(api.ResetLeague)))

	// SSE for realtime updates
	mux.HandleFunc("/api/events", api.EventsSSE)

	// Health check endpoints
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	addr := "0.0.0.0:" + port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	// Check database connectivity
	if dataStore != nil {
		_, err := dataStore.ListTeams()
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// livenessHandler handles Kubernetes liveness probes.
// Returns 200 if the application is running (doesn't check dependencies).
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler handles Kubernetes readiness probes.
// Returns 200 if the application is ready to serve traffic.
func readinessHandler(w http.ResponseWriter, r *http.Request) {
	if dataStore != nil {
		_, err := dataStore.ListTeams()
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "not_ready",
				"reason":    "database_unavailable",
				"timestamp": time.Now().Unix(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
