// main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"auctionbackend/internal/auction"
	"auctionbackend/internal/catalog"
	"auctionbackend/internal/config"
	"auctionbackend/internal/data"
	"auctionbackend/internal/enrich"
	"auctionbackend/internal/export"
	"auctionbackend/internal/info"
	"auctionbackend/internal/logger"
	"auctionbackend/internal/middleware"
	"auctionbackend/internal/security"
	"auctionbackend/internal/ws"
)

type App struct {
	addr          string
	handler       http.Handler
	connections   sync.WaitGroup
	totalRequests int64
}

func main() {
	populate := flag.Bool("populate", false, "seed the bidder table and exit")
	flag.Parse()

	// Step 1: Setup configuration first
	config.LoadEnv()
	config.ConfigurePaths()

	// Step 2: Setup logging
	loggerConfig := config.LoggerConfig()
	if err := logger.SetupLogger(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Only NOW is logging safe to use!
	logger.LogInfo("Environment and paths loaded. Logger ready.")
	config.LogCurrentEnvironment()

	// Step 3: Open the database and make sure the schema exists
	if err := data.InitDB(config.DatabasePath); err != nil {
		logger.LogFatal("Failed to open database: %v", err)
	}
	defer data.CloseDB()

	if err := data.EnsureSchema(); err != nil {
		logger.LogFatal("Failed to ensure schema: %v", err)
	}

	bidders := data.NewBidderRepo()
	auctions := data.NewAuctionRepo()

	if *populate {
		if err := seedBidders(bidders); err != nil {
			logger.LogFatal("Seeding failed: %v", err)
		}
		logger.LogInfo("Bidder seeding complete")
		return
	}

	// Step 4: Load the player catalog and freeze nothing yet; pools are
	// shuffled lazily on first access.
	source, err := catalog.Load(config.CatalogFile)
	if err != nil {
		logger.LogFatal("Failed to load player catalog %s: %v", config.CatalogFile, err)
	}
	total := 0
	for _, c := range source.Categories() {
		total += source.Count(c)
	}
	logger.LogInfo("Catalog loaded: %d players across %d categories", total, len(source.Categories()))
	partitioner := catalog.NewPartitioner(source)

	// Step 5: Sessions, live hub and the auction engine
	sessions := security.NewSessions(bidders)
	hub := ws.NewHub()
	engine := auction.NewEngine(partitioner, source, sessions, auctions, hub)
	enricher := enrich.NewService(config.EnrichTimeout)

	// Step 6: Setup app
	app := &App{
		addr:    serverAddress(),
		handler: routes(sessions, engine, hub, partitioner, source, enricher, bidders, auctions),
	}

	// Step 7: Start background tasks
	go sessions.CleanExpired()

	// Step 8: Run server
	app.Run()
}

// serverAddress builds the server address from environment variables
func serverAddress() string {
	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "5050"
	}
	return host + ":" + port
}

// routes sets up all API routes
func routes(
	sessions *security.Sessions,
	engine *auction.Engine,
	hub *ws.Hub,
	partitioner *catalog.Partitioner,
	source *catalog.Source,
	enricher *enrich.Service,
	bidders *data.BidderRepo,
	auctions *data.AuctionRepo,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// websocket upgrade hijacks the connection; no JSON middleware here
	mux.HandleFunc("/ws", ws.ServeWS(hub, engine, sessions))

	mux.HandleFunc("/api/login", middleware.API(sessions.LoginHandler))
	mux.HandleFunc("/api/logout", middleware.API(sessions.LogoutHandler))
	mux.HandleFunc("/api/user-info", middleware.API(sessions.UserInfoHandler))

	mux.HandleFunc("/api/init", middleware.API(sessions.RequireAdmin(auction.InitHandler(engine, source, partitioner))))
	mux.HandleFunc("/api/state", middleware.API(sessions.RequireAuth(auction.StateHandler(engine))))
	mux.HandleFunc("/api/category-set/", middleware.API(catalog.CategorySetHandler(partitioner)))
	mux.HandleFunc("/api/player-info/", middleware.API(enrich.PlayerInfoHandler(enricher, source)))

	mux.HandleFunc("/api/my-team", middleware.API(sessions.RequireAuth(info.MyTeamHandler(auctions, engine))))
	mux.HandleFunc("/api/update-roster", middleware.API(sessions.RequireAuth(info.UpdateRosterHandler(auctions))))

	mux.HandleFunc("/api/export", middleware.API(sessions.RequireAdmin(export.Handler(config.ExportDirectory, bidders, auctions))))

	var handler http.Handler = mux
	handler = withCORS(handler)
	return handler
}

// seedBidders creates the franchise accounts handed out at league night.
// The shared password comes from SEED_PASSWORD.
func seedBidders(bidders *data.BidderRepo) error {
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	teams := []struct{ username, team string }{
		{"csk", "Chennai Super Kings"},
		{"mi", "Mumbai Indians"},
		{"rcb", "Royal Challengers Bengaluru"},
		{"kkr", "Kolkata Knight Riders"},
		{"srh", "Sunrisers Hyderabad"},
		{"dc", "Delhi Capitals"},
		{"rr", "Rajasthan Royals"},
		{"pbks", "Punjab Kings"},
		{"gt", "Gujarat Titans"},
		{"lsg", "Lucknow Super Giants"},
	}

	entries := []data.SeedBidder{{
		Username:     config.AdminUsername,
		PasswordHash: hash,
		TeamName:     "Auctioneer",
		IsAdmin:      true,
	}}
	for _, t := range teams {
		entries = append(entries, data.SeedBidder{
			Username:     t.username,
			PasswordHash: hash,
			TeamName:     t.team,
		})
	}

	return bidders.Seed(entries, config.DefaultPurse)
}

// Run starts the HTTP server
func (a *App) Run() {
	server := &http.Server{
		Addr:        a.addr,
		Handler:     a.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Channel to listen for shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a separate goroutine
	go func() {
		logger.LogInfo("Starting server on %s", a.addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogFatal("Server failed: %v", err)
		}
	}()

	// Wait for a shutdown signal
	<-stop
	logger.LogInfo("Shutdown signal received")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server gracefully
	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Server shutdown error: %v", err)
	}

	// Wait for active connections to finish
	logger.LogInfo("Waiting for active connections to finish...")
	a.connections.Wait()
	logger.LogInfo("All connections closed. Total requests handled: %d", atomic.LoadInt64(&a.totalRequests))
	logger.LogInfo("Server shut down gracefully")
}

// Handler assembles the outer middleware around the mux
func (a *App) Handler() http.Handler {
	handler := a.handler
	handler = a.trackConnections(handler)
	return handler
}

// Middleware: track active connections and total requests
func (a *App) trackConnections(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.connections.Add(1)
		atomic.AddInt64(&a.totalRequests, 1)
		defer a.connections.Done()

		h.ServeHTTP(w, r)
	})
}

// Middleware: CORS headers for the browser frontend
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", config.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
