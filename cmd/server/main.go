/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the desk booking server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create API handler (engine + directory over the store)
  4. Start the retention sweeper
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port            HTTP server port (default: 8080)
  -db              SQLite database path (default: desks.db)
                   Use ":memory:" for an in-memory database
  -desks           Desks available per day (default: 15)
  -weekly-limit    Bookings per user per rolling week (default: 2)
  -retention-days  Delete bookings older than this many days; 0 disables
                   the sweeper (default: 90)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the sweeper and close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/desks.db"

  # Smaller office
  ./server -desks=8 -weekly-limit=3

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/treaty/desk-engine/api"
	"github.com/treaty/desk-engine/booking"
	"github.com/treaty/desk-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "desks.db", "SQLite database path")
	desks := flag.Int("desks", booking.DefaultLimits().MaxDesksPerDay, "Desks available per day")
	weeklyLimit := flag.Int("weekly-limit", booking.DefaultLimits().MaxBookingsPerWeek, "Bookings per user per rolling week")
	retentionDays := flag.Int("retention-days", 90, "Delete bookings older than this many days (0 disables)")
	flag.Parse()

	limits := booking.Limits{
		MaxDesksPerDay:     *desks,
		MaxBookingsPerWeek: *weeklyLimit,
		WeekWindowDays:     booking.DefaultLimits().WeekWindowDays,
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store, store, limits)
	router := api.NewRouter(handler)

	// Start retention sweeper
	sweeper := api.NewRetentionSweeper(store, *retentionDays)
	sweeper.Start()
	defer sweeper.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
