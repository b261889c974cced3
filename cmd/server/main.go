/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Open SQLite store, migrate schema
  3. Optionally seed default catalog stock
  4. Wire ledger, catalog, engine, router
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags take precedence over environment variables.
    -port    / PORT     HTTP server port (default: 8080)
    -db      / DATABASE SQLite path (default: bakery.db, ":memory:" ok)
    -recipes / RECIPES  JSON catalog file (default: built-in catalog)
    -seed               Seed default stock at startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain active requests
  (30s timeout), close the database, exit.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hearthside/bakery-engine/api"
	"github.com/hearthside/bakery-engine/inventory"
	"github.com/hearthside/bakery-engine/recipe"
	"github.com/hearthside/bakery-engine/store/sqlite"
)

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envString("DATABASE", "bakery.db"), "SQLite database path")
	recipesPath := flag.String("recipes", envString("RECIPES", ""), "JSON recipe catalog file (empty: built-in catalog)")
	seed := flag.Bool("seed", false, "seed default catalog stock at startup")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	ledger := inventory.NewLedger(store)

	catalog, err := loadCatalog(*recipesPath)
	if err != nil {
		log.Fatalf("Failed to load recipe catalog: %v", err)
	}

	if *seed {
		if err := seedStock(context.Background(), ledger); err != nil {
			log.Fatalf("Failed to seed inventory: %v", err)
		}
	}

	handler := api.NewHandler(ledger, catalog)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Bakery inventory engine listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

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

// loadCatalog builds the recipe catalog: from a JSON file when one is
// configured, otherwise the built-in defaults.
func loadCatalog(path string) (recipe.Catalog, error) {
	if path == "" {
		return recipe.DefaultCatalog(), nil
	}
	catalog, err := recipe.NewCatalogLoader().LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d recipes from %s", len(catalog.List()), path)
	return catalog, nil
}

// seedStock loads the default stock, skipping ingredients that already
// exist so restarts with -seed are harmless.
func seedStock(ctx context.Context, ledger *inventory.Ledger) error {
	var created int
	for _, item := range recipe.DefaultStock() {
		err := ledger.Seed(ctx, item)
		if errors.Is(err, inventory.ErrItemExists) {
			continue
		}
		if err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Printf("Seeded %d inventory items", created)
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
