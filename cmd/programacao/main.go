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
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/klabast/wb-services/programacao/internal/app"
	"github.com/klabast/wb-services/programacao/internal/commands"
	"github.com/klabast/wb-services/programacao/internal/schedule"
	"github.com/klabast/wb-services/programacao/internal/sources"
	"github.com/klabast/wb-services/programacao/internal/week"
)

func main() {
	// Check for subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "reset":
			runCommand(commands.Reset(os.Args[2:], os.Stdin, os.Stdout))
			return
		case "export":
			runCommand(commands.Export(os.Args[2:], os.Stdout))
			return
		}
	}

	cfg := app.LoadConfig()
	flag.StringVar(&cfg.HTTPAddress, "addr", cfg.HTTPAddress, "Address to listen on")
	flag.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "Storage backend: memory, file, sqlite or redis")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory for the file backend")
	flag.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "Database path for the sqlite backend")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis backend")
	flag.StringVar(&cfg.LocationOrder, "location-order", cfg.LocationOrder, "Location listing order: alphabetical or insertion")
	flag.BoolVar(&cfg.ReadOnly, "read-only", cfg.ReadOnly, "Reject every change to the schedule and catalogs")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backing, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer backing.Close()

	order, _ := sources.ParseLocationOrder(cfg.LocationOrder)
	logger := log.Default()
	registry := sources.NewRegistry(backing,
		sources.WithLogger(logger),
		sources.WithLocationOrder(order),
	)
	if err := registry.Load(ctx); err != nil {
		log.Fatalf("Failed to load sources: %v", err)
	}

	store := schedule.NewStore(backing, registry,
		schedule.WithLogger(logger),
		schedule.WithPlaceholderTemplate(cfg.PlaceholderURL),
	)
	if err := store.Load(ctx); err != nil {
		log.Fatalf("Failed to load activities: %v", err)
	}

	nav := week.NewNavigator(time.Now)
	handler := app.NewHandler(cfg, nav, store, registry, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	requestLogger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      requestLogger(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting Programação in %s mode on %s", cfg.Mode(), cfg.HTTPAddress)
		log.Printf("Loaded %d activities, week %s", store.Len(), nav.Current().Label)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

func runCommand(err error) {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
