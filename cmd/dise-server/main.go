package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	diseai "github.com/Liwei-Ji/DISE-AI"
	"github.com/Liwei-Ji/DISE-AI/internal/analysis"
	"github.com/Liwei-Ji/DISE-AI/internal/api"
	"github.com/Liwei-Ji/DISE-AI/internal/config"
	"github.com/Liwei-Ji/DISE-AI/internal/inference"
	"github.com/Liwei-Ji/DISE-AI/internal/logger"
	"github.com/Liwei-Ji/DISE-AI/internal/store"
	"github.com/Liwei-Ji/DISE-AI/internal/video"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file (default: ./config/dise.yaml)")
	port := flag.Int("port", 5000, "Port to listen on")
	flag.Parse()

	// Determine config path
	cfgPath := *configPath
	if cfgPath == "" {
		if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
			cfgPath = envPath
		} else {
			cfgPath = "config/dise.yaml"
		}
	}

	// Load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		// Initialize logger with default level for this warning
		logger.Init("info")
		logger.Warn("Could not load config", "path", cfgPath, "error", err)
		cfg = config.DefaultConfig()
	}

	// Initialize logger with configured level
	logger.Init(cfg.LogLevel)

	// Override with environment variables
	if envTemp := os.Getenv("TEMP_PATH"); envTemp != "" {
		cfg.TempPath = envTemp
	}
	if envInference := os.Getenv("INFERENCE_URL"); envInference != "" {
		cfg.InferenceURL = envInference
	}

	// Ensure the staging directory exists before accepting uploads
	if err := os.MkdirAll(cfg.TempPath, 0755); err != nil {
		logger.Error("Could not create temp directory", "path", cfg.TempPath, "error", err)
		os.Exit(1)
	}

	// Job records live in an in-memory SQLite database; a restart starts
	// with an empty registry and in-flight task ids are forgotten.
	jobStore, err := store.InMemory()
	if err != nil {
		logger.Error("Failed to initialize job store", "error", err)
		os.Exit(1)
	}
	defer jobStore.Close()

	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║                          DISE-AI                           ║")
	fmt.Println("║        Airway obstruction analysis for DISE videos         ║")
	versionLine := fmt.Sprintf("v%s", diseai.Version)
	padding := 59 - len(versionLine)
	fmt.Printf("║%*s%s%*s║\n", padding/2, "", versionLine, (padding+1)/2, "")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Config:       %s\n", cfgPath)
	fmt.Printf("  Temp path:    %s\n", cfg.TempPath)
	fmt.Printf("  Inference:    %s\n", cfg.InferenceURL)
	fmt.Printf("  Max jobs:     %d\n", analysis.ClampJobLimit(cfg.MaxJobs))
	fmt.Printf("  Frame step:   %d\n", cfg.FrameStep)
	fmt.Printf("  FFmpeg:       %s\n", cfg.FFmpegPath)
	fmt.Printf("  FFprobe:      %s\n", cfg.FFprobePath)
	fmt.Println()

	// Initialize components
	registry := analysis.NewRegistryWithStore(jobStore)
	opener := video.NewOpener(cfg.FFmpegPath, cfg.FFprobePath)
	engine := inference.NewClient(cfg.InferenceURL)

	openVideo := func(ctx context.Context, path string) (analysis.Decoder, error) {
		return opener.Open(ctx, path)
	}
	runner := analysis.NewRunner(registry, openVideo, engine, cfg.TotalScopeArea, cfg.FrameStep)
	pool := analysis.NewPool(registry, runner, cfg.TempPath, cfg.MaxJobs)

	// Create API handler
	handler := api.NewHandler(registry, pool, cfg)
	router := api.NewRouter(handler)

	fmt.Printf("  Starting server on port %d\n", *port)
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Printf("  Logging started (level: %s)\n", cfg.LogLevel)
	fmt.Println("─────────────────────────────────────────────────────────────")
	logger.Info("DISE-AI started", "version", diseai.Version, "max_jobs", analysis.ClampJobLimit(cfg.MaxJobs), "port", *port)

	// Set up graceful shutdown
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\n  Shutting down...")
		logger.Info("Shutdown signal received")
		pool.Stop()
		server.Close()
	}()

	// Start server
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		pool.Stop()
		os.Exit(1)
	}

	logger.Info("Server stopped")
	fmt.Println("  Goodbye!")
}
