package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/SandySeal/virtualFitting/internal/catalog"
	"github.com/SandySeal/virtualFitting/internal/config"
	"github.com/SandySeal/virtualFitting/internal/fitting"
	"github.com/SandySeal/virtualFitting/internal/fsutil"
	"github.com/SandySeal/virtualFitting/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var flagAddr string

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("fitting-room %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("fitting-room - virtual fitting room web server")
			fmt.Println()
			fmt.Println("Usage: fitting-room [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --addr ADDR      Listen address (overrides FITTING_ADDR)")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (a .env file is honored):")
			fmt.Println("  FITTING_ADDR              Listen address (default 0.0.0.0:8080)")
			fmt.Println("  FITTING_IMAGE_ROOT        Image directory (default images)")
			fmt.Println("  FITTING_CATALOG           Catalog CSV (default clothing_data.csv)")
			fmt.Println("  FITTING_MAX_UPLOAD_MB     Upload size cap (default 10)")
			fmt.Println("  FITTING_LOG_LEVEL         debug, info, warn, error (default info)")
			return
		}
	}

	flag.StringVar(&flagAddr, "addr", "", "listen address (overrides FITTING_ADDR)")
	flag.Parse()

	// A missing .env just means plain environment variables.
	_ = godotenv.Load()

	cfg := config.Load()
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}

	logger := newLogger(cfg.LogLevel)

	clothingDir := filepath.Join(cfg.ImageRoot, "clothing")
	if err := fsutil.EnsureDir(clothingDir); err != nil {
		logger.Error("failed to prepare clothing directory", "err", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath, clothingDir)
	if err != nil {
		if !errors.Is(err, catalog.ErrSourceMissing) {
			logger.Error("failed to load clothing catalog", "err", err)
			os.Exit(1)
		}
		logger.Warn("clothing catalog missing; no items will be offered",
			"path", cfg.CatalogPath)
		cat = catalog.Empty()
	} else {
		logger.Info("clothing catalog loaded", "path", cfg.CatalogPath, "items", cat.Len())
	}

	room, err := fitting.NewRoom(cfg, cat, logger)
	if err != nil {
		logger.Error("failed to prepare fitting room", "err", err)
		os.Exit(1)
	}

	srv := server.New(cfg, room, logger)

	killed := make(chan os.Signal, 1)
	signal.Notify(killed, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	serverShutdown := make(chan bool)

	go func() {
		sig := <-killed
		logger.Info("received signal to shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown server", "err", err)
		}
		cancel()
		close(serverShutdown)
	}()

	logger.Info("starting the fitting room server",
		"addr", cfg.Addr, "version", Version, "built", BuildTime)
	if err := srv.Listen(); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}

	<-serverShutdown
	logger.Info("server has shut down")
}
