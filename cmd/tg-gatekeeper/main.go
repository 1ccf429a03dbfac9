package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tg-gatekeeper/internal/bot"
	"tg-gatekeeper/internal/config"
	"tg-gatekeeper/internal/crash"
	"tg-gatekeeper/internal/handler"
	"tg-gatekeeper/internal/logger"
	"tg-gatekeeper/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// A .env file is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	// The bot cannot function without its store.
	if err := storage.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Database connection established")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botService, healthServer, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	handler.Initialize(cfg)

	crash.SafeGoroutine("health-server", func() {
		// Shutdown makes Start return ErrServerClosed; that is not a failure.
		if err := healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Health server error: %v", err)
		}
	})

	handler.SetupMessageHandlers(botService.Handler, botService.Bot)
	crash.SafeGoroutine("bot-handler", func() {
		botService.Start()
	})
	log.Println("Bot is polling for updates")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down...", sig)

	botService.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Health server shutdown error: %v", err)
	}

	log.Println("Server gracefully stopped")
}
