package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/newsdesk/internal/api"
	"github.com/dgallion1/newsdesk/internal/completion"
	"github.com/dgallion1/newsdesk/internal/config"
	"github.com/dgallion1/newsdesk/internal/doctree"
	"github.com/dgallion1/newsdesk/internal/newsdesk"
	"github.com/dgallion1/newsdesk/internal/notion"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	nc := notion.NewClient(cfg.NotionBaseURL, cfg.NotionToken, cfg.NotionVersion, cfg.NotionTimeout)
	llm := completion.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout,
		completion.NewLLMStats(cfg.LLMStatsWindow))

	walker := doctree.NewWalker(nc, cfg.NotionMaxDepth, cfg.NotionMaxNodes, log)
	desk := newsdesk.New(walker, llm, newsdesk.Config{
		RootPageID:  cfg.NotionRootPageID,
		MaxTokens:   cfg.CompletionMaxTokens,
		Temperature: cfg.CompletionTemperature,
	}, log)

	srv := api.NewServer(desk, llm, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		llm.Close()
		nc.Close()
	}()

	log.Info("starting newsdesk",
		"port", cfg.Port,
		"model", cfg.OpenAIModel,
		"max_depth", cfg.NotionMaxDepth,
		"max_nodes", cfg.NotionMaxNodes,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
