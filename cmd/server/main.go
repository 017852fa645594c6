package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"quiz-agent/internal/di"
	"quiz-agent/internal/infrastructure/env"
	"quiz-agent/internal/infrastructure/httpapi"
	"quiz-agent/internal/usecase/chain"
)

func main() {
	envService := env.NewEnvService()

	timeBudget := envService.GetDuration("CHAIN_TIME_BUDGET", chain.DefaultTimeBudget)

	container, err := di.NewContainer(di.Config{
		OpenAIAPIKey:    envService.MustGet("OPENAI_API_KEY"),
		OpenAIModel:     envService.Get("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:   envService.Get("OPENAI_BASE_URL", ""),
		BrowserHeadless: envService.GetBool("BROWSER_HEADLESS", true),
		TimeBudget:      timeBudget,
		MaxIterations:   envService.GetInt("CHAIN_MAX_ITERATIONS", chain.DefaultMaxIterations),
		Debug:           envService.GetBool("DEBUG", false),
	})
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer container.Close()

	api := httpapi.NewServer(
		container.Runner,
		envService.MustGet("QUIZ_SECRET"),
		timeBudget,
		container.Logger,
	)

	addr := envService.Get("LISTEN_ADDR", ":8080")
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		container.Logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	container.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("shutdown failed", "error", err)
	}
}
