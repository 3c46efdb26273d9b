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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"golang.org/x/sync/errgroup"

	"fanout-agent/internal/di"
	"fanout-agent/internal/infrastructure/env"
)

func main() {
	once := flag.String("once", "", "run the pipeline once on the given message, print the reply and exit")
	flag.Parse()

	envService := env.NewEnvService()

	cfg := di.Config{
		OpenRouterAPIKey: envService.MustGet("OPENROUTER_API_KEY"),
		OpenRouterModel:  envService.MustGet("OPENROUTER_MODEL_NAME"),
		MaxParallel:      envService.GetInt("MAX_PARALLEL_TASKS", 4),
		Debug:            envService.GetBool("DEBUG", false),
	}
	if *once == "" {
		cfg.ChannelSecret = envService.MustGet("CHANNEL_SECRET")
		cfg.ChannelToken = envService.MustGet("CHANNEL_TOKEN")
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer container.Close()

	if *once != "" {
		runOnce(container, *once)
		return
	}

	if err := serve(container, envService.GetWithDefault("LISTEN_ADDR", ":8080")); err != nil {
		container.Logger.Error("Server stopped with error", "error", err)
		container.Close()
		os.Exit(1)
	}
}

func runOnce(container *di.Container, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result := container.Pipeline.Reply(ctx, message)
	fmt.Println(result.Text)
}

func serve(container *di.Container, addr string) error {
	httpLogger := httplog.NewLogger("fanout-agent", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(httpLogger))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodPost, "/webhook", container.Webhook)

	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		container.Logger.Info("Webhook server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		container.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
