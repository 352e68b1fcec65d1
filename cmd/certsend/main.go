// Command certsend runs the certificate delivery service: an HTTP API
// that accepts certificate PDFs as base64 data URLs and emails them to
// participants over implicit-TLS SMTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/certsend/certsend/internal/config"
	"github.com/certsend/certsend/internal/handler"
	"github.com/certsend/certsend/pkg/health"
	"github.com/certsend/certsend/pkg/logger"
	"github.com/certsend/certsend/pkg/mailer"
	smtpsender "github.com/certsend/certsend/pkg/mailer/smtp"
	"github.com/certsend/certsend/pkg/queue"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (env vars override)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "certsend: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		// Fail before anything dials out: a service without credentials
		// must never look healthy.
		return err
	}

	log := logger.NewWithSentry(logger.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Level:       logger.ParseLevel(cfg.Logging.Level),
		MinLevel:    slog.LevelWarn,
	}, logger.RequestIDExtractor())
	defer sentry.Flush(2 * time.Second)

	sender := smtpsender.New(smtpsender.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	}, smtpsender.WithLogger(log))

	m := mailer.New(sender, mailer.DefaultRenderer(), mailer.Config{
		FromName:  cfg.Sender.FromName,
		FromEmail: cfg.Sender.FromEmail,
	}, mailer.WithLogger(log))

	q := queue.New(queue.WithLogger(log), queue.WithInterJobDelay(time.Second))

	h := handler.New(m, q, handler.WithLogger(log))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(health.Checks{
		"queue": q.Healthcheck,
	}, health.WithLogger(log)))
	h.Routes(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", slog.String("addr", cfg.HTTP.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := q.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("queue worker: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
