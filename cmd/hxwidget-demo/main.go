// Command hxwidget-demo serves a page exercising every widget: a culture
// aware spinner, a menu and an accordion with a lazy tab, all reporting to
// a feedback panel.
//
// Settings are read from hxwidget.yaml, .env and HXWIDGET_* variables; the
// server itself from DEMO_* variables.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pthm/hxwidget"
	"github.com/pthm/hxwidget/lib/config"
)

type serverConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("demo stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	var cfg serverConfig
	if err := config.Load(&cfg, config.WithPrefix("DEMO_"), config.WithEnvFiles(".env")); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	settings, err := hxwidget.LoadSettings(
		config.WithOptionalFile("hxwidget.yaml"),
		config.WithEnvFiles(".env"),
	)
	if err != nil {
		return err
	}
	reg := hxwidget.NewRegistry(settings, hxwidget.WithLogger(logger))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newRouter(reg, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("demo listening", slog.String("addr", cfg.Addr))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("demo stopped")
	return nil
}

func newRouter(reg *hxwidget.Registry, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle(reg.Settings().CallbackPath+"*", reg.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		d, err := newDemo()
		if err != nil {
			logger.Error("build demo", slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		page, err := reg.NewPage(d.root)
		if err != nil {
			logger.Error("create page", slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if err := hxwidget.Render(w, r, page.Document("hxwidget demo")); err != nil {
			logger.Error("render page", slog.String("page", page.ID()), slog.Any("error", err))
		}
	})
	return r
}
