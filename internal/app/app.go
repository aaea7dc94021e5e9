package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/linguatrust/translation-orders/internal/config"
	appmw "github.com/linguatrust/translation-orders/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type application struct {
	logger *slog.Logger

	router    chi.Router
	httpSrv   *http.Server
	consumers []KafkaHandler
	eg        errgroup.Group
}

func New(logger *slog.Logger, cfg config.Config) *application {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(appmw.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(appmw.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
	}))

	router.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Handler: router,
		Addr:    net.JoinHostPort(cfg.Http.Host, cfg.Http.Port),
	}

	return &application{
		logger:  logger,
		httpSrv: httpSrv,
		router:  router,
	}
}

type HttpHandler interface {
	Init(r chi.Router)
}

func (a *application) SetHttpHandlers(handlers ...HttpHandler) {
	for _, h := range handlers {
		h.Init(a.router)
	}
}

type KafkaHandler interface {
	Consume(ctx context.Context)
	Close() error
}

func (a *application) SetKafkaHandlers(handlers ...KafkaHandler) {
	a.consumers = handlers
}

func (a *application) Start(ctx context.Context) {
	for _, c := range a.consumers {
		c := c
		a.eg.Go(func() error {
			c.Consume(ctx)
			return nil
		})
	}

	a.eg.Go(func() error {
		a.logger.Info("starting http server", slog.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	a.logger.Info("application started")
}

const gracefulShutdownTimeout = 5 * time.Second

func (a *application) Stop() {
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close kafka consumer", slog.Any("error", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown http server", slog.Any("error", err))
	}

	if err := a.eg.Wait(); err != nil {
		a.logger.Error("application exited with error", slog.Any("error", err))
	}

	a.logger.Info("application stopped")
}
