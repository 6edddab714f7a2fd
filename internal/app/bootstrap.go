package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/wb_tickets/config"
	"github.com/Gunvolt24/wb_tickets/internal/kafka"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/internal/repo/postgres"
	rest "github.com/Gunvolt24/wb_tickets/internal/transport/http"
	"github.com/Gunvolt24/wb_tickets/internal/usecase"
	"github.com/Gunvolt24/wb_tickets/pkg/logger"
	"github.com/Gunvolt24/wb_tickets/pkg/metrics"
	"github.com/Gunvolt24/wb_tickets/pkg/telemetry"
	"github.com/Gunvolt24/wb_tickets/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	MetricsServer   *http.Server          // отдельный /metrics; nil — не поднимается
	KafkaConsumer   ports.MessageConsumer // консьюмер покупок; nil — выключен
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// ginMode — режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func ginMode(ctx context.Context, mode string, log ports.Logger) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	case "", "debug":
		return gin.DebugMode
	default:
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
		return gin.DebugMode
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	closeLogger := func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}

	// Цены и лимит мест.
	rules, err := cfg.Rules()
	if err != nil {
		closeLogger()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Пул подключений Postgres
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
		MaxConnIdleTime: cfg.Postgres.MaxConnIdleTime,
	})
	if err != nil {
		closeLogger()
		return nil, func() {}, err
	}

	// Миграции схемы броней.
	if cfg.Postgres.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			closeLogger()
			return nil, func() {}, err
		}
		logg.Infof(ctx, "postgres migrations applied")
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if tErr != nil {
		logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		shutdownTrace = func(context.Context) error { return nil }
	} else if cfg.Tracing.Enabled {
		logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
			cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	}

	// Сборка зависимостей доменного слоя.
	payments := kafka.NewPaymentPublisher(&kafka.PublisherConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.PaymentsTopic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, logg)
	seats := postgres.NewSeatReservationRepository(pool)
	purchaseValidator := validate.NewPurchaseValidator(rules)
	ticketService := usecase.NewTicketService(payments, seats, logg, purchaseValidator, rules)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(ticketService, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName, ginMode(ctx, cfg.HTTP.GinMode, logg))

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		}
	}

	// Конфигурация и создание консьюмера Kafka.
	var consumer ports.MessageConsumer
	if cfg.Kafka.ConsumerEnabled {
		kafkaCfg := kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}
		consumer = kafka.NewConsumer(&kafkaCfg, ticketService, logg)
	} else {
		logg.Infof(ctx, "kafka consumer disabled, purchases accepted over HTTP only")
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		KafkaConsumer:   consumer,
		gracefulTimeout: cfg.HTTP.ShutdownTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		}
		if err := payments.Close(); err != nil {
			logg.Warnf(ctx, "payment publisher close error: %v", err)
		}

		pool.Close()
		closeLogger()
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	// Запуск консьюмера.
	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	// Запуск HTTP-серверов.
	for _, srv := range a.servers() {
		srv := srv
		go func() {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Ожидание сигнала остановки или фоновой ошибки.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
			runErr = err
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-серверов.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range a.servers() {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed (addr=%s): %v", srv.Addr, err)
		} else {
			a.Logger.Infof(ctx, "http server stopped gracefully (addr=%s)", srv.Addr)
		}
	}

	// Остановка Kafka-консьюмера
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}

func (a *App) servers() []*http.Server {
	out := []*http.Server{a.HTTPServer}
	if a.MetricsServer != nil {
		out = append(out, a.MetricsServer)
	}
	return out
}
