//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	pgrepo "github.com/Gunvolt24/wb_tickets/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"
)

var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

// PGContainer — Postgres с базой tickets и пулом, собранным так же, как в сервисе.
type PGContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// StartPostgresTC — контейнер Postgres; схема не накатывается (см. ApplyMigrationsGoose).
func StartPostgresTC(ctx context.Context) (*PGContainer, func(context.Context) error, error) {
	pg, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tickets"),
		postgres.WithUsername("app"),
		postgres.WithPassword("app"),
		tc.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, nil, fmt.Errorf("conn string: %w", err)
	}

	// тот же конструктор пула, что и в Bootstrap
	pool, err := pgrepo.NewPool(ctx, pgrepo.PoolConfig{DSN: dsn, MaxConns: 5})
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, nil, err
	}
	tcLogger.Printf("postgres ready db=tickets dsn=%s", dsn)

	stop := func(c context.Context) error {
		pool.Close()
		return pg.Terminate(c)
	}
	return &PGContainer{Container: pg, DSN: dsn, Pool: pool}, stop, nil
}

// KafkaEnv — Redpanda для топиков покупок и платежей.
type KafkaEnv struct {
	Container *redpanda.Container
	Brokers   []string
	BaseTopic string
}

// PurchaseTopics — пара топиков и группа консьюмера для одного теста.
type PurchaseTopics struct {
	Purchases string
	Payments  string
	Group     string
}

func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, func(context.Context) error, error) {
	rp, err := redpanda.Run(
		ctx,
		"docker.redpanda.com/redpandadata/redpanda:v23.3.8",
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx) // "host:port" для клиента
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}
	tcLogger.Printf("redpanda ready broker=%s", seed)

	env := &KafkaEnv{
		Container: rp,
		Brokers:   []string{seed},
		BaseTopic: baseTopic,
	}
	stop := func(_ context.Context) error { return tc.TerminateContainer(rp) }
	return env, stop, nil
}

// PurchaseTopics — создаёт уникальные топики покупок и платёжных команд для теста name.
func (k *KafkaEnv) PurchaseTopics(ctx context.Context, name string) (PurchaseTopics, error) {
	purchases, group := UniqueTopicAndGroup(k.BaseTopic + "-" + name)
	payments, _ := UniqueTopicAndGroup(k.BaseTopic + "-payments-" + name)

	for _, topic := range []string{purchases, payments} {
		if err := EnsureTopic(ctx, k.Brokers[0], topic); err != nil {
			return PurchaseTopics{}, fmt.Errorf("ensure topic %s: %w", topic, err)
		}
	}
	return PurchaseTopics{Purchases: purchases, Payments: payments, Group: group}, nil
}
