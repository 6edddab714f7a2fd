//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	ikafka "github.com/Gunvolt24/wb_tickets/internal/kafka"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	pgrepo "github.com/Gunvolt24/wb_tickets/internal/repo/postgres"
	"github.com/Gunvolt24/wb_tickets/internal/testutil"
	"github.com/Gunvolt24/wb_tickets/internal/usecase"
	"github.com/Gunvolt24/wb_tickets/pkg/logger"
	"github.com/Gunvolt24/wb_tickets/pkg/validate"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// 1) Валидная покупка: платёжная команда в топике, места в БД
func TestKafka_Purchase_PaysAndReserves_TC(t *testing.T) {
	st := newStack(t)

	topics, err := st.kf.PurchaseTopics(st.ctx, safe(t))
	require.NoError(t, err)
	purchases, payments, group := topics.Purchases, topics.Payments, topics.Group

	svc := st.service(payments)
	st.runConsumer(purchases, group, "first", svc)

	msg := testutil.MakePurchase()
	account := domain.ParseAccountID(msg.AccountID)
	writeMsg(t, st.ctx, st.kf.Brokers, purchases, testutil.MustJSON(msg))

	st.waitSeats(account, 3)

	readCtx, cancel := context.WithTimeout(st.ctx, 10*time.Second)
	defer cancel()
	got, err := testutil.ReadMessages(readCtx, st.kf.Brokers, payments, 1)
	require.NoError(t, err)

	var cmd ikafka.PaymentCommand
	require.NoError(t, json.Unmarshal(got[0].Value, &cmd))
	require.Equal(t, account, cmd.AccountID)
	require.EqualValues(t, 65, cmd.Amount)
	require.NotEmpty(t, cmd.PaymentID)
}

// 2) Не-JSON сообщение пропускается, валидное после него — обрабатывается
func TestKafka_Skip_InvalidJSON_Then_Purchase_TC(t *testing.T) {
	st := newStack(t)

	topics, err := st.kf.PurchaseTopics(st.ctx, "invalid-json-"+safe(t))
	require.NoError(t, err)
	purchases, payments, group := topics.Purchases, topics.Payments, topics.Group

	st.runConsumer(purchases, group, "first", st.service(payments))

	writeMsg(t, st.ctx, st.kf.Brokers, purchases, []byte("not-a-json"))

	msg := testutil.MakePurchase()
	writeMsg(t, st.ctx, st.kf.Brokers, purchases, testutil.MustJSON(msg))

	st.waitSeats(domain.ParseAccountID(msg.AccountID), 3)
}

// 3) Нарушение правил (нет взрослого) пропускается без брони; следующая покупка проходит
func TestKafka_Skip_RuleViolation_Then_Purchase_TC(t *testing.T) {
	st := newStack(t)

	topics, err := st.kf.PurchaseTopics(st.ctx, "rules-"+safe(t))
	require.NoError(t, err)
	purchases, payments, group := topics.Purchases, topics.Payments, topics.Group

	st.runConsumer(purchases, group, "first", st.service(payments))

	bad := testutil.MakePurchase(testutil.WithRequests(domain.RawTicketRequest{"CHILD": 2}))
	writeMsg(t, st.ctx, st.kf.Brokers, purchases, testutil.MustJSON(bad))

	ok := testutil.MakePurchase(testutil.WithRequests(domain.RawTicketRequest{"ADULT": 4}))
	writeMsg(t, st.ctx, st.kf.Brokers, purchases, testutil.MustJSON(ok))

	st.waitSeats(domain.ParseAccountID(ok.AccountID), 4)

	seats, err := st.repo.CountSeats(st.ctx, domain.ParseAccountID(bad.AccountID))
	require.NoError(t, err)
	require.Zero(t, seats)
}

// 4) StartOffset="last": сообщения, опубликованные до старта консьюмера, игнорируются
func TestKafka_StartOffset_Last_IgnoresOld_TC(t *testing.T) {
	st := newStack(t)

	topics, err := st.kf.PurchaseTopics(st.ctx, "last-"+safe(t))
	require.NoError(t, err)
	purchases, payments, group := topics.Purchases, topics.Payments, topics.Group

	old := testutil.MakePurchase()
	writeMsg(t, st.ctx, st.kf.Brokers, purchases, testutil.MustJSON(old))

	st.runConsumer(purchases, group, "last", st.service(payments))

	// Публикуем новое до появления в БД — одно из сообщений окажется после позиции консьюмера.
	// Каждая копия бронирует места заново, поэтому ждём хотя бы одну бронь.
	fresh := testutil.MakePurchase(testutil.WithRequests(domain.RawTicketRequest{"ADULT": 1}))
	freshID := domain.ParseAccountID(fresh.AccountID)

	deadline := time.Now().Add(20 * time.Second)
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		writeMsg(t, st.ctx, st.kf.Brokers, purchases, testutil.MustJSON(fresh))

		got, err := st.repo.CountSeats(st.ctx, freshID)
		require.NoError(t, err)
		if got > 0 {
			oldSeats, err := st.repo.CountSeats(st.ctx, domain.ParseAccountID(old.AccountID))
			require.NoError(t, err)
			require.Zero(t, oldSeats)
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("purchase for account %d not processed in time", freshID)
		}
		<-ticker.C
	}
}

// 5) At-least-once через рестарт: ошибка до оплаты без коммита — передоставка после перезапуска
func TestKafka_Redelivery_AfterRestart_NoCommit_TC(t *testing.T) {
	st := newStack(t)

	topics, err := st.kf.PurchaseTopics(st.ctx, "redelivery-"+safe(t))
	require.NoError(t, err)
	purchases, payments, group := topics.Purchases, topics.Payments, topics.Group

	msg := testutil.MakePurchase()
	writeMsg(t, st.ctx, st.kf.Brokers, purchases, testutil.MustJSON(msg))

	// Фаза 1: всегда таймаут => оффсет НЕ коммитится
	consumerFail := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        st.kf.Brokers,
		Topic:          purchases,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 300 * time.Millisecond,
		RetryInitial:   100 * time.Millisecond,
		RetryMax:       300 * time.Millisecond,
	}, alwaysTimeoutHandler{}, st.logg)

	runCtx1, cancelRun1 := context.WithCancel(st.ctx)
	go func() { _ = consumerFail.Run(runCtx1) }()

	time.Sleep(2 * time.Second)
	cancelRun1()
	_ = consumerFail.Close()

	// Фаза 2: нормальный сервис в той же группе получает некоммиченное сообщение
	st.runConsumer(purchases, group, "first", st.service(payments))
	st.waitSeats(domain.ParseAccountID(msg.AccountID), 3)
}

// -----------------функции-помощники-----------------

type stack struct {
	t    *testing.T
	ctx  context.Context
	repo *pgrepo.SeatReservationRepository
	logg ports.Logger
	kf   *testutil.KafkaEnv
}

func newStack(t *testing.T) *stack {
	t.Helper()

	// Длинный контекст — на контейнеры
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "purchases-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	// Короткий контекст — сам тест
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	return &stack{
		t:    t,
		ctx:  ctx,
		repo: pgrepo.NewSeatReservationRepository(pg.Pool),
		logg: logg,
		kf:   kf,
	}
}

func (s *stack) service(paymentsTopic string) *usecase.TicketService {
	publisher := ikafka.NewPaymentPublisher(&ikafka.PublisherConfig{
		Brokers: s.kf.Brokers,
		Topic:   paymentsTopic,
	}, s.logg)
	s.t.Cleanup(func() { _ = publisher.Close() })

	rules := domain.DefaultRules()
	return usecase.NewTicketService(publisher, s.repo, s.logg, validate.NewPurchaseValidator(rules), rules)
}

func (s *stack) runConsumer(topic, group, startOffset string, svc *usecase.TicketService) {
	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        s.kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    startOffset,
		ProcessTimeout: 5 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, svc, s.logg)

	runCtx, cancelRun := context.WithCancel(s.ctx)
	s.t.Cleanup(func() {
		cancelRun()
		_ = consumer.Close()
	})
	go func() { _ = consumer.Run(runCtx) }()

	// даём консьюмеру присоединиться к группе/получить assignment
	time.Sleep(1500 * time.Millisecond)
}

func (s *stack) waitSeats(account domain.AccountID, want int) {
	s.t.Helper()
	deadline := time.Now().Add(20 * time.Second)
	for {
		got, err := s.repo.CountSeats(s.ctx, account)
		require.NoError(s.t, err)
		if got == want {
			return
		}
		if time.Now().After(deadline) {
			s.t.Fatalf("account %d: want %d reserved seats, got %d", account, want, got)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func writeMsg(t *testing.T, ctx context.Context, brokers []string, topic string, payload []byte) {
	t.Helper()
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()
	require.NoError(t, w.WriteMessages(ctx, kafka.Message{Value: payload}))
}

// обработчик, который всегда упирается в таймаут (до оплаты), чтобы не коммитить оффсет
type alwaysTimeoutHandler struct{}

func (alwaysTimeoutHandler) PurchaseFromMessage(ctx context.Context, _ []byte) error {
	<-ctx.Done()
	return ctx.Err()
}
