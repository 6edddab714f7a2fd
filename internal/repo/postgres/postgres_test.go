package postgres_test

import (
	"context"
	"testing"

	pgrepo "github.com/Gunvolt24/wb_tickets/internal/repo/postgres"
)

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := pgrepo.NewPool(context.Background(), pgrepo.PoolConfig{DSN: "postgres://%zz"})
	if err == nil {
		t.Fatalf("expected parse error for invalid dsn")
	}
}

func TestReserveSeat_RejectsNonPositive(t *testing.T) {
	// пул не нужен: проверка аргументов выполняется до запроса
	repo := pgrepo.NewSeatReservationRepository(nil)

	if err := repo.ReserveSeat(context.Background(), 1, 0); err == nil {
		t.Fatalf("expected error for zero seats")
	}
	if err := repo.ReserveSeat(context.Background(), 0, 2); err == nil {
		t.Fatalf("expected error for invalid account")
	}
}
