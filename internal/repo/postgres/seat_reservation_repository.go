package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что SeatReservationRepository удовлетворяет интерфейсу SeatReservation.
var _ ports.SeatReservation = (*SeatReservationRepository)(nil)

// Reservation — строка seat_reservations.
type Reservation struct {
	ID         uuid.UUID
	AccountID  domain.AccountID
	Seats      int
	ReservedAt time.Time
}

// SeatReservationRepository — бронь мест на Postgres (pgxpool).
type SeatReservationRepository struct {
	pool *pgxpool.Pool
}

// NewSeatReservationRepository — конструктор SeatReservationRepository.
func NewSeatReservationRepository(pool *pgxpool.Pool) *SeatReservationRepository {
	return &SeatReservationRepository{pool: pool}
}

// ReserveSeat — записывает бронь seats мест для аккаунта.
func (r *SeatReservationRepository) ReserveSeat(ctx context.Context, accountID domain.AccountID, seats int) error {
	if !accountID.Valid() || seats <= 0 {
		return fmt.Errorf("reserve seats: account=%d seats=%d must be positive", accountID, seats)
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO seat_reservations (id, account_id, seats, reserved_at)
		VALUES ($1, $2, $3, now())
	`, uuid.New(), int64(accountID), seats); err != nil {
		return fmt.Errorf("insert seat reservation: %w", err)
	}
	return nil
}

// CountSeats — сколько мест забронировано аккаунтом.
func (r *SeatReservationRepository) CountSeats(ctx context.Context, accountID domain.AccountID) (int, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(seats), 0) FROM seat_reservations WHERE account_id = $1
	`, int64(accountID)).Scan(&total); err != nil {
		return 0, fmt.Errorf("count seats: %w", err)
	}
	return int(total), nil
}

// ListByAccount — последние брони аккаунта (новые первыми).
func (r *SeatReservationRepository) ListByAccount(
	ctx context.Context,
	accountID domain.AccountID,
	limit int,
) ([]Reservation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, seats, reserved_at
		FROM seat_reservations
		WHERE account_id = $1
		ORDER BY reserved_at DESC
		LIMIT $2
	`, int64(accountID), limit)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var (
			res     Reservation
			account int64
		)
		if err := rows.Scan(&res.ID, &account, &res.Seats, &res.ReservedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		res.AccountID = domain.AccountID(account)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return out, nil
}
