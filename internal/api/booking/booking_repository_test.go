package booking

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojasmehta/yatra/internal/types"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRepository) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool, NewPostgresRepository(pool, slog.Default())
}

func TestRepositoryAddToCart(t *testing.T) {
	pool, repo := newMockRepo(t)

	userID := uuid.New()
	id := uuid.New()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	b := &types.Booking{
		UserID:    userID,
		ItemType:  "tour",
		ItemName:  "Angkor Wat sunrise",
		StartDate: start,
		Price:     4200,
	}

	pool.ExpectQuery("INSERT INTO bookings").
		WithArgs(userID, "tour", "Angkor Wat sunrise", start, (*time.Time)(nil), 4200.0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "created_at"}).
			AddRow(id, types.BookingStatusCart, time.Now()))

	saved, err := repo.AddToCart(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, types.BookingStatusCart, saved.Status)
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestRepositoryConfirm_ReportsRowsAffected(t *testing.T) {
	pool, repo := newMockRepo(t)

	id, userID := uuid.New(), uuid.New()
	pool.ExpectExec("UPDATE bookings SET status = 'booked'").
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	affected, err := repo.Confirm(context.Background(), id, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestRepositoryConfirm_MissingRowIsNotAnError(t *testing.T) {
	pool, repo := newMockRepo(t)

	id, userID := uuid.New(), uuid.New()
	pool.ExpectExec("UPDATE bookings SET status = 'booked'").
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	affected, err := repo.Confirm(context.Background(), id, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestRepositoryRemoveFromCart_StatusPredicate(t *testing.T) {
	pool, repo := newMockRepo(t)

	id, userID := uuid.New(), uuid.New()
	// A booked row never matches the cart predicate.
	pool.ExpectExec(`DELETE FROM bookings WHERE id = \$1 AND user_id = \$2 AND status = 'cart'`).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	affected, err := repo.RemoveFromCart(context.Background(), id, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestRepositoryListByStatus(t *testing.T) {
	pool, repo := newMockRepo(t)

	userID := uuid.New()
	now := time.Now()

	pool.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(userID, types.BookingStatusCart).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "item_type", "item_name", "start_date", "end_date", "price", "status", "created_at",
		}).
			AddRow(uuid.New(), userID, "hotel", "Cusco guesthouse", now, (*time.Time)(nil), 9100.0, types.BookingStatusCart, now).
			AddRow(uuid.New(), userID, "tour", "Machu Picchu trek", now, (*time.Time)(nil), 15500.0, types.BookingStatusCart, now))

	bookings, err := repo.ListByStatus(context.Background(), userID, types.BookingStatusCart)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "Cusco guesthouse", bookings[0].ItemName)
	require.NoError(t, pool.ExpectationsWereMet())
}
