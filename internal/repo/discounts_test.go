package repo

import (
	"context"
	"testing"
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const discountColumnList = "code, kind, value, valid_from, valid_until, usage_cap, used_count"

func discountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"code", "kind", "value", "valid_from", "valid_until", "usage_cap", "used_count"})
}

func TestDiscounts_Peek(t *testing.T) {
	var (
		ctx   = context.Background()
		now   = time.Now().UTC()
		query = "SELECT " + discountColumnList + " FROM discount_codes " +
			"WHERE (code = $1 AND valid_from <= now() AND valid_until > now() AND used_count < usage_cap)"
	)

	db, mock := newMockDB(t)
	r := NewDiscounts(db)

	mock.ExpectQuery(query).
		WithArgs("WELCOME10").
		WillReturnRows(discountRows().
			AddRow("WELCOME10", "percent", 10, now.Add(-time.Hour), now.Add(time.Hour), 100, 7))
	mock.ExpectQuery(query).
		WithArgs("EXPIRED").
		WillReturnRows(discountRows())

	code, err := r.Peek(ctx, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, entities.DiscountPercent, code.Kind)
	assert.Equal(t, int64(10), code.Value)

	// Expired, exhausted and unknown codes all collapse into a single
	// invalid result.
	_, err = r.Peek(ctx, "EXPIRED")
	assert.ErrorIs(t, err, entities.ErrDiscountInvalid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscounts_Redeem(t *testing.T) {
	var (
		ctx   = context.Background()
		now   = time.Now().UTC()
		query = "UPDATE discount_codes SET used_count = used_count + 1 " +
			"WHERE (code = $1 AND valid_from <= now() AND valid_until > now() AND used_count < usage_cap) " +
			"RETURNING " + discountColumnList
	)

	db, mock := newMockDB(t)
	r := NewDiscounts(db)

	mock.ExpectQuery(query).
		WithArgs("WELCOME10").
		WillReturnRows(discountRows().
			AddRow("WELCOME10", "percent", 10, now.Add(-time.Hour), now.Add(time.Hour), 100, 8))
	mock.ExpectQuery(query).
		WithArgs("USEDUP").
		WillReturnRows(discountRows())

	code, err := r.Redeem(ctx, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, 8, code.UsedCount)

	_, err = r.Redeem(ctx, "USEDUP")
	assert.ErrorIs(t, err, entities.ErrDiscountInvalid)

	assert.NoError(t, mock.ExpectationsWereMet())
}
