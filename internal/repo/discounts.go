package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/linguatrust/translation-orders/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var discountColumns = []string{
	"code", "kind", "value", "valid_from", "valid_until", "usage_cap", "used_count",
}

// validDiscount guards every read and redemption: the code must exist,
// be inside its validity window and under its usage cap.
func validDiscount(code string) sq.Sqlizer {
	return sq.And{
		sq.Eq{"code": code},
		sq.Expr("valid_from <= now()"),
		sq.Expr("valid_until > now()"),
		sq.Expr("used_count < usage_cap"),
	}
}

type Discounts struct {
	base
}

func NewDiscounts(db *sqlx.DB) *Discounts {
	return &Discounts{base: newBase(db)}
}

// Peek returns the code without consuming a redemption. It is the quote
// path's view; the order path must Redeem instead.
func (r *Discounts) Peek(ctx context.Context, code string) (entities.DiscountCode, error) {
	query, args := r.qb.Select(discountColumns...).
		From("discount_codes").
		Where(validDiscount(code)).
		MustSql()

	var row DiscountCode
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.DiscountCode{}, entities.ErrDiscountInvalid
	}
	if err != nil {
		return entities.DiscountCode{}, fmt.Errorf("failed to get discount code: %w", err)
	}
	return DiscountToEntity(row), nil
}

// Redeem increments the usage counter atomically with the validity
// check, so a code can never be over-redeemed under concurrent use.
func (r *Discounts) Redeem(ctx context.Context, code string) (entities.DiscountCode, error) {
	query, args := r.qb.Update("discount_codes").
		Set("used_count", sq.Expr("used_count + 1")).
		Where(validDiscount(code)).
		Suffix("RETURNING " + strings.Join(discountColumns, ", ")).
		MustSql()

	var row DiscountCode
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.DiscountCode{}, entities.ErrDiscountInvalid
	}
	if err != nil {
		return entities.DiscountCode{}, fmt.Errorf("failed to redeem discount code: %w", err)
	}
	return DiscountToEntity(row), nil
}
