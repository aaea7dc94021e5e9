package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linguatrust/translation-orders/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Tokens struct {
	base
}

func NewTokens(db *sqlx.DB) *Tokens {
	return &Tokens{base: newBase(db)}
}

func (r *Tokens) Create(ctx context.Context, t entities.AssignmentToken) error {
	query, args := r.qb.Insert("assignment_tokens").
		Columns("token", "order_id", "translator_id", "status").
		Values(t.Token, t.OrderID, t.TranslatorID, string(t.Status)).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create assignment token: %w", err)
	}
	return nil
}

// Respond is the atomic check-and-set at the heart of the token
// workflow: status and responded_at are written only while the token is
// still pending. Exactly one of two concurrent calls can win; the loser
// sees ok = false and classifies the token with Get.
func (r *Tokens) Respond(ctx context.Context, token string, status entities.TokenStatus) (string, bool, error) {
	query, args := r.qb.Update("assignment_tokens").
		Set("status", string(status)).
		Set("responded_at", sq.Expr("now()")).
		Where(sq.Eq{"token": token, "status": string(entities.TokenPending)}).
		Suffix("RETURNING order_id").
		MustSql()

	var orderID string
	err := r.getContext(ctx, &orderID, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to respond to assignment: %w", err)
	}
	return orderID, true, nil
}

func (r *Tokens) Get(ctx context.Context, token string) (entities.AssignmentToken, error) {
	query, args := r.qb.Select("token", "order_id", "translator_id", "status", "created_at", "responded_at").
		From("assignment_tokens").
		Where(sq.Eq{"token": token}).
		MustSql()

	var row AssignmentToken
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.AssignmentToken{}, entities.ErrTokenNotFound
	}
	if err != nil {
		return entities.AssignmentToken{}, fmt.Errorf("failed to get assignment token: %w", err)
	}
	return TokenToEntity(row), nil
}
