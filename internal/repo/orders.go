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

var orderColumns = []string{
	"id", "order_number", "service_type", "document_type",
	"source_language", "target_language", "urgency",
	"page_count", "word_count", "requires_physical_copy",
	"ship_name", "ship_line1", "ship_line2", "ship_city",
	"ship_region", "ship_postal_code", "ship_country",
	"discount_code", "base_price", "urgency_fee", "certification_fee",
	"shipping_fee", "discount", "total",
	"stage", "payment_status", "created_at", "updated_at",
}

type Orders struct {
	base
}

func NewOrders(db *sqlx.DB) *Orders {
	return &Orders{base: newBase(db)}
}

// Create inserts a new order. A collision on the generated order number
// returns entities.ErrOrderNumberTaken so the caller can regenerate.
func (r *Orders) Create(ctx context.Context, o entities.Order) error {
	var ship entities.ShippingAddress
	if o.ShippingAddress != nil {
		ship = *o.ShippingAddress
	}

	query, args := r.qb.Insert("orders").
		Columns(
			"id", "order_number", "service_type", "document_type",
			"source_language", "target_language", "urgency",
			"page_count", "word_count", "requires_physical_copy",
			"ship_name", "ship_line1", "ship_line2", "ship_city",
			"ship_region", "ship_postal_code", "ship_country",
			"discount_code", "base_price", "urgency_fee", "certification_fee",
			"shipping_fee", "discount", "total", "stage", "payment_status",
		).
		Values(
			o.ID, o.OrderNumber, string(o.ServiceType), o.DocumentType,
			o.SourceLanguage, o.TargetLanguage, string(o.Urgency),
			o.PageCount, o.WordCount, o.RequiresPhysicalCopy,
			nullString(ship.Name), nullString(ship.Line1), nullString(ship.Line2), nullString(ship.City),
			nullString(ship.Region), nullString(ship.PostalCode), nullString(ship.Country),
			nullString(o.DiscountCode), o.Price.BasePrice, o.Price.UrgencyFee, o.Price.CertificationFee,
			o.Price.ShippingFee, o.Price.Discount, o.Price.Total, string(o.Stage), string(o.PaymentStatus),
		).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if constraint, ok := uniqueViolation(err); ok && constraint == "orders_order_number_key" {
		return entities.ErrOrderNumberTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *Orders) GetByID(ctx context.Context, id string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		MustSql()

	return r.get(ctx, query, args)
}

func (r *Orders) GetByNumber(ctx context.Context, number string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_number": number}).
		MustSql()

	return r.get(ctx, query, args)
}

func (r *Orders) get(ctx context.Context, query string, args []any) (entities.Order, error) {
	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return OrderToEntity(order), nil
}

// AdvanceStage moves the order from one stage to the next with a single
// conditional update. When requirePaid is set the guard also demands
// payment_status = 'paid'. The returned flag is false when the guard
// did not match, i.e. the order changed under us or the precondition
// does not hold.
func (r *Orders) AdvanceStage(ctx context.Context, id string, from, to entities.Stage, requirePaid bool) (bool, error) {
	where := sq.Eq{"id": id, "stage": string(from)}
	if requirePaid {
		where["payment_status"] = string(entities.PaymentPaid)
	}

	query, args := r.qb.Update("orders").
		Set("stage", string(to)).
		Set("updated_at", sq.Expr("now()")).
		Where(where).
		MustSql()

	return r.guardedUpdate(ctx, query, args)
}

// SetPaymentStatus performs a guarded payment transition: the update
// applies only while the current status is one of from.
func (r *Orders) SetPaymentStatus(ctx context.Context, id string, from []entities.PaymentStatus, to entities.PaymentStatus) (bool, error) {
	current := make([]string, len(from))
	for i, s := range from {
		current[i] = string(s)
	}

	query, args := r.qb.Update("orders").
		Set("payment_status", string(to)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "payment_status": current}).
		MustSql()

	return r.guardedUpdate(ctx, query, args)
}

// AppendEvent records an audit entry for the order. Events are append
// only; nothing ever deletes them.
func (r *Orders) AppendEvent(ctx context.Context, orderID, event, actor string) error {
	query, args := r.qb.Insert("order_events").
		Columns("order_id", "event", "actor").
		Values(orderID, event, actor).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to append order event: %w", err)
	}
	return nil
}

func (r *Orders) guardedUpdate(ctx context.Context, query string, args []any) (bool, error) {
	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
