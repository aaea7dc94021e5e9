package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/linguatrust/translation-orders/internal/events"
	"github.com/linguatrust/translation-orders/internal/pricing"
	"github.com/linguatrust/translation-orders/internal/security"
	"github.com/linguatrust/translation-orders/pkg/trm"
	"github.com/linguatrust/translation-orders/pkg/utils"

	"github.com/google/uuid"
)

type OrderRepo interface {
	Create(ctx context.Context, o entities.Order) error
	GetByID(ctx context.Context, id string) (entities.Order, error)
	GetByNumber(ctx context.Context, number string) (entities.Order, error)

	// AdvanceStage and SetPaymentStatus are guarded updates: they apply
	// only while the row still matches the expected current state.
	AdvanceStage(ctx context.Context, id string, from, to entities.Stage, requirePaid bool) (bool, error)
	SetPaymentStatus(ctx context.Context, id string, from []entities.PaymentStatus, to entities.PaymentStatus) (bool, error)

	AppendEvent(ctx context.Context, orderID, event, actor string) error
}

type DiscountRepo interface {
	Peek(ctx context.Context, code string) (entities.DiscountCode, error)
	Redeem(ctx context.Context, code string) (entities.DiscountCode, error)
}

type IntakeClient interface {
	Inspect(ctx context.Context, documentRef string) (entities.DocumentFacts, error)
}

type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type CertificationIssuer interface {
	IssueForOrder(ctx context.Context, o entities.Order) (entities.Certification, error)
}

type OrderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	discounts DiscountRepo
	intake    IntakeClient
	calc      *pricing.Calculator
	issuer    CertificationIssuer
	publisher Publisher
}

func NewOrderService(
	logger *slog.Logger,
	txManager trm.Manager,
	repo OrderRepo,
	discounts DiscountRepo,
	intake IntakeClient,
	calc *pricing.Calculator,
	issuer CertificationIssuer,
	publisher Publisher,
) *OrderService {
	return &OrderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		discounts: discounts,
		intake:    intake,
		calc:      calc,
		issuer:    issuer,
		publisher: publisher,
	}
}

type QuoteInput struct {
	ServiceType          entities.ServiceType
	Urgency              entities.Urgency
	PageCount            int
	RequiresPhysicalCopy bool
	SourceLanguage       string
	TargetLanguage       string
	DiscountCode         string
}

// Quote prices the selections without creating anything. A discount
// code is validated but not redeemed here; redemption happens when the
// order is placed.
func (s *OrderService) Quote(ctx context.Context, in QuoteInput) (pricing.Quote, error) {
	quote, err := s.calc.Compute(pricing.Request{
		ServiceType:          in.ServiceType,
		Urgency:              in.Urgency,
		PageCount:            in.PageCount,
		RequiresPhysicalCopy: in.RequiresPhysicalCopy,
		SourceLanguage:       in.SourceLanguage,
		TargetLanguage:       in.TargetLanguage,
	})
	if err != nil {
		return pricing.Quote{}, err
	}

	if in.DiscountCode != "" {
		code, err := s.discounts.Peek(ctx, in.DiscountCode)
		if err != nil {
			return pricing.Quote{}, err
		}
		pricing.ApplyDiscount(&quote.Breakdown, code.AmountFor(quote.Breakdown.Subtotal()))
	}

	return quote, nil
}

type CreateOrderInput struct {
	ServiceType          entities.ServiceType
	DocumentType         string
	DocumentRef          string
	Urgency              entities.Urgency
	SourceLanguage       string
	TargetLanguage       string
	RequiresPhysicalCopy bool
	ShippingAddress      *entities.ShippingAddress
	DiscountCode         string
}

// CreateOrder asks the intake collaborator for the document facts,
// prices the order and persists it. The discount redemption and the
// insert share one transaction, so a code consumed here can never
// belong to an order that failed to materialize.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (entities.Order, error) {
	facts, err := s.intake.Inspect(ctx, in.DocumentRef)
	if err != nil {
		return entities.Order{}, fmt.Errorf("document intake failed: %w", err)
	}

	quote, err := s.calc.Compute(pricing.Request{
		ServiceType:          in.ServiceType,
		Urgency:              in.Urgency,
		PageCount:            facts.PageCount,
		RequiresPhysicalCopy: in.RequiresPhysicalCopy,
		SourceLanguage:       in.SourceLanguage,
		TargetLanguage:       in.TargetLanguage,
	})
	if err != nil {
		return entities.Order{}, err
	}

	if quote.RequiresPhysicalCopy && in.ShippingAddress == nil {
		return entities.Order{}, entities.ValidationError{Field: "shipping_address", Reason: "required for physical copies"}
	}

	order := entities.Order{
		ID:                   uuid.NewString(),
		ServiceType:          in.ServiceType,
		DocumentType:         in.DocumentType,
		SourceLanguage:       in.SourceLanguage,
		TargetLanguage:       in.TargetLanguage,
		Urgency:              in.Urgency,
		PageCount:            facts.PageCount,
		WordCount:            facts.WordCount,
		RequiresPhysicalCopy: quote.RequiresPhysicalCopy,
		DiscountCode:         in.DiscountCode,
		Price:                quote.Breakdown,
		Stage:                entities.StageReceived,
		PaymentStatus:        entities.PaymentPending,
	}
	if quote.RequiresPhysicalCopy {
		order.ShippingAddress = in.ShippingAddress
	}

	fn := func() error {
		number, err := security.RandomDigits(10)
		if err != nil {
			return err
		}
		order.OrderNumber = "TO-" + number

		return s.txManager.Do(ctx, func(ctx context.Context) error {
			if in.DiscountCode != "" {
				code, err := s.discounts.Redeem(ctx, in.DiscountCode)
				if err != nil {
					return err
				}
				pricing.ApplyDiscount(&order.Price, code.AmountFor(order.Price.Subtotal()))
			}
			if err := s.repo.Create(ctx, order); err != nil {
				return err
			}
			return s.repo.AppendEvent(ctx, order.ID, events.TypeOrderReceived, "customer")
		})
	}

	// Regenerate the order number on the unlikely collision.
	if err := utils.Retry(defaultRetry, fn, entities.ErrDiscountInvalid); err != nil {
		return entities.Order{}, err
	}

	s.publish(ctx, order.OrderNumber, events.StageChanged{
		Type:        events.TypeOrderReceived,
		OrderNumber: order.OrderNumber,
		Stage:       order.Stage,
		Actor:       "customer",
		At:          time.Now().UTC(),
	})

	s.logger.Info("order created",
		slog.String("order_number", order.OrderNumber),
		slog.String("service_type", string(order.ServiceType)),
		slog.Int64("total", order.Price.Total),
	)

	return s.repo.GetByNumber(ctx, order.OrderNumber)
}

func (s *OrderService) GetByNumber(ctx context.Context, number string) (entities.Order, error) {
	return s.repo.GetByNumber(ctx, number)
}

const maxStageAttempts = 3

// AdvanceStage moves the order one step forward in the pipeline.
// Skips and regressions fail with a precondition error, as does a
// delivery attempt on an unpaid order. A lost race against a concurrent
// transition is retried with fresh state a bounded number of times.
func (s *OrderService) AdvanceStage(ctx context.Context, orderNumber string, target entities.Stage, actor string) (entities.Order, error) {
	if !target.Known() {
		return entities.Order{}, entities.ValidationError{Field: "stage", Reason: fmt.Sprintf("unknown stage %q", target)}
	}

	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return entities.Order{}, err
	}

	for attempt := 1; ; attempt++ {
		next, ok := order.Stage.Next()
		if !ok {
			return entities.Order{}, entities.PreconditionError{Reason: "order is already delivered"}
		}
		if target != next {
			return entities.Order{}, entities.PreconditionError{
				Reason: fmt.Sprintf("cannot move from %s to %s, next stage is %s", order.Stage, target, next),
			}
		}

		requirePaid := target == entities.StageDelivered
		var advanced bool
		err = s.txManager.Do(ctx, func(ctx context.Context) error {
			var err error
			advanced, err = s.repo.AdvanceStage(ctx, order.ID, order.Stage, target, requirePaid)
			if err != nil || !advanced {
				return err
			}
			return s.repo.AppendEvent(ctx, order.ID, events.TypeStageChanged+":"+string(target), actor)
		})
		if err != nil {
			return entities.Order{}, err
		}
		if advanced {
			break
		}

		// The guard did not match: either the stage moved under us or the
		// payment precondition failed. Re-read and decide.
		current, err := s.repo.GetByID(ctx, order.ID)
		if err != nil {
			return entities.Order{}, err
		}
		if current.Stage == order.Stage {
			if requirePaid && current.PaymentStatus != entities.PaymentPaid {
				return entities.Order{}, entities.PreconditionError{Reason: "delivery requires a paid order"}
			}
			return entities.Order{}, fmt.Errorf("stage transition for %s did not apply", orderNumber)
		}
		if attempt >= maxStageAttempts {
			return entities.Order{}, fmt.Errorf("stage transition for %s lost the race %d times", orderNumber, attempt)
		}
		order = current
	}

	updated, err := s.repo.GetByID(ctx, order.ID)
	if err != nil {
		return entities.Order{}, err
	}

	s.publish(ctx, updated.OrderNumber, events.StageChanged{
		Type:        events.TypeStageChanged,
		OrderNumber: updated.OrderNumber,
		Stage:       updated.Stage,
		Actor:       actor,
		At:          time.Now().UTC(),
	})

	if updated.Stage == entities.StageDelivered && updated.ServiceType.RequiresCertification() {
		if _, err := s.issuer.IssueForOrder(ctx, updated); err != nil && !errors.Is(err, entities.ErrAlreadyIssued) {
			// The delivery is committed; issuance has its own retry and
			// can be repeated through the certification endpoint.
			s.logger.Error("failed to issue certification on delivery",
				slog.String("order_number", updated.OrderNumber),
				slog.Any("error", err),
			)
		}
	}

	return updated, nil
}

var paymentTransitions = map[entities.PaymentStatus][]entities.PaymentStatus{
	entities.PaymentPaid:    {entities.PaymentPending},
	entities.PaymentOverdue: {entities.PaymentPending, entities.PaymentPaid},
}

// ApplyPaymentStatus reacts to the payment collaborator's event. A
// redelivered event that matches the current state is a no-op, not an
// error, since webhooks arrive at least once.
func (s *OrderService) ApplyPaymentStatus(ctx context.Context, orderID string, status entities.PaymentStatus) error {
	from, ok := paymentTransitions[status]
	if !ok {
		return entities.ValidationError{Field: "payment_status", Reason: fmt.Sprintf("unknown target status %q", status)}
	}

	var applied bool
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		applied, err = s.repo.SetPaymentStatus(ctx, orderID, from, status)
		if err != nil || !applied {
			return err
		}
		return s.repo.AppendEvent(ctx, orderID, events.TypePaymentUpdated+":"+string(status), "payment-webhook")
	})
	if err != nil {
		return err
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !applied {
		s.logger.Debug("payment event ignored",
			slog.String("order_id", orderID),
			slog.String("current", string(order.PaymentStatus)),
			slog.String("target", string(status)),
		)
		return nil
	}

	s.publish(ctx, order.OrderNumber, events.PaymentUpdated{
		Type:        events.TypePaymentUpdated,
		OrderNumber: order.OrderNumber,
		Status:      status,
		At:          time.Now().UTC(),
	})

	return nil
}

// publish is fire and forget: a notification failure never rolls back
// a committed domain transition.
func (s *OrderService) publish(ctx context.Context, key string, event any) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.Error("failed to publish event", slog.String("key", key), slog.Any("error", err))
	}
}

var defaultRetry = utils.RetryConfig{
	InitialDelay: 50 * time.Millisecond,
	MaxAttempts:  3,
	Multiplier:   2,
}
