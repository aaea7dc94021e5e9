package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/linguatrust/translation-orders/internal/events"
	"github.com/linguatrust/translation-orders/internal/security"
)

type TokenRepo interface {
	Create(ctx context.Context, t entities.AssignmentToken) error

	// Respond sets the terminal status only while the token is pending.
	// ok is false when the token is unknown or no longer pending.
	Respond(ctx context.Context, token string, status entities.TokenStatus) (orderID string, ok bool, err error)

	Get(ctx context.Context, token string) (entities.AssignmentToken, error)
}

type OrderGetter interface {
	GetByID(ctx context.Context, id string) (entities.Order, error)
	GetByNumber(ctx context.Context, number string) (entities.Order, error)
}

type AssignmentService struct {
	logger    *slog.Logger
	tokens    TokenRepo
	orders    OrderGetter
	publisher Publisher
}

func NewAssignmentService(logger *slog.Logger, tokens TokenRepo, orders OrderGetter, publisher Publisher) *AssignmentService {
	return &AssignmentService{
		logger:    logger.With(slog.String("service", "assignment")),
		tokens:    tokens,
		orders:    orders,
		publisher: publisher,
	}
}

const tokenLength = 32

// Invite mints a single-use token letting the translator accept or
// decline the order through a one-time link, without authenticating.
func (s *AssignmentService) Invite(ctx context.Context, orderNumber, translatorID string) (entities.AssignmentToken, error) {
	order, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return entities.AssignmentToken{}, err
	}

	raw, err := security.RandomToken(tokenLength)
	if err != nil {
		return entities.AssignmentToken{}, err
	}

	token := entities.AssignmentToken{
		Token:        raw,
		OrderID:      order.ID,
		TranslatorID: translatorID,
		Status:       entities.TokenPending,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return entities.AssignmentToken{}, err
	}

	s.logger.Info("translator invited",
		slog.String("order_number", orderNumber),
		slog.String("translator_id", translatorID),
	)

	return token, nil
}

// Respond resolves a token exactly once. The same link may be opened
// twice, by accident or by a crawler pre-fetching the URL, so a second
// call reports the original decision via AlreadyRespondedError instead
// of a generic failure. Concurrent calls are settled by the repo's
// check-and-set: one wins, the other classifies.
func (s *AssignmentService) Respond(ctx context.Context, token string, action entities.AssignmentAction) (string, error) {
	status, ok := action.Status()
	if !ok {
		return "", entities.ErrInvalidAction
	}

	orderID, won, err := s.tokens.Respond(ctx, token, status)
	if err != nil {
		return "", err
	}

	if !won {
		existing, err := s.tokens.Get(ctx, token)
		if err != nil {
			return "", err // entities.ErrTokenNotFound for unknown tokens
		}
		respondedAt := time.Time{}
		if existing.RespondedAt != nil {
			respondedAt = *existing.RespondedAt
		}
		return "", entities.AlreadyRespondedError{Decision: existing.Status, RespondedAt: respondedAt}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	if err := s.publisher.Publish(ctx, order.OrderNumber, events.AssignmentResponded{
		Type:        events.TypeAssignmentResponded,
		OrderNumber: order.OrderNumber,
		Decision:    status,
		At:          time.Now().UTC(),
	}); err != nil {
		s.logger.Error("failed to publish assignment event", slog.Any("error", err))
	}

	s.logger.Info("assignment resolved",
		slog.String("order_number", order.OrderNumber),
		slog.String("decision", string(status)),
	)

	return order.OrderNumber, nil
}
