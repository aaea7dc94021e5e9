package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/linguatrust/translation-orders/internal/config"
	"github.com/linguatrust/translation-orders/internal/entities"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

// PaymentEvent is the payment collaborator's confirmation message. The
// engine only reacts to these; it never initiates charges.
type PaymentEvent struct {
	OrderID string `json:"order_id" validate:"required,uuid4"`
	Status  string `json:"status" validate:"required,oneof=confirmed failed"`
}

type PaymentApplier interface {
	ApplyPaymentStatus(ctx context.Context, orderID string, status entities.PaymentStatus) error
}

type kafkaHandler struct {
	dlq      *kafka.Writer
	reader   *kafka.Reader
	logger   *slog.Logger
	validate *validator.Validate
	orders   PaymentApplier
}

func NewKafkaHandler(logger *slog.Logger, cfg config.Kafka, orders PaymentApplier) *kafkaHandler {
	return &kafkaHandler{
		logger: logger.With(slog.String("handler", "kafka")),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.GroupID,
			Topic:   cfg.PaymentsTopic,
			MaxWait: cfg.ReaderMaxWait,
		}),
		dlq: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		validate: validator.New(),
		orders:   orders,
	}
}

func (h *kafkaHandler) Consume(ctx context.Context) {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			} else {
				h.logger.Error("failed to fetch message", slog.Any("error", err))
				continue
			}
		}

		if err := h.handlePaymentEvent(ctx, m); err != nil {
			paymentEventsFailed.Inc()
			h.logger.Error("failed to handle payment event", slog.Any("error", err))

			if err := h.writeToDLQ(ctx, m); err != nil {
				h.logger.Error("failed to write message to DLQ", slog.Any("error", err))
				continue
			}
			paymentEventsDLQ.Inc()
		}

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			h.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

func (h *kafkaHandler) handlePaymentEvent(ctx context.Context, m kafka.Message) error {
	var event PaymentEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal payment event: %w", err)
	}

	if err := h.validate.Struct(event); err != nil {
		return fmt.Errorf("invalid payment event: %w", err)
	}

	status := entities.PaymentPaid
	if event.Status == "failed" {
		status = entities.PaymentOverdue
	}

	if err := h.orders.ApplyPaymentStatus(ctx, event.OrderID, status); err != nil {
		return fmt.Errorf("failed to apply payment status: %w", err)
	}

	paymentEventsProcessed.WithLabelValues(event.Status).Inc()
	return nil
}

func (h *kafkaHandler) writeToDLQ(ctx context.Context, m kafka.Message) error {
	m.Topic = fmt.Sprintf("%s-dlq", m.Topic)
	return h.dlq.WriteMessages(ctx, m)
}

func (h *kafkaHandler) Close() error {
	if err := h.reader.Close(); err != nil {
		return err
	}
	return h.dlq.Close()
}
