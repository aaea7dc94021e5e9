package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"

	"github.com/segmentio/kafka-go"
)

// Event names consumed by the notification service.
const (
	TypeOrderReceived        = "order_received"
	TypeStageChanged         = "order_stage_changed"
	TypePaymentUpdated       = "order_payment_updated"
	TypeAssignmentResponded  = "assignment_responded"
	TypeCertificationIssued  = "certification_issued"
)

type StageChanged struct {
	Type        string         `json:"type"`
	OrderNumber string         `json:"order_number"`
	Stage       entities.Stage `json:"stage"`
	Actor       string         `json:"actor,omitempty"`
	At          time.Time      `json:"at"`
}

type PaymentUpdated struct {
	Type        string                 `json:"type"`
	OrderNumber string                 `json:"order_number"`
	Status      entities.PaymentStatus `json:"status"`
	At          time.Time              `json:"at"`
}

type AssignmentResponded struct {
	Type         string               `json:"type"`
	OrderNumber  string               `json:"order_number"`
	TranslatorID string               `json:"translator_id"`
	Decision     entities.TokenStatus `json:"decision"`
	At           time.Time            `json:"at"`
}

type CertificationIssued struct {
	Type            string    `json:"type"`
	OrderNumber     string    `json:"order_number"`
	CertificationID string    `json:"certification_id"`
	At              time.Time `json:"at"`
}

// Producer publishes notification events. Publication is fire and
// forget from the domain's point of view: callers log failures and
// never roll back a committed transition because of one.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string, batchTimeout time.Duration) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           batchTimeout,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
