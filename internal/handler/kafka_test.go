package handler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/linguatrust/translation-orders/internal/entities"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type PaymentApplierMock struct {
	mock.Mock
}

func (m *PaymentApplierMock) ApplyPaymentStatus(_ context.Context, orderID string, status entities.PaymentStatus) error {
	return m.Called(orderID, status).Error(0)
}

func newTestKafkaHandler(orders PaymentApplier) *kafkaHandler {
	return &kafkaHandler{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate: validator.New(),
		orders:   orders,
	}
}

func TestKafkaHandler_HandlePaymentEvent(t *testing.T) {
	orderID := "a3f1c9a2-5b4e-4d2f-9c3a-1e2d3f4a5b6c"

	orders := &PaymentApplierMock{}
	orders.On("ApplyPaymentStatus", orderID, entities.PaymentPaid).Return(nil).Once()
	orders.On("ApplyPaymentStatus", orderID, entities.PaymentOverdue).Return(nil).Once()

	h := newTestKafkaHandler(orders)
	ctx := context.Background()

	err := h.handlePaymentEvent(ctx, kafka.Message{
		Value: []byte(`{"order_id": "` + orderID + `", "status": "confirmed"}`),
	})
	require.NoError(t, err)

	err = h.handlePaymentEvent(ctx, kafka.Message{
		Value: []byte(`{"order_id": "` + orderID + `", "status": "failed"}`),
	})
	require.NoError(t, err)

	orders.AssertExpectations(t)
}

func TestKafkaHandler_HandlePaymentEvent_Invalid(t *testing.T) {
	orders := &PaymentApplierMock{}
	h := newTestKafkaHandler(orders)
	ctx := context.Background()

	for name, value := range map[string]string{
		"malformed json": `{"order_id": `,
		"unknown status": `{"order_id": "a3f1c9a2-5b4e-4d2f-9c3a-1e2d3f4a5b6c", "status": "refunded"}`,
		"bad order id":   `{"order_id": "not-a-uuid", "status": "confirmed"}`,
	} {
		err := h.handlePaymentEvent(ctx, kafka.Message{Value: []byte(value)})
		assert.Error(t, err, name)
	}
	orders.AssertNotCalled(t, "ApplyPaymentStatus", mock.Anything, mock.Anything)
}
