package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/linguatrust/translation-orders/pkg/trm"

	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// passthroughTxManager runs the callback without a database.
type passthroughTxManager struct{}

func (passthroughTxManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	return ctx, nopTx{}, nil
}

func (passthroughTxManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type OrderRepoMock struct {
	mock.Mock
}

func (m *OrderRepoMock) Create(_ context.Context, o entities.Order) error {
	return m.Called(o).Error(0)
}

func (m *OrderRepoMock) GetByID(_ context.Context, id string) (entities.Order, error) {
	args := m.Called(id)

	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *OrderRepoMock) GetByNumber(_ context.Context, number string) (entities.Order, error) {
	args := m.Called(number)

	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *OrderRepoMock) AdvanceStage(_ context.Context, id string, from, to entities.Stage, requirePaid bool) (bool, error) {
	args := m.Called(id, from, to, requirePaid)

	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) SetPaymentStatus(_ context.Context, id string, from []entities.PaymentStatus, to entities.PaymentStatus) (bool, error) {
	args := m.Called(id, from, to)

	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) AppendEvent(_ context.Context, orderID, event, actor string) error {
	return m.Called(orderID, event, actor).Error(0)
}

type DiscountRepoMock struct {
	mock.Mock
}

func (m *DiscountRepoMock) Peek(_ context.Context, code string) (entities.DiscountCode, error) {
	args := m.Called(code)

	return args.Get(0).(entities.DiscountCode), args.Error(1)
}

func (m *DiscountRepoMock) Redeem(_ context.Context, code string) (entities.DiscountCode, error) {
	args := m.Called(code)

	return args.Get(0).(entities.DiscountCode), args.Error(1)
}

type IntakeMock struct {
	mock.Mock
}

func (m *IntakeMock) Inspect(_ context.Context, documentRef string) (entities.DocumentFacts, error) {
	args := m.Called(documentRef)

	return args.Get(0).(entities.DocumentFacts), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(_ context.Context, key string, event any) error {
	return m.Called(key, event).Error(0)
}

type IssuerMock struct {
	mock.Mock
}

func (m *IssuerMock) IssueForOrder(_ context.Context, o entities.Order) (entities.Certification, error) {
	args := m.Called(o)

	return args.Get(0).(entities.Certification), args.Error(1)
}

type TokenRepoMock struct {
	mock.Mock
}

func (m *TokenRepoMock) Create(_ context.Context, t entities.AssignmentToken) error {
	return m.Called(t).Error(0)
}

func (m *TokenRepoMock) Respond(_ context.Context, token string, status entities.TokenStatus) (string, bool, error) {
	args := m.Called(token, status)

	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *TokenRepoMock) Get(_ context.Context, token string) (entities.AssignmentToken, error) {
	args := m.Called(token)

	return args.Get(0).(entities.AssignmentToken), args.Error(1)
}

type CertificationRepoMock struct {
	mock.Mock
}

func (m *CertificationRepoMock) Create(_ context.Context, c entities.Certification) error {
	return m.Called(c).Error(0)
}

func (m *CertificationRepoMock) GetByID(_ context.Context, certificationID string) (entities.Certification, error) {
	args := m.Called(certificationID)

	return args.Get(0).(entities.Certification), args.Error(1)
}

func (m *CertificationRepoMock) GetByOrderID(_ context.Context, orderID string) (entities.Certification, error) {
	args := m.Called(orderID)

	return args.Get(0).(entities.Certification), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string) ([]byte, bool) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}

	return args.Get(0).([]byte), args.Bool(1)
}

func (m *CacheMock) Set(key string, value []byte) {
	m.Called(key, value)
}
