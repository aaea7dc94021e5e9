package service

import (
	"context"
	"testing"

	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/linguatrust/translation-orders/internal/pricing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCalculator() *pricing.Calculator {
	return pricing.NewCalculator(pricing.Config{
		PageRates: map[entities.ServiceType]int64{
			entities.ServiceStandard:     2000,
			entities.ServiceCertified:    2500,
			entities.ServiceSworn:        3500,
			entities.ServiceRMVCertified: 3000,
		},
		UrgencyPercent: map[entities.Urgency]int64{
			entities.UrgencyStandard: 0,
			entities.UrgencyPriority: 20,
			entities.UrgencyUrgent:   50,
		},
		CertificationFee: 1000,
		ShippingFee:      1250,
		Languages:        []string{"en", "es", "pt"},
		SwornTarget:      "pt",
	})
}

func newOrderService(
	repo OrderRepo,
	discounts DiscountRepo,
	intake IntakeClient,
	issuer CertificationIssuer,
	publisher Publisher,
) *OrderService {
	return NewOrderService(testLogger(), passthroughTxManager{}, repo, discounts, intake, testCalculator(), issuer, publisher)
}

func TestOrderService_Quote(t *testing.T) {
	ctx := context.Background()
	discounts := &DiscountRepoMock{}
	discounts.
		On("Peek", "WELCOME10").
		Return(entities.DiscountCode{Code: "WELCOME10", Kind: entities.DiscountPercent, Value: 10}, nil).
		Once()
	discounts.
		On("Peek", "EXPIRED").
		Return(entities.DiscountCode{}, entities.ErrDiscountInvalid).
		Once()
	svc := newOrderService(&OrderRepoMock{}, discounts, &IntakeMock{}, &IssuerMock{}, &PublisherMock{})

	quote, err := svc.Quote(ctx, QuoteInput{
		ServiceType:    entities.ServiceCertified,
		Urgency:        entities.UrgencyPriority,
		PageCount:      3,
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7500), quote.Breakdown.BasePrice)
	require.Equal(t, int64(1500), quote.Breakdown.UrgencyFee)
	require.Equal(t, int64(1000), quote.Breakdown.CertificationFee)
	require.Equal(t, int64(10000), quote.Breakdown.Total)

	quote, err = svc.Quote(ctx, QuoteInput{
		ServiceType:    entities.ServiceCertified,
		Urgency:        entities.UrgencyPriority,
		PageCount:      3,
		SourceLanguage: "en",
		TargetLanguage: "es",
		DiscountCode:   "WELCOME10",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1000), quote.Breakdown.Discount)
	require.Equal(t, int64(9000), quote.Breakdown.Total)

	_, err = svc.Quote(ctx, QuoteInput{
		ServiceType:    entities.ServiceCertified,
		Urgency:        entities.UrgencyPriority,
		PageCount:      3,
		SourceLanguage: "en",
		TargetLanguage: "es",
		DiscountCode:   "EXPIRED",
	})
	require.ErrorIs(t, err, entities.ErrDiscountInvalid)
	discounts.AssertExpectations(t)
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	facts := entities.DocumentFacts{PageCount: 2, WordCount: 480}
	stored := entities.Order{OrderNumber: "TO-0000000001", Stage: entities.StageReceived}

	repo := &OrderRepoMock{}
	repo.
		On("Create", mock.MatchedBy(func(o entities.Order) bool {
			return o.ServiceType == entities.ServiceStandard &&
				o.Stage == entities.StageReceived &&
				o.PaymentStatus == entities.PaymentPending &&
				o.PageCount == 2 && o.WordCount == 480 &&
				len(o.OrderNumber) == 13 && o.OrderNumber[:3] == "TO-"
		})).
		Return(nil).
		Once()
	repo.On("AppendEvent", mock.Anything, "order_received", "customer").Return(nil).Once()
	repo.On("GetByNumber", mock.Anything).Return(stored, nil).Once()

	intake := &IntakeMock{}
	intake.On("Inspect", "doc-123").Return(facts, nil).Once()

	publisher := &PublisherMock{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	svc := newOrderService(repo, &DiscountRepoMock{}, intake, &IssuerMock{}, publisher)

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		ServiceType:    entities.ServiceStandard,
		DocumentType:   "contract",
		DocumentRef:    "doc-123",
		Urgency:        entities.UrgencyStandard,
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	require.NoError(t, err)
	require.Equal(t, stored, order)
	repo.AssertExpectations(t)
	intake.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrder_ShippingAddressRequired(t *testing.T) {
	intake := &IntakeMock{}
	intake.On("Inspect", "doc-rmv").Return(entities.DocumentFacts{PageCount: 1, WordCount: 200}, nil).Once()

	svc := newOrderService(&OrderRepoMock{}, &DiscountRepoMock{}, intake, &IssuerMock{}, &PublisherMock{})

	// RMV orders always produce a physical copy, even when not asked to.
	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		ServiceType:    entities.ServiceRMVCertified,
		DocumentType:   "drivers_license",
		DocumentRef:    "doc-rmv",
		Urgency:        entities.UrgencyStandard,
		SourceLanguage: "es",
		TargetLanguage: "en",
	})
	var verr entities.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "shipping_address", verr.Field)
}

func TestOrderService_CreateOrder_InvalidDiscountNotRetried(t *testing.T) {
	intake := &IntakeMock{}
	intake.On("Inspect", "doc-123").Return(entities.DocumentFacts{PageCount: 1, WordCount: 100}, nil).Once()

	discounts := &DiscountRepoMock{}
	discounts.On("Redeem", "USEDUP").Return(entities.DiscountCode{}, entities.ErrDiscountInvalid).Once()

	repo := &OrderRepoMock{}
	svc := newOrderService(repo, discounts, intake, &IssuerMock{}, &PublisherMock{})

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		ServiceType:    entities.ServiceStandard,
		DocumentType:   "contract",
		DocumentRef:    "doc-123",
		Urgency:        entities.UrgencyStandard,
		SourceLanguage: "en",
		TargetLanguage: "es",
		DiscountCode:   "USEDUP",
	})
	require.ErrorIs(t, err, entities.ErrDiscountInvalid)
	discounts.AssertExpectations(t)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_AdvanceStage(t *testing.T) {
	ctx := context.Background()
	order := entities.Order{
		ID:            "11111111-1111-1111-1111-111111111111",
		OrderNumber:   "TO-0000000001",
		ServiceType:   entities.ServiceStandard,
		Stage:         entities.StageReceived,
		PaymentStatus: entities.PaymentPending,
	}
	advanced := order
	advanced.Stage = entities.StageInTranslation

	repo := &OrderRepoMock{}
	repo.On("GetByNumber", order.OrderNumber).Return(order, nil).Once()
	repo.On("AdvanceStage", order.ID, entities.StageReceived, entities.StageInTranslation, false).Return(true, nil).Once()
	repo.On("AppendEvent", order.ID, "order_stage_changed:in_translation", "pm").Return(nil).Once()
	repo.On("GetByID", order.ID).Return(advanced, nil).Once()

	publisher := &PublisherMock{}
	publisher.On("Publish", order.OrderNumber, mock.Anything).Return(nil).Once()

	svc := newOrderService(repo, &DiscountRepoMock{}, &IntakeMock{}, &IssuerMock{}, publisher)

	got, err := svc.AdvanceStage(ctx, order.OrderNumber, entities.StageInTranslation, "pm")
	require.NoError(t, err)
	require.Equal(t, entities.StageInTranslation, got.Stage)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_AdvanceStage_RejectsSkips(t *testing.T) {
	order := entities.Order{
		ID:          "11111111-1111-1111-1111-111111111111",
		OrderNumber: "TO-0000000001",
		Stage:       entities.StageReceived,
	}
	repo := &OrderRepoMock{}
	repo.On("GetByNumber", order.OrderNumber).Return(order, nil)

	svc := newOrderService(repo, &DiscountRepoMock{}, &IntakeMock{}, &IssuerMock{}, &PublisherMock{})

	for _, target := range []entities.Stage{entities.StageReview, entities.StageDelivered} {
		_, err := svc.AdvanceStage(context.Background(), order.OrderNumber, target, "pm")
		var perr entities.PreconditionError
		require.ErrorAs(t, err, &perr)
	}
	repo.AssertNotCalled(t, "AdvanceStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_AdvanceStage_TerminalStage(t *testing.T) {
	order := entities.Order{
		ID:          "11111111-1111-1111-1111-111111111111",
		OrderNumber: "TO-0000000001",
		Stage:       entities.StageDelivered,
	}
	repo := &OrderRepoMock{}
	repo.On("GetByNumber", order.OrderNumber).Return(order, nil).Once()

	svc := newOrderService(repo, &DiscountRepoMock{}, &IntakeMock{}, &IssuerMock{}, &PublisherMock{})

	_, err := svc.AdvanceStage(context.Background(), order.OrderNumber, entities.StageDelivered, "pm")
	var perr entities.PreconditionError
	require.ErrorAs(t, err, &perr)
}

func TestOrderService_AdvanceStage_DeliveryRequiresPayment(t *testing.T) {
	order := entities.Order{
		ID:            "11111111-1111-1111-1111-111111111111",
		OrderNumber:   "TO-0000000001",
		Stage:         entities.StageReady,
		PaymentStatus: entities.PaymentPending,
	}
	repo := &OrderRepoMock{}
	repo.On("GetByNumber", order.OrderNumber).Return(order, nil).Once()
	repo.On("AdvanceStage", order.ID, entities.StageReady, entities.StageDelivered, true).Return(false, nil).Once()
	repo.On("GetByID", order.ID).Return(order, nil).Once()

	svc := newOrderService(repo, &DiscountRepoMock{}, &IntakeMock{}, &IssuerMock{}, &PublisherMock{})

	_, err := svc.AdvanceStage(context.Background(), order.OrderNumber, entities.StageDelivered, "pm")
	var perr entities.PreconditionError
	require.ErrorAs(t, err, &perr)
	require.Contains(t, perr.Reason, "paid")
	repo.AssertExpectations(t)
}

func TestOrderService_AdvanceStage_IssuesCertificationOnDelivery(t *testing.T) {
	order := entities.Order{
		ID:            "11111111-1111-1111-1111-111111111111",
		OrderNumber:   "TO-0000000001",
		ServiceType:   entities.ServiceCertified,
		Stage:         entities.StageReady,
		PaymentStatus: entities.PaymentPaid,
	}
	delivered := order
	delivered.Stage = entities.StageDelivered

	repo := &OrderRepoMock{}
	repo.On("GetByNumber", order.OrderNumber).Return(order, nil).Once()
	repo.On("AdvanceStage", order.ID, entities.StageReady, entities.StageDelivered, true).Return(true, nil).Once()
	repo.On("AppendEvent", order.ID, mock.Anything, "pm").Return(nil).Once()
	repo.On("GetByID", order.ID).Return(delivered, nil).Once()

	issuer := &IssuerMock{}
	issuer.On("IssueForOrder", delivered).Return(entities.Certification{CertificationID: "LT-20260901-ABCD1234"}, nil).Once()

	publisher := &PublisherMock{}
	publisher.On("Publish", order.OrderNumber, mock.Anything).Return(nil)

	svc := newOrderService(repo, &DiscountRepoMock{}, &IntakeMock{}, issuer, publisher)

	got, err := svc.AdvanceStage(context.Background(), order.OrderNumber, entities.StageDelivered, "pm")
	require.NoError(t, err)
	require.Equal(t, entities.StageDelivered, got.Stage)
	issuer.AssertExpectations(t)
}

func TestOrderService_ApplyPaymentStatus(t *testing.T) {
	ctx := context.Background()
	id := "11111111-1111-1111-1111-111111111111"
	paid := entities.Order{ID: id, OrderNumber: "TO-0000000001", PaymentStatus: entities.PaymentPaid}

	repo := &OrderRepoMock{}
	repo.
		On("SetPaymentStatus", id, []entities.PaymentStatus{entities.PaymentPending}, entities.PaymentPaid).
		Return(true, nil).
		Once()
	repo.On("AppendEvent", id, "order_payment_updated:paid", "payment-webhook").Return(nil).Once()
	repo.On("GetByID", id).Return(paid, nil).Once()

	publisher := &PublisherMock{}
	publisher.On("Publish", paid.OrderNumber, mock.Anything).Return(nil).Once()

	svc := newOrderService(repo, &DiscountRepoMock{}, &IntakeMock{}, &IssuerMock{}, publisher)

	require.NoError(t, svc.ApplyPaymentStatus(ctx, id, entities.PaymentPaid))
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_ApplyPaymentStatus_RedeliveredEventIgnored(t *testing.T) {
	id := "11111111-1111-1111-1111-111111111111"
	paid := entities.Order{ID: id, OrderNumber: "TO-0000000001", PaymentStatus: entities.PaymentPaid}

	repo := &OrderRepoMock{}
	repo.
		On("SetPaymentStatus", id, []entities.PaymentStatus{entities.PaymentPending}, entities.PaymentPaid).
		Return(false, nil).
		Once()
	repo.On("GetByID", id).Return(paid, nil).Once()

	publisher := &PublisherMock{}
	svc := newOrderService(repo, &DiscountRepoMock{}, &IntakeMock{}, &IssuerMock{}, publisher)

	require.NoError(t, svc.ApplyPaymentStatus(context.Background(), id, entities.PaymentPaid))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
