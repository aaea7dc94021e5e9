package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/linguatrust/translation-orders/internal/events"
	"github.com/linguatrust/translation-orders/internal/security"
	"github.com/linguatrust/translation-orders/pkg/utils"
)

type CertificationRepo interface {
	Create(ctx context.Context, c entities.Certification) error
	GetByID(ctx context.Context, certificationID string) (entities.Certification, error)
	GetByOrderID(ctx context.Context, orderID string) (entities.Certification, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Certifier identifies who signs off on certified translations.
type Certifier struct {
	Name        string
	Credentials string
}

type CertificationService struct {
	logger    *slog.Logger
	repo      CertificationRepo
	orders    OrderGetter
	signer    *security.IntegritySigner
	cache     Cache
	publisher Publisher
	certifier Certifier
}

func NewCertificationService(
	logger *slog.Logger,
	repo CertificationRepo,
	orders OrderGetter,
	signer *security.IntegritySigner,
	cache Cache,
	publisher Publisher,
	certifier Certifier,
) *CertificationService {
	return &CertificationService{
		logger:    logger.With(slog.String("service", "certification")),
		repo:      repo,
		orders:    orders,
		signer:    signer,
		cache:     cache,
		publisher: publisher,
		certifier: certifier,
	}
}

// Issue mints the certification for a delivered order. The second call
// for the same order fails with entities.ErrAlreadyIssued.
func (s *CertificationService) Issue(ctx context.Context, orderNumber string) (entities.Certification, error) {
	order, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return entities.Certification{}, err
	}
	return s.IssueForOrder(ctx, order)
}

// IssueForOrder is the issuance path shared with the lifecycle engine,
// which calls it when a certifying order reaches delivery.
func (s *CertificationService) IssueForOrder(ctx context.Context, order entities.Order) (entities.Certification, error) {
	if !order.ServiceType.RequiresCertification() {
		return entities.Certification{}, entities.ValidationError{
			Field:  "service_type",
			Reason: "service type does not include certification",
		}
	}
	if order.Stage != entities.StageDelivered {
		return entities.Certification{}, entities.PreconditionError{Reason: "certification requires a delivered order"}
	}

	cert := entities.Certification{
		OrderID:              order.ID,
		DocumentType:         order.DocumentType,
		SourceLanguage:       order.SourceLanguage,
		TargetLanguage:       order.TargetLanguage,
		PageCount:            order.PageCount,
		CertifierName:        s.certifier.Name,
		CertifierCredentials: s.certifier.Credentials,
	}

	// Generated IDs collide with non-zero probability; the insert is the
	// uniqueness check and a collision regenerates.
	fn := func() error {
		id, err := newCertificationID(time.Now().UTC())
		if err != nil {
			return err
		}
		cert.CertificationID = id
		cert.CertifiedAt = time.Now().UTC()
		cert.IntegrityToken = s.signer.Token(cert)
		return s.repo.Create(ctx, cert)
	}
	if err := utils.Retry(defaultRetry, fn, entities.ErrAlreadyIssued); err != nil {
		return entities.Certification{}, err
	}

	if err := s.publisher.Publish(ctx, order.OrderNumber, events.CertificationIssued{
		Type:            events.TypeCertificationIssued,
		OrderNumber:     order.OrderNumber,
		CertificationID: cert.CertificationID,
		At:              time.Now().UTC(),
	}); err != nil {
		s.logger.Error("failed to publish certification event", slog.Any("error", err))
	}

	s.logger.Info("certification issued",
		slog.String("order_number", order.OrderNumber),
		slog.String("certification_id", cert.CertificationID),
	)

	return cert, nil
}

// Verify looks up a certification and recomputes its integrity token.
// Both "no such record" and "stored fields were altered" come back as
// the same not-valid result: the distinction would only help a forger.
func (s *CertificationService) Verify(ctx context.Context, certificationID string) (entities.Certification, bool, error) {
	if data, ok := s.cache.Get(certificationID); ok {
		var cert entities.Certification
		if err := cert.Unmarshal(data); err == nil && s.signer.Verify(cert) {
			return cert, true, nil
		}
	}

	cert, err := s.repo.GetByID(ctx, certificationID)
	if err != nil {
		if errors.Is(err, entities.ErrCertificationNotFound) {
			return entities.Certification{}, false, nil
		}
		return entities.Certification{}, false, err
	}

	if !s.signer.Verify(cert) {
		s.logger.Warn("certification integrity mismatch", slog.String("certification_id", certificationID))
		return entities.Certification{}, false, nil
	}

	if data, err := cert.Marshal(); err == nil {
		s.cache.Set(certificationID, data)
	}

	return cert, true, nil
}

const certificationSuffixLength = 8

func newCertificationID(now time.Time) (string, error) {
	suffix, err := security.RandomAlnum(certificationSuffixLength)
	if err != nil {
		return "", err
	}
	return "LT-" + now.Format("20060102") + "-" + suffix, nil
}
