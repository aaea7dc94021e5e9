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

var certificationColumns = []string{
	"certification_id", "order_id", "document_type",
	"source_language", "target_language", "page_count",
	"certifier_name", "certifier_credentials", "certified_at",
	"integrity_token",
}

type Certifications struct {
	base
}

func NewCertifications(db *sqlx.DB) *Certifications {
	return &Certifications{base: newBase(db)}
}

// Create inserts the certification, relying on the table constraints to
// close both races: a generated-ID collision maps to
// entities.ErrCertificationIDTaken (caller regenerates), a second
// certification for the same order maps to entities.ErrAlreadyIssued.
func (r *Certifications) Create(ctx context.Context, c entities.Certification) error {
	query, args := r.qb.Insert("certifications").
		Columns(certificationColumns...).
		Values(
			c.CertificationID, c.OrderID, c.DocumentType,
			c.SourceLanguage, c.TargetLanguage, c.PageCount,
			c.CertifierName, c.CertifierCredentials, c.CertifiedAt,
			c.IntegrityToken,
		).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case "certifications_pkey":
			return entities.ErrCertificationIDTaken
		case "certifications_order_id_key":
			return entities.ErrAlreadyIssued
		}
	}
	if err != nil {
		return fmt.Errorf("failed to create certification: %w", err)
	}
	return nil
}

func (r *Certifications) GetByID(ctx context.Context, certificationID string) (entities.Certification, error) {
	query, args := r.qb.Select(certificationColumns...).
		From("certifications").
		Where(sq.Eq{"certification_id": certificationID}).
		MustSql()

	return r.get(ctx, query, args)
}

func (r *Certifications) GetByOrderID(ctx context.Context, orderID string) (entities.Certification, error) {
	query, args := r.qb.Select(certificationColumns...).
		From("certifications").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	return r.get(ctx, query, args)
}

func (r *Certifications) get(ctx context.Context, query string, args []any) (entities.Certification, error) {
	var row Certification
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Certification{}, entities.ErrCertificationNotFound
	}
	if err != nil {
		return entities.Certification{}, fmt.Errorf("failed to get certification: %w", err)
	}
	return CertificationToEntity(row), nil
}
