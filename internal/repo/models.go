package repo

import (
	"database/sql"
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"
)

type Order struct {
	ID                   string         `db:"id"`
	OrderNumber          string         `db:"order_number"`
	ServiceType          string         `db:"service_type"`
	DocumentType         string         `db:"document_type"`
	SourceLanguage       string         `db:"source_language"`
	TargetLanguage       string         `db:"target_language"`
	Urgency              string         `db:"urgency"`
	PageCount            int            `db:"page_count"`
	WordCount            int            `db:"word_count"`
	RequiresPhysicalCopy bool           `db:"requires_physical_copy"`
	ShipName             sql.NullString `db:"ship_name"`
	ShipLine1            sql.NullString `db:"ship_line1"`
	ShipLine2            sql.NullString `db:"ship_line2"`
	ShipCity             sql.NullString `db:"ship_city"`
	ShipRegion           sql.NullString `db:"ship_region"`
	ShipPostalCode       sql.NullString `db:"ship_postal_code"`
	ShipCountry          sql.NullString `db:"ship_country"`
	DiscountCode         sql.NullString `db:"discount_code"`
	BasePrice            int64          `db:"base_price"`
	UrgencyFee           int64          `db:"urgency_fee"`
	CertificationFee     int64          `db:"certification_fee"`
	ShippingFee          int64          `db:"shipping_fee"`
	Discount             int64          `db:"discount"`
	Total                int64          `db:"total"`
	Stage                string         `db:"stage"`
	PaymentStatus        string         `db:"payment_status"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

type AssignmentToken struct {
	Token        string       `db:"token"`
	OrderID      string       `db:"order_id"`
	TranslatorID string       `db:"translator_id"`
	Status       string       `db:"status"`
	CreatedAt    time.Time    `db:"created_at"`
	RespondedAt  sql.NullTime `db:"responded_at"`
}

type Certification struct {
	CertificationID      string    `db:"certification_id"`
	OrderID              string    `db:"order_id"`
	DocumentType         string    `db:"document_type"`
	SourceLanguage       string    `db:"source_language"`
	TargetLanguage       string    `db:"target_language"`
	PageCount            int       `db:"page_count"`
	CertifierName        string    `db:"certifier_name"`
	CertifierCredentials string    `db:"certifier_credentials"`
	CertifiedAt          time.Time `db:"certified_at"`
	IntegrityToken       string    `db:"integrity_token"`
}

type DiscountCode struct {
	Code       string    `db:"code"`
	Kind       string    `db:"kind"`
	Value      int64     `db:"value"`
	ValidFrom  time.Time `db:"valid_from"`
	ValidUntil time.Time `db:"valid_until"`
	UsageCap   int       `db:"usage_cap"`
	UsedCount  int       `db:"used_count"`
}

func OrderToEntity(o Order) entities.Order {
	ent := entities.Order{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		ServiceType:          entities.ServiceType(o.ServiceType),
		DocumentType:         o.DocumentType,
		SourceLanguage:       o.SourceLanguage,
		TargetLanguage:       o.TargetLanguage,
		Urgency:              entities.Urgency(o.Urgency),
		PageCount:            o.PageCount,
		WordCount:            o.WordCount,
		RequiresPhysicalCopy: o.RequiresPhysicalCopy,
		DiscountCode:         nullStringToString(o.DiscountCode),
		Price: entities.PriceBreakdown{
			BasePrice:        o.BasePrice,
			UrgencyFee:       o.UrgencyFee,
			CertificationFee: o.CertificationFee,
			ShippingFee:      o.ShippingFee,
			Discount:         o.Discount,
			Total:            o.Total,
		},
		Stage:         entities.Stage(o.Stage),
		PaymentStatus: entities.PaymentStatus(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	if o.RequiresPhysicalCopy {
		ent.ShippingAddress = &entities.ShippingAddress{
			Name:       nullStringToString(o.ShipName),
			Line1:      nullStringToString(o.ShipLine1),
			Line2:      nullStringToString(o.ShipLine2),
			City:       nullStringToString(o.ShipCity),
			Region:     nullStringToString(o.ShipRegion),
			PostalCode: nullStringToString(o.ShipPostalCode),
			Country:    nullStringToString(o.ShipCountry),
		}
	}

	return ent
}

func TokenToEntity(t AssignmentToken) entities.AssignmentToken {
	ent := entities.AssignmentToken{
		Token:        t.Token,
		OrderID:      t.OrderID,
		TranslatorID: t.TranslatorID,
		Status:       entities.TokenStatus(t.Status),
		CreatedAt:    t.CreatedAt,
	}
	if t.RespondedAt.Valid {
		respondedAt := t.RespondedAt.Time
		ent.RespondedAt = &respondedAt
	}
	return ent
}

func CertificationToEntity(c Certification) entities.Certification {
	return entities.Certification{
		CertificationID:      c.CertificationID,
		OrderID:              c.OrderID,
		DocumentType:         c.DocumentType,
		SourceLanguage:       c.SourceLanguage,
		TargetLanguage:       c.TargetLanguage,
		PageCount:            c.PageCount,
		CertifierName:        c.CertifierName,
		CertifierCredentials: c.CertifierCredentials,
		CertifiedAt:          c.CertifiedAt,
		IntegrityToken:       c.IntegrityToken,
	}
}

func DiscountToEntity(d DiscountCode) entities.DiscountCode {
	return entities.DiscountCode{
		Code:       d.Code,
		Kind:       entities.DiscountKind(d.Kind),
		Value:      d.Value,
		ValidFrom:  d.ValidFrom,
		ValidUntil: d.ValidUntil,
		UsageCap:   d.UsageCap,
		UsedCount:  d.UsedCount,
	}
}
