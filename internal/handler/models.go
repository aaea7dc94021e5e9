package handler

import (
	"time"

	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/linguatrust/translation-orders/internal/pricing"
)

type QuoteRequest struct {
	ServiceType          string `json:"service_type" validate:"required"`
	Urgency              string `json:"urgency" validate:"required"`
	PageCount            int    `json:"page_count" validate:"required,gt=0"`
	RequiresPhysicalCopy bool   `json:"requires_physical_copy"`
	SourceLanguage       string `json:"source_language" validate:"required"`
	TargetLanguage       string `json:"target_language" validate:"required"`
	DiscountCode         string `json:"discount_code,omitempty"`
}

type PriceBreakdown struct {
	BasePrice        int64 `json:"base_price"`
	UrgencyFee       int64 `json:"urgency_fee"`
	CertificationFee int64 `json:"certification_fee"`
	ShippingFee      int64 `json:"shipping_fee"`
	Discount         int64 `json:"discount"`
	Total            int64 `json:"total"`
}

type QuoteResponse struct {
	PriceBreakdown
	RequiresPhysicalCopy bool `json:"requires_physical_copy"`
}

type ShippingAddress struct {
	Name       string `json:"name" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type CreateOrderRequest struct {
	ServiceType          string           `json:"service_type" validate:"required"`
	DocumentType         string           `json:"document_type" validate:"required"`
	DocumentRef          string           `json:"document_ref" validate:"required"`
	Urgency              string           `json:"urgency" validate:"required"`
	SourceLanguage       string           `json:"source_language" validate:"required"`
	TargetLanguage       string           `json:"target_language" validate:"required"`
	RequiresPhysicalCopy bool             `json:"requires_physical_copy"`
	ShippingAddress      *ShippingAddress `json:"shipping_address,omitempty"`
	DiscountCode         string           `json:"discount_code,omitempty"`
}

type Order struct {
	ID                   string           `json:"id"`
	OrderNumber          string           `json:"order_number"`
	ServiceType          string           `json:"service_type"`
	DocumentType         string           `json:"document_type"`
	SourceLanguage       string           `json:"source_language"`
	TargetLanguage       string           `json:"target_language"`
	Urgency              string           `json:"urgency"`
	PageCount            int              `json:"page_count"`
	WordCount            int              `json:"word_count"`
	RequiresPhysicalCopy bool             `json:"requires_physical_copy"`
	ShippingAddress      *ShippingAddress `json:"shipping_address,omitempty"`
	DiscountCode         string           `json:"discount_code,omitempty"`
	Price                PriceBreakdown   `json:"price"`
	Stage                string           `json:"stage"`
	PaymentStatus        string           `json:"payment_status"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

type AdvanceStageRequest struct {
	Stage string `json:"stage" validate:"required"`
	Actor string `json:"actor" validate:"required"`
}

type InviteRequest struct {
	TranslatorID string `json:"translator_id" validate:"required"`
}

type InviteResponse struct {
	Token       string `json:"token"`
	OrderNumber string `json:"order_number"`
}

type RespondRequest struct {
	Action string `json:"action" validate:"required"`
}

type RespondResponse struct {
	OrderNumber string `json:"order_number"`
	Decision    string `json:"decision"`
}

// AlreadyRespondedResponse surfaces the original decision so clients
// can render "already accepted/declined" instead of a generic error.
type AlreadyRespondedResponse struct {
	Message     string    `json:"message"`
	Decision    string    `json:"decision"`
	RespondedAt time.Time `json:"responded_at"`
}

type Certification struct {
	CertificationID      string    `json:"certification_id"`
	OrderID              string    `json:"order_id"`
	DocumentType         string    `json:"document_type"`
	SourceLanguage       string    `json:"source_language"`
	TargetLanguage       string    `json:"target_language"`
	PageCount            int       `json:"page_count"`
	CertifierName        string    `json:"certifier_name"`
	CertifierCredentials string    `json:"certifier_credentials"`
	CertifiedAt          time.Time `json:"certified_at"`
}

type VerifyResponse struct {
	Valid         bool           `json:"valid"`
	Certification *Certification `json:"certification,omitempty"`
}

func BreakdownToJSON(b entities.PriceBreakdown) PriceBreakdown {
	return PriceBreakdown{
		BasePrice:        b.BasePrice,
		UrgencyFee:       b.UrgencyFee,
		CertificationFee: b.CertificationFee,
		ShippingFee:      b.ShippingFee,
		Discount:         b.Discount,
		Total:            b.Total,
	}
}

func QuoteToJSON(q pricing.Quote) QuoteResponse {
	return QuoteResponse{
		PriceBreakdown:       BreakdownToJSON(q.Breakdown),
		RequiresPhysicalCopy: q.RequiresPhysicalCopy,
	}
}

func ShippingAddressToJSON(a *entities.ShippingAddress) *ShippingAddress {
	if a == nil {
		return nil
	}
	return &ShippingAddress{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func ShippingAddressToEntity(a *ShippingAddress) *entities.ShippingAddress {
	if a == nil {
		return nil
	}
	return &entities.ShippingAddress{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	return Order{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		ServiceType:          string(o.ServiceType),
		DocumentType:         o.DocumentType,
		SourceLanguage:       o.SourceLanguage,
		TargetLanguage:       o.TargetLanguage,
		Urgency:              string(o.Urgency),
		PageCount:            o.PageCount,
		WordCount:            o.WordCount,
		RequiresPhysicalCopy: o.RequiresPhysicalCopy,
		ShippingAddress:      ShippingAddressToJSON(o.ShippingAddress),
		DiscountCode:         o.DiscountCode,
		Price:                BreakdownToJSON(o.Price),
		Stage:                string(o.Stage),
		PaymentStatus:        string(o.PaymentStatus),
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func CertificationToJSON(c entities.Certification) *Certification {
	return &Certification{
		CertificationID:      c.CertificationID,
		OrderID:              c.OrderID,
		DocumentType:         c.DocumentType,
		SourceLanguage:       c.SourceLanguage,
		TargetLanguage:       c.TargetLanguage,
		PageCount:            c.PageCount,
		CertifierName:        c.CertifierName,
		CertifierCredentials: c.CertifierCredentials,
		CertifiedAt:          c.CertifiedAt,
	}
}
