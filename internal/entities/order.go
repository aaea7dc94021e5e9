package entities

import "time"

type ServiceType string

const (
	ServiceStandard     ServiceType = "standard"
	ServiceCertified    ServiceType = "certified"
	ServiceSworn        ServiceType = "sworn"
	ServiceRMVCertified ServiceType = "rmv_certified"
)

func (s ServiceType) Known() bool {
	switch s {
	case ServiceStandard, ServiceCertified, ServiceSworn, ServiceRMVCertified:
		return true
	}
	return false
}

// RequiresCertification reports whether delivery of this service type
// must be accompanied by an issued certification record.
func (s ServiceType) RequiresCertification() bool {
	switch s {
	case ServiceCertified, ServiceSworn, ServiceRMVCertified:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyPriority Urgency = "priority"
	UrgencyUrgent   Urgency = "urgent"
)

func (u Urgency) Known() bool {
	switch u {
	case UrgencyStandard, UrgencyPriority, UrgencyUrgent:
		return true
	}
	return false
}

type Stage string

const (
	StageReceived      Stage = "received"
	StageInTranslation Stage = "in_translation"
	StageReview        Stage = "review"
	StageReady         Stage = "ready"
	StageDelivered     Stage = "delivered"
)

func (s Stage) Known() bool {
	switch s {
	case StageReceived, StageInTranslation, StageReview, StageReady, StageDelivered:
		return true
	}
	return false
}

// Next returns the following pipeline stage. ok is false for the
// terminal stage and for unknown values.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StageReceived:
		return StageInTranslation, true
	case StageInTranslation:
		return StageReview, true
	case StageReview:
		return StageReady, true
	case StageReady:
		return StageDelivered, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// PriceBreakdown holds the itemized quote in integer cents.
// Total = BasePrice + UrgencyFee + CertificationFee + ShippingFee - Discount.
type PriceBreakdown struct {
	BasePrice        int64
	UrgencyFee       int64
	CertificationFee int64
	ShippingFee      int64
	Discount         int64
	Total            int64
}

// Subtotal is the pre-discount sum; the discount is clamped to it.
func (b PriceBreakdown) Subtotal() int64 {
	return b.BasePrice + b.UrgencyFee + b.CertificationFee + b.ShippingFee
}

type ShippingAddress struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

type Order struct {
	ID          string
	OrderNumber string

	ServiceType    ServiceType
	DocumentType   string
	SourceLanguage string
	TargetLanguage string
	Urgency        Urgency
	PageCount      int
	WordCount      int

	RequiresPhysicalCopy bool
	ShippingAddress      *ShippingAddress

	DiscountCode string
	Price        PriceBreakdown

	Stage         Stage
	PaymentStatus PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentFacts is the intake collaborator's verdict on an uploaded file.
type DocumentFacts struct {
	PageCount int
	WordCount int
}
