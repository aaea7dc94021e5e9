package pricing

import (
	"fmt"

	"github.com/linguatrust/translation-orders/internal/entities"
)

// Config carries the pricing tables. It is loaded once at startup and
// injected; the calculator itself holds no mutable state.
type Config struct {
	// PageRates maps a service type to its per-page rate in cents.
	PageRates map[entities.ServiceType]int64
	// UrgencyPercent maps an urgency level to a surcharge applied to the
	// base price, in whole percent.
	UrgencyPercent map[entities.Urgency]int64
	// CertificationFee is charged for every certifying service type.
	CertificationFee int64
	// ShippingFee is charged whenever a physical copy is produced.
	ShippingFee int64
	// Languages is the supported language set.
	Languages []string
	// SwornTarget is the only target language sworn translations admit.
	SwornTarget string
}

type Calculator struct {
	cfg   Config
	langs map[string]struct{}
}

func NewCalculator(cfg Config) *Calculator {
	langs := make(map[string]struct{}, len(cfg.Languages))
	for _, l := range cfg.Languages {
		langs[l] = struct{}{}
	}
	return &Calculator{cfg: cfg, langs: langs}
}

type Request struct {
	ServiceType          entities.ServiceType
	Urgency              entities.Urgency
	PageCount            int
	RequiresPhysicalCopy bool
	SourceLanguage       string
	TargetLanguage       string
}

// Quote is a priced request. RequiresPhysicalCopy is the normalized
// flag: rmv_certified forces it regardless of client input.
type Quote struct {
	Breakdown            entities.PriceBreakdown
	RequiresPhysicalCopy bool
}

// Compute prices the request additively: per-page base, urgency
// surcharge on the base (round half up), certification fee, shipping
// fee. Invalid input fails with entities.ValidationError; defaults are
// never substituted.
func (c *Calculator) Compute(req Request) (Quote, error) {
	if err := c.validate(req); err != nil {
		return Quote{}, err
	}

	physical := req.RequiresPhysicalCopy || req.ServiceType == entities.ServiceRMVCertified

	b := entities.PriceBreakdown{
		BasePrice: c.cfg.PageRates[req.ServiceType] * int64(req.PageCount),
	}
	b.UrgencyFee = percentOf(b.BasePrice, c.cfg.UrgencyPercent[req.Urgency])
	if req.ServiceType.RequiresCertification() {
		b.CertificationFee = c.cfg.CertificationFee
	}
	if physical {
		b.ShippingFee = c.cfg.ShippingFee
	}
	b.Total = b.Subtotal()

	return Quote{Breakdown: b, RequiresPhysicalCopy: physical}, nil
}

func (c *Calculator) validate(req Request) error {
	if !req.ServiceType.Known() {
		return entities.ValidationError{Field: "service_type", Reason: fmt.Sprintf("unknown service type %q", req.ServiceType)}
	}
	if _, ok := c.cfg.PageRates[req.ServiceType]; !ok {
		return entities.ValidationError{Field: "service_type", Reason: fmt.Sprintf("no rate configured for %q", req.ServiceType)}
	}
	if !req.Urgency.Known() {
		return entities.ValidationError{Field: "urgency", Reason: fmt.Sprintf("unknown urgency %q", req.Urgency)}
	}
	if req.PageCount <= 0 {
		return entities.ValidationError{Field: "page_count", Reason: "must be positive"}
	}
	if _, ok := c.langs[req.SourceLanguage]; !ok {
		return entities.ValidationError{Field: "source_language", Reason: fmt.Sprintf("unsupported language %q", req.SourceLanguage)}
	}
	if _, ok := c.langs[req.TargetLanguage]; !ok {
		return entities.ValidationError{Field: "target_language", Reason: fmt.Sprintf("unsupported language %q", req.TargetLanguage)}
	}
	if req.SourceLanguage == req.TargetLanguage {
		return entities.ValidationError{Field: "target_language", Reason: "must differ from source language"}
	}
	if req.ServiceType == entities.ServiceSworn && req.TargetLanguage != c.cfg.SwornTarget {
		return entities.ValidationError{
			Field:  "target_language",
			Reason: fmt.Sprintf("sworn translations are only available into %q", c.cfg.SwornTarget),
		}
	}
	return nil
}

// ApplyDiscount subtracts amount from the breakdown, clamping it to the
// pre-discount subtotal so the total stays non-negative.
func ApplyDiscount(b *entities.PriceBreakdown, amount int64) {
	subtotal := b.Subtotal()
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	b.Discount = amount
	b.Total = subtotal - amount
}

// percentOf rounds half up to the cent.
func percentOf(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}
