package entities

import "time"

type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFlat    DiscountKind = "flat"
)

// DiscountCode is valid while inside its window and under its usage cap.
// Value is a percentage for percent codes and cents for flat codes.
type DiscountCode struct {
	Code       string
	Kind       DiscountKind
	Value      int64
	ValidFrom  time.Time
	ValidUntil time.Time
	UsageCap   int
	UsedCount  int
}

// AmountFor computes the discount in cents for the given pre-discount
// subtotal, clamped so the total never goes negative. Percent amounts
// are rounded half up.
func (d DiscountCode) AmountFor(subtotal int64) int64 {
	var amount int64
	switch d.Kind {
	case DiscountPercent:
		amount = (subtotal*d.Value + 50) / 100
	case DiscountFlat:
		amount = d.Value
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}
