package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountKind names the variants of Discount.
type DiscountKind string

const (
	// PointBased deals reward the customer after MaxPoints visits.
	PointBased DiscountKind = "point_based"
	// PlainPercentage deals take PercentageOff on every visit.
	PlainPercentage DiscountKind = "percentage"
)

// UnmarshalJSON accepts the named tags and the legacy integer tags
// (0 point based, 1 percentage) that older rows and clients still carry.
func (k *DiscountKind) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "0":
		*k = PointBased
		return nil
	case "1":
		*k = PlainPercentage
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDiscount, b)
	}
	kind, err := ParseDiscountKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

func ParseDiscountKind(s string) (DiscountKind, error) {
	switch DiscountKind(strings.ToLower(strings.TrimSpace(s))) {
	case PointBased, "0":
		return PointBased, nil
	case PlainPercentage, "1":
		return PlainPercentage, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDiscount, s)
}

// Discount is a tagged union over DiscountKind. MaxPoints is only set for
// PointBased.
type Discount struct {
	Kind      DiscountKind `json:"kind"`
	MaxPoints int          `json:"max_points,omitempty"`
}

func PointBasedDiscount(maxPoints int) Discount {
	return Discount{Kind: PointBased, MaxPoints: maxPoints}
}

func PercentageDiscount() Discount {
	return Discount{Kind: PlainPercentage}
}

func (d Discount) Validate() error {
	switch d.Kind {
	case PointBased:
		if d.MaxPoints <= 0 {
			return ErrInvalidMaxPoints
		}
	case PlainPercentage:
		if d.MaxPoints != 0 {
			return fmt.Errorf("%w: max points on a percentage deal", ErrInvalidMaxPoints)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDiscount, d.Kind)
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

// ValidatePercentage checks p is in (0, 100] with at most two decimal places.
func ValidatePercentage(p decimal.Decimal) error {
	if !p.IsPositive() || p.GreaterThan(hundred) || !p.Round(2).Equal(p) {
		return fmt.Errorf("%w: %s", ErrInvalidPercentage, p)
	}
	return nil
}

// Promotion is a shop-issued deal.
type Promotion struct {
	ID            uuid.UUID       `json:"id"`
	ShopID        uuid.UUID       `json:"shop_id"`
	Discount      Discount        `json:"discount"`
	PercentageOff decimal.Decimal `json:"percentage_off"`
	Schedule      WeeklySchedule  `json:"schedule"`
	ExpiryDate    *Date           `json:"expiry_date,omitempty"`
	Disabled      bool            `json:"disabled"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate checks the authoring rules. Schedule slots are validated when
// they are set, so only emptiness is checked here.
func (p *Promotion) Validate() error {
	if err := p.Discount.Validate(); err != nil {
		return err
	}
	if err := ValidatePercentage(p.PercentageOff); err != nil {
		return err
	}
	if p.Schedule.IsEmpty() {
		return ErrEmptySchedule
	}
	return nil
}

// ExpiredOn reports whether the deal is past its expiry date on day.
func (p *Promotion) ExpiredOn(day Date) bool {
	return p.ExpiryDate != nil && day.After(*p.ExpiryDate)
}

// ShopDeal is the read model for a shop's deal list.
type ShopDeal struct {
	Promotion
	ShopName     string       `json:"shop_name"`
	ShopLocation string       `json:"shop_location"`
	Availability Availability `json:"availability"`
}
