package models

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionRecord tracks one end user's use of one deal. Its ID is the token
// encoded in the user's scannable code.
type RedemptionRecord struct {
	ID                uuid.UUID `json:"id"`
	PromotionID       uuid.UUID `json:"promotion_id"`
	UserID            uuid.UUID `json:"user_id"`
	RedeemedDates     []Date    `json:"redeemed_dates"`
	PointsAccumulated int       `json:"points_accumulated"`
	Disabled          bool      `json:"disabled"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (r *RedemptionRecord) RedeemedOn(day Date) bool {
	for _, d := range r.RedeemedDates {
		if d == day {
			return true
		}
	}
	return false
}

// EndUser is a customer that can hold redemption records.
type EndUser struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// RedemptionResult is returned for a successful scan.
type RedemptionResult struct {
	RecordID          uuid.UUID `json:"record_id"`
	PromotionID       uuid.UUID `json:"promotion_id"`
	UserID            uuid.UUID `json:"user_id"`
	RedeemedOn        Date      `json:"redeemed_on"`
	PointsAccumulated int       `json:"points_accumulated"`
	Discount          Discount  `json:"discount"`
	Message           string    `json:"message"`
}
