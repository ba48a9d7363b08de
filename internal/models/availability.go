package models

import "time"

// AvailabilityStatus is the outcome of evaluating a deal at an instant.
type AvailabilityStatus string

const (
	StatusExpired      AvailabilityStatus = "expired"
	StatusDisabled     AvailabilityStatus = "disabled"
	StatusAvailableNow AvailabilityStatus = "available_now"
	StatusNotAvailable AvailabilityStatus = "not_available"
)

// Availability is set by the evaluator. NextAvailable is only populated for
// StatusNotAvailable, and is nil when no window opens within a week.
type Availability struct {
	Status        AvailabilityStatus `json:"status"`
	NextAvailable *time.Time         `json:"next_available,omitempty"`
}

func (a Availability) Redeemable() bool { return a.Status == StatusAvailableNow }

// Err converts a non-redeemable result to the matching redemption error.
func (a Availability) Err() error {
	switch a.Status {
	case StatusAvailableNow:
		return nil
	case StatusExpired:
		return ErrExpired
	case StatusDisabled:
		return ErrDisabled
	}
	return &OutsideWindowError{NextAvailable: a.NextAvailable}
}
