package models

import (
	"errors"
	"fmt"
	"time"
)

// Schedule authoring
var (
	ErrInvalidRange = errors.New("slot start must be before slot end")
	ErrInvalidDay   = errors.New("invalid day of week")
	ErrInvalidTime  = errors.New("invalid time of day")
)

// Deal authoring
var (
	ErrInvalidPercentage = errors.New("percentage off must be greater than 0 and at most 100 with at most 2 decimal places")
	ErrInvalidMaxPoints  = errors.New("point based deals need a positive max points")
	ErrInvalidDiscount   = errors.New("unknown discount kind")
	ErrEmptySchedule     = errors.New("deal must be available on at least one day")
	ErrPromotionNotFound = errors.New("deal not found")
	ErrShopNotFound      = errors.New("shop not found")
	ErrShopNameTaken     = errors.New("shop name is already taken")
	ErrInvalidShopName   = errors.New("shop name is required")
	ErrInvalidTheme      = errors.New("unknown theme")
	ErrUserExists        = errors.New("user already exists")
)

// Redemption flow
var (
	ErrRecordNotFound  = errors.New("redemption record not found")
	ErrInvalidUser     = errors.New("user is not valid for this deal")
	ErrAlreadyRedeemed = errors.New("deal already redeemed today")
	ErrOutsideWindow   = errors.New("deal is not available right now")
	ErrExpired         = errors.New("deal has expired")
	ErrDisabled        = errors.New("deal is disabled")
	ErrConflict        = errors.New("concurrent redemption conflict")
)

// OutsideWindowError is returned when a deal exists and is live but the current
// instant falls outside every window. NextAvailable is nil when no window opens
// within the next week.
type OutsideWindowError struct {
	NextAvailable *time.Time
}

func (e *OutsideWindowError) Error() string {
	if e.NextAvailable == nil {
		return ErrOutsideWindow.Error()
	}
	return fmt.Sprintf("%s: next available %s", ErrOutsideWindow, e.NextAvailable.Format(time.RFC3339))
}

func (e *OutsideWindowError) Is(target error) bool {
	return target == ErrOutsideWindow
}

// Kind returns a stable machine-readable name for a known error, or "internal_error".
func Kind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal_error"
}

// Message returns the message shown to the person at the counter.
func Message(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.message
		}
	}
	return "Something went wrong, please try again."
}

var errorKinds = []struct {
	err     error
	kind    string
	message string
}{
	{ErrInvalidRange, "invalid_range", "The start time must be before the end time."},
	{ErrInvalidDay, "invalid_day", "That is not a day of the week."},
	{ErrInvalidTime, "invalid_time", "Times must look like HH:MM."},
	{ErrInvalidPercentage, "invalid_percentage", "Please enter a discount between 0 and 100."},
	{ErrInvalidMaxPoints, "invalid_max_points", "Please enter how many visits earn the reward."},
	{ErrInvalidDiscount, "invalid_discount", "Please choose a discount type."},
	{ErrEmptySchedule, "empty_schedule", "Choose at least one day for the deal."},
	{ErrPromotionNotFound, "deal_not_found", "This deal no longer exists."},
	{ErrShopNotFound, "shop_not_found", "This shop does not exist."},
	{ErrShopNameTaken, "shop_name_taken", "That shop name is already taken."},
	{ErrInvalidShopName, "invalid_shop_name", "Please enter a shop name."},
	{ErrInvalidTheme, "invalid_theme", "Unknown theme."},
	{ErrUserExists, "user_exists", "That user is already registered."},
	{ErrRecordNotFound, "record_not_found", "This code is not recognised."},
	{ErrInvalidUser, "invalid_user", "You are not a valid user for this deal."},
	{ErrAlreadyRedeemed, "already_redeemed", "You have already redeemed this deal today."},
	{ErrOutsideWindow, "outside_window", "This deal is not valid right now."},
	{ErrExpired, "expired", "This deal has expired."},
	{ErrDisabled, "disabled", "This deal is currently disabled."},
	{ErrConflict, "conflict", "This deal is being redeemed on another device."},
}
