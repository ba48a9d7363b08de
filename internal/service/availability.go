package service

import (
	"time"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// lookaheadDays is today plus one full week, so a window later today or on the
// same weekday next week is always found.
const lookaheadDays = 8

// Evaluate decides whether p is redeemable at now, with "today" and the wall clock
// taken in loc. It performs no I/O and is deterministic for a given now.
//
// Checks run in a fixed order: expiry, disabled, today's window, then a forward
// scan for the next window. Both ends of a window are inclusive.
func Evaluate(p *models.Promotion, now time.Time, loc *time.Location) models.Availability {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := models.DateOf(local)
	clock := sinceMidnight(local)

	if p.ExpiredOn(today) {
		return models.Availability{Status: models.StatusExpired}
	}
	if p.Disabled {
		return models.Availability{Status: models.StatusDisabled}
	}

	if slot, ok := p.Schedule.SlotFor(today.Weekday()); ok && withinSlot(slot, clock) {
		return models.Availability{Status: models.StatusAvailableNow}
	}

	return models.Availability{
		Status:        models.StatusNotAvailable,
		NextAvailable: nextWindow(p.Schedule, today, clock, loc),
	}
}

func nextWindow(w models.WeeklySchedule, today models.Date, clock time.Duration, loc *time.Location) *time.Time {
	for i := 0; i < lookaheadDays; i++ {
		day := today.AddDays(i)
		slot, ok := w.SlotFor(day.Weekday())
		if !ok {
			continue
		}
		if i == 0 && clock > slot.End.Offset() {
			continue
		}
		next := day.At(slot.Start, loc)
		return &next
	}
	return nil
}

func withinSlot(s models.Slot, clock time.Duration) bool {
	return s.Start.Offset() <= clock && clock <= s.End.Offset()
}

// sinceMidnight is the wall-clock offset of t, including sub-second precision, so
// 17:00:00.5 is past a 17:00 end.
func sinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}
