package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a day of the week with Monday first, matching how shops author deals.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek is the number of schedule slots.
const DaysInWeek = 7

var weekdayKeys = [DaysInWeek]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var weekdayNames = [DaysInWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

// Key is the short storage and wire token ("mon".."sun").
func (d Weekday) Key() string {
	if !d.Valid() {
		return ""
	}
	return weekdayKeys[d]
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// WeekdayOf converts a time.Weekday (Sunday first) to a Weekday.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

// ParseWeekday accepts "mon", "monday" and friends, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range weekdayKeys {
		if s == weekdayKeys[i] || s == strings.ToLower(weekdayNames[i]) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// TimeOfDay is a wall-clock time with minute resolution and no timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// MustTimeOfDay is NewTimeOfDay for literals known to be valid.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay parses "HH:MM". "HH:MM:SS" is accepted as long as the seconds are
// zero, which is how Postgres renders a time column.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		nums[i] = n
	}
	if len(nums) == 3 && nums[2] != 0 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return NewTimeOfDay(nums[0], nums[1])
}

// Offset is the duration from midnight.
func (t TimeOfDay) Offset() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Offset() < o.Offset() }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Slot is one day's availability window. Windows never cross midnight.
type Slot struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

func NewSlot(start, end TimeOfDay) (Slot, error) {
	if !start.Before(end) {
		return Slot{}, fmt.Errorf("%w: %s-%s", ErrInvalidRange, start, end)
	}
	return Slot{Start: start, End: end}, nil
}

func (s Slot) String() string { return s.Start.String() + " to " + s.End.String() }

// WeeklySchedule holds one optional slot per weekday. The zero value has every
// day unset.
type WeeklySchedule struct {
	slots [DaysInWeek]*Slot
}

// SetSlot makes the deal available on day between start and end.
func (w *WeeklySchedule) SetSlot(day Weekday, start, end TimeOfDay) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDay, int(day))
	}
	s, err := NewSlot(start, end)
	if err != nil {
		return err
	}
	w.slots[day] = &s
	return nil
}

func (w *WeeklySchedule) ClearSlot(day Weekday) {
	if day.Valid() {
		w.slots[day] = nil
	}
}

func (w WeeklySchedule) SlotFor(day Weekday) (Slot, bool) {
	if !day.Valid() || w.slots[day] == nil {
		return Slot{}, false
	}
	return *w.slots[day], true
}

// IsEmpty reports whether no day has a slot.
func (w WeeklySchedule) IsEmpty() bool {
	for _, s := range w.slots {
		if s != nil {
			return false
		}
	}
	return true
}

func (w WeeklySchedule) Equal(o WeeklySchedule) bool {
	for d := Monday; d <= Sunday; d++ {
		a, aok := w.SlotFor(d)
		b, bok := o.SlotFor(d)
		if aok != bok || a != b {
			return false
		}
	}
	return true
}

// NewScheduleByDay builds a schedule from one explicit range per day.
func NewScheduleByDay(days map[Weekday]Slot) (WeeklySchedule, error) {
	var w WeeklySchedule
	for d, s := range days {
		if err := w.SetSlot(d, s.Start, s.End); err != nil {
			return WeeklySchedule{}, err
		}
	}
	return w, nil
}

// NewWeekdaySchedule applies one range to Monday through Friday.
func NewWeekdaySchedule(start, end TimeOfDay) (WeeklySchedule, error) {
	return uniformSchedule(Monday, Friday, start, end)
}

// NewEverydaySchedule applies one range to all seven days.
func NewEverydaySchedule(start, end TimeOfDay) (WeeklySchedule, error) {
	return uniformSchedule(Monday, Sunday, start, end)
}

func uniformSchedule(from, to Weekday, start, end TimeOfDay) (WeeklySchedule, error) {
	var w WeeklySchedule
	for d := from; d <= to; d++ {
		if err := w.SetSlot(d, start, end); err != nil {
			return WeeklySchedule{}, err
		}
	}
	return w, nil
}

// ScheduleKind describes the most compact authoring form a schedule fits.
type ScheduleKind string

const (
	ScheduleEveryday ScheduleKind = "everyday"
	ScheduleWeekdays ScheduleKind = "weekdays"
	SchedulePerDay   ScheduleKind = "days"
)

// Kind reports the compact form of w. It is a read helper for clients that want to
// pre-fill an edit form; schedules are always stored expanded.
func (w WeeklySchedule) Kind() ScheduleKind {
	first, ok := w.SlotFor(Monday)
	if !ok {
		return SchedulePerDay
	}
	for d := Tuesday; d <= Friday; d++ {
		if s, ok := w.SlotFor(d); !ok || s != first {
			return SchedulePerDay
		}
	}
	sat, satOK := w.SlotFor(Saturday)
	sun, sunOK := w.SlotFor(Sunday)
	switch {
	case satOK && sunOK && sat == first && sun == first:
		return ScheduleEveryday
	case !satOK && !sunOK:
		return ScheduleWeekdays
	}
	return SchedulePerDay
}

// Summary lists the set days, one per line, e.g. "Mon - 09:00 to 17:00".
func (w WeeklySchedule) Summary() string {
	var lines []string
	for d := Monday; d <= Sunday; d++ {
		s, ok := w.SlotFor(d)
		if !ok {
			continue
		}
		key := d.Key()
		lines = append(lines, strings.ToUpper(key[:1])+key[1:]+" - "+s.String())
	}
	return strings.Join(lines, "\n")
}

// Days returns the expanded form keyed by weekday token.
func (w WeeklySchedule) Days() map[string]Slot {
	out := make(map[string]Slot, DaysInWeek)
	for d := Monday; d <= Sunday; d++ {
		if s, ok := w.SlotFor(d); ok {
			out[d.Key()] = s
		}
	}
	return out
}

// ScheduleFromKeys builds a schedule from the expanded wire form. Two keys that
// name the same day ("mon" and "Monday") are rejected.
func ScheduleFromKeys(days map[string]Slot) (WeeklySchedule, error) {
	byDay := make(map[Weekday]Slot, len(days))
	for k, s := range days {
		d, err := ParseWeekday(k)
		if err != nil {
			return WeeklySchedule{}, err
		}
		if _, dup := byDay[d]; dup {
			return WeeklySchedule{}, fmt.Errorf("%w: %s given more than once", ErrInvalidDay, d)
		}
		byDay[d] = s
	}
	return NewScheduleByDay(byDay)
}

func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Days())
}

func (w *WeeklySchedule) UnmarshalJSON(b []byte) error {
	var days map[string]Slot
	if err := json.Unmarshal(b, &days); err != nil {
		return err
	}
	s, err := ScheduleFromKeys(days)
	if err != nil {
		return err
	}
	*w = s
	return nil
}
