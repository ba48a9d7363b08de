package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSlotRejectsNonIncreasingRange(t *testing.T) {
	var w WeeklySchedule
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 15, 30, 45} {
			start := MustTimeOfDay(h, m)
			// equal
			assert.ErrorIs(t, w.SetSlot(Monday, start, start), ErrInvalidRange)
			// reversed
			if h > 0 {
				assert.ErrorIs(t, w.SetSlot(Tuesday, start, MustTimeOfDay(h-1, m)), ErrInvalidRange)
			}
		}
	}
	assert.True(t, w.IsEmpty(), "rejected slots must not be stored")
}

func TestSetSlotRejectsInvalidDay(t *testing.T) {
	var w WeeklySchedule
	err := w.SetSlot(Weekday(7), MustTimeOfDay(9, 0), MustTimeOfDay(10, 0))
	assert.ErrorIs(t, err, ErrInvalidDay)
	err = w.SetSlot(Weekday(-1), MustTimeOfDay(9, 0), MustTimeOfDay(10, 0))
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = ParseWeekday("funday")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestSetClearSlotFor(t *testing.T) {
	var w WeeklySchedule
	require.NoError(t, w.SetSlot(Wednesday, MustTimeOfDay(9, 0), MustTimeOfDay(17, 30)))

	s, ok := w.SlotFor(Wednesday)
	require.True(t, ok)
	assert.Equal(t, Slot{Start: MustTimeOfDay(9, 0), End: MustTimeOfDay(17, 30)}, s)

	_, ok = w.SlotFor(Thursday)
	assert.False(t, ok)

	w.ClearSlot(Wednesday)
	_, ok = w.SlotFor(Wednesday)
	assert.False(t, ok)

	// out of range is a no-op
	w.ClearSlot(Weekday(9))
	_, ok = w.SlotFor(Weekday(9))
	assert.False(t, ok)
}

func TestBulkConstructors(t *testing.T) {
	start, end := MustTimeOfDay(11, 0), MustTimeOfDay(14, 0)

	weekdays, err := NewWeekdaySchedule(start, end)
	require.NoError(t, err)
	for d := Monday; d <= Sunday; d++ {
		_, ok := weekdays.SlotFor(d)
		assert.Equal(t, d <= Friday, ok, d.String())
	}
	assert.Equal(t, ScheduleWeekdays, weekdays.Kind())

	everyday, err := NewEverydaySchedule(start, end)
	require.NoError(t, err)
	for d := Monday; d <= Sunday; d++ {
		_, ok := everyday.SlotFor(d)
		assert.True(t, ok, d.String())
	}
	assert.Equal(t, ScheduleEveryday, everyday.Kind())

	byDay, err := NewScheduleByDay(map[Weekday]Slot{
		Monday:   {Start: start, End: end},
		Saturday: {Start: MustTimeOfDay(8, 0), End: MustTimeOfDay(9, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, SchedulePerDay, byDay.Kind())
	assert.Equal(t, "Mon - 11:00 to 14:00\nSat - 08:00 to 09:00", byDay.Summary())

	_, err = NewEverydaySchedule(end, start)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = NewScheduleByDay(map[Weekday]Slot{Friday: {Start: end, End: start}})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: MustTimeOfDay(9, 0)},
		{in: "23:59", want: MustTimeOfDay(23, 59)},
		{in: "17:30:00", want: MustTimeOfDay(17, 30)},
		{in: "17:30:01", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(time.Monday))
	assert.Equal(t, Sunday, WeekdayOf(time.Sunday))
	assert.Equal(t, Saturday, WeekdayOf(time.Saturday))
	// 2024-06-10 was a Monday
	assert.Equal(t, Monday, MustDate("2024-06-10").Weekday())
}

func TestScheduleJSON(t *testing.T) {
	var w WeeklySchedule
	require.NoError(t, w.SetSlot(Friday, MustTimeOfDay(10, 0), MustTimeOfDay(12, 0)))

	b, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fri":{"start":"10:00","end":"12:00"}}`, string(b))

	var back WeeklySchedule
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, w.Equal(back))

	err = json.Unmarshal([]byte(`{"fri":{"start":"12:00","end":"10:00"}}`), &back)
	assert.ErrorIs(t, err, ErrInvalidRange)
	err = json.Unmarshal([]byte(`{"xyz":{"start":"10:00","end":"12:00"}}`), &back)
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestScheduleFromKeysRejectsRepeatedDay(t *testing.T) {
	s := Slot{Start: MustTimeOfDay(9, 0), End: MustTimeOfDay(17, 0)}
	for _, keys := range [][2]string{{"mon", "monday"}, {"Mon", "mon"}, {"FRI", "Friday"}} {
		_, err := ScheduleFromKeys(map[string]Slot{keys[0]: s, keys[1]: s})
		assert.ErrorIs(t, err, ErrInvalidDay, keys)
	}

	w, err := ScheduleFromKeys(map[string]Slot{"mon": s, "Tuesday": s})
	require.NoError(t, err)
	_, ok := w.SlotFor(Tuesday)
	assert.True(t, ok)

	err = json.Unmarshal([]byte(`{"sat":{"start":"10:00","end":"12:00"},"saturday":{"start":"13:00","end":"14:00"}}`), &w)
	assert.ErrorIs(t, err, ErrInvalidDay)
}
