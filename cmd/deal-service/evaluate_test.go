package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/deal-service/internal/models"
	"github.com/Cheertaboi/deal-service/internal/service"
)

func TestPrintAvailability(t *testing.T) {
	sched, err := models.NewScheduleByDay(map[models.Weekday]models.Slot{
		models.Friday: {Start: models.MustTimeOfDay(10, 0), End: models.MustTimeOfDay(12, 0)},
	})
	require.NoError(t, err)
	p := &models.Promotion{Discount: models.PercentageDiscount(), PercentageOff: decimal.NewFromInt(10), Schedule: sched}

	at := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	require.NoError(t, printAvailability(&out, p, service.Evaluate(p, at, time.UTC), at))

	assert.Contains(t, out.String(), "Status:       not_available")
	assert.Contains(t, out.String(), "Next window:  Fri 14 Jun 10:00 UTC")
	assert.Contains(t, out.String(), "Fri - 10:00 to 12:00")
}
