// Package horizon builds the ordered list of weekday dates a provider
// is scheduled over, per spec §4.2.
package horizon

import (
	"time"

	"github.com/carepath/fieldsched/internal/entity"
)

// Build produces an entity.Horizon covering weeks*7 calendar days
// starting at startDate, filtered to Monday-Friday. startDate need not
// itself be a Monday: any date is accepted and weekends are simply
// dropped from the output, per spec.
func Build(startDate time.Time, weeks int) *entity.Horizon {
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	totalDays := weeks * 7

	days := make([]time.Time, 0, weeks*5)
	for i := 0; i < totalDays; i++ {
		d := start.AddDate(0, 0, i)
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			days = append(days, d)
		}
	}
	return entity.NewHorizon(days)
}
