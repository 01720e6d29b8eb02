// Package calendarexport renders a solved Schedule as an iCalendar
// feed, one VEVENT per (provider, date) with a visit, for a provider
// to subscribe to from their own calendar client. Grounded on
// go-ical's own ical.NewCalendar/ical.NewEvent construction API (no
// repo in the corpus imports it with visible source).
package calendarexport

import (
	"fmt"
	"sort"
	"time"

	"github.com/emersion/go-ical"

	"github.com/carepath/fieldsched/internal/entity"
)

// Export renders every visit day for one provider as a full-day
// VEVENT, summarizing the facilities and patient counts for that day.
func Export(sched *entity.Schedule, providerID entity.ProviderID) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//carepath/fieldsched//EN")

	dates := sched.Visits[providerID]
	sortedDates := make([]string, 0, len(dates))
	for d := range dates {
		sortedDates = append(sortedDates, d)
	}
	sort.Strings(sortedDates)

	for _, date := range sortedDates {
		facilities := dates[date]
		cal.Children = append(cal.Children, buildEvent(providerID, date, facilities))
	}
	return cal
}

func buildEvent(providerID entity.ProviderID, date string, facilities map[entity.FacilityID]int) *ical.Event {
	event := ical.NewEvent()
	day, _ := time.Parse("2006-01-02", date)

	uid := fmt.Sprintf("%s-%s@fieldsched", providerID, date)
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, day)
	event.Props.SetDateTime(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
	event.Props.SetText(ical.PropSummary, fmt.Sprintf("Field visits: %s", providerID))

	facilityIDs := make([]string, 0, len(facilities))
	for f := range facilities {
		facilityIDs = append(facilityIDs, f)
	}
	sort.Strings(facilityIDs)

	desc := ""
	for i, f := range facilityIDs {
		if i > 0 {
			desc += "; "
		}
		desc += fmt.Sprintf("%s: %d patients", f, facilities[f])
	}
	event.Props.SetText(ical.PropDescription, desc)

	return event
}
