// Package result assembles the final entity.Schedule from a solved
// MIP solution and its post-processed travel report, per spec §2/§6.
package result

import (
	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/mip"
	"github.com/carepath/fieldsched/internal/postprocess"
	"github.com/carepath/fieldsched/internal/preflight"
)

// Package builds the Schedule for a single provider from its solved
// Solution and travel Report, re-labeling indices back to stable ids.
func Package(
	cat *entity.Catalog,
	hz *entity.Horizon,
	providerID entity.ProviderID,
	providerIdx int,
	month string,
	maxPatientsPerDay int,
	availableWeekdays int,
	sol *mip.Solution,
	report postprocess.Report,
	meta entity.SolveMetadata,
) *entity.Schedule {
	sched := entity.NewSchedule()
	sched.Metadata = meta
	sched.Status = meta.Status

	served := 0
	for key, patients := range sol.Patients {
		if patients <= 0 {
			continue
		}
		p, f, d := key[0], key[1], key[2]
		if p != providerIdx {
			continue
		}
		facilityID := cat.Facilities[f].ID
		date := hz.DateAt(d)
		sched.AddVisit(providerID, date, facilityID, patients)
		served += patients
	}

	daysWorked := 0
	for d, dt := range report.ByDay {
		date := hz.DateAt(d)
		sched.SetDailyTravel(providerID, date, dt.Total())
		daysWorked++
	}

	sched.TotalPatientsServed = served
	sched.TotalPatientDemand = preflight.RawDemand(cat, providerIdx, month)
	sched.HomeToFacilityHours = report.HomeTotal
	sched.FacilityToFacility = report.FacilityTotal
	sched.TotalTravelHours = report.HomeTotal + report.FacilityTotal

	capacity := availableWeekdays * maxPatientsPerDay
	if capacity > 0 {
		sched.OverallUtilization = float64(served) / float64(capacity)
	}

	sched.Summary[providerID] = entity.ProviderSummary{
		PatientsServed: served,
		DaysWorked:     daysWorked,
		TravelHours:    sched.TotalTravelHours,
		HomeHours:      report.HomeTotal,
		FacilityHours:  report.FacilityTotal,
	}

	return sched
}
