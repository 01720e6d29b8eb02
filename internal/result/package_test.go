package result

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/horizon"
	"github.com/carepath/fieldsched/internal/mip"
	"github.com/carepath/fieldsched/internal/postprocess"
)

func TestPackageBuildsScheduleTotalsAndUtilization(t *testing.T) {
	cat := entity.NewCatalog("adult-primary-care", []entity.ProviderID{"P1"}, []entity.FacilityID{"F1"})
	_ = cat.AddAssignment("P1", "F1")
	_ = cat.SetCensus("P1", "F1", "2024-12", 10)

	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	hz := horizon.Build(start, 1) // 5 weekdays

	sol := &mip.Solution{
		Patients: map[[3]int]int{
			{0, 0, 0}: 5,
			{0, 0, 1}: 5,
		},
	}
	report := postprocess.Report{
		ByDay: map[int]postprocess.DayTravel{
			0: {HomeHours: 0.5, FacilityHours: 0},
			1: {HomeHours: 0.5, FacilityHours: 0},
		},
		HomeTotal: 1.0,
	}

	sched := Package(cat, hz, "P1", 0, "2024-12", 15, 5, sol, report, entity.SolveMetadata{Status: entity.SolverStatusOptimal})

	assert.Equal(t, 10, sched.TotalPatientsServed)
	assert.Equal(t, 10, sched.TotalPatientDemand)
	assert.Equal(t, 1.0, sched.TotalTravelHours)
	assert.InDelta(t, 10.0/75.0, sched.OverallUtilization, 1e-9)

	summary := sched.Summary["P1"]
	assert.Equal(t, 10, summary.PatientsServed)
	assert.Equal(t, 2, summary.DaysWorked)

	date0 := hz.DateAt(0)
	assert.Equal(t, 5, sched.Visits["P1"][date0]["F1"])
}

func TestPackageSkipsZeroPatientEntries(t *testing.T) {
	cat := entity.NewCatalog("adult-primary-care", []entity.ProviderID{"P1"}, []entity.FacilityID{"F1"})
	_ = cat.AddAssignment("P1", "F1")

	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	hz := horizon.Build(start, 1)

	sol := &mip.Solution{Patients: map[[3]int]int{{0, 0, 0}: 0}}
	report := postprocess.Report{ByDay: map[int]postprocess.DayTravel{}}

	sched := Package(cat, hz, "P1", 0, "2024-12", 15, 5, sol, report, entity.SolveMetadata{})

	assert.Equal(t, 0, sched.TotalPatientsServed)
	assert.Empty(t, sched.Visits["P1"])
}

func TestPackageIgnoresOtherProvidersInSolution(t *testing.T) {
	cat := entity.NewCatalog("adult-primary-care", []entity.ProviderID{"P1", "P2"}, []entity.FacilityID{"F1"})
	_ = cat.AddAssignment("P1", "F1")
	_ = cat.AddAssignment("P2", "F1")

	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	hz := horizon.Build(start, 1)

	sol := &mip.Solution{Patients: map[[3]int]int{
		{0, 0, 0}: 3, // P1
		{1, 0, 0}: 9, // P2, should be ignored when packaging P1
	}}
	report := postprocess.Report{ByDay: map[int]postprocess.DayTravel{}}

	sched := Package(cat, hz, "P1", 0, "2024-12", 15, 5, sol, report, entity.SolveMetadata{})

	assert.Equal(t, 3, sched.TotalPatientsServed)
}

func TestPackageZeroCapacityLeavesUtilizationZero(t *testing.T) {
	cat := entity.NewCatalog("adult-primary-care", []entity.ProviderID{"P1"}, []entity.FacilityID{"F1"})
	_ = cat.AddAssignment("P1", "F1")

	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	hz := horizon.Build(start, 1)

	sol := &mip.Solution{Patients: map[[3]int]int{}}
	report := postprocess.Report{ByDay: map[int]postprocess.DayTravel{}}

	sched := Package(cat, hz, "P1", 0, "2024-12", 15, 0, sol, report, entity.SolveMetadata{})

	assert.Equal(t, 0.0, sched.OverallUtilization)
}
