package constraints

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/horizon"
)

func testCatalog() (*entity.Catalog, *entity.Horizon) {
	cat := entity.NewCatalog("adult-primary-care", []entity.ProviderID{"P1"}, []entity.FacilityID{"F1", "F2"})
	_ = cat.AddAssignment("P1", "F1")
	_ = cat.AddAssignment("P1", "F2")

	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC) // Monday
	hz := horizon.Build(start, 4)
	return cat, hz
}

func TestCompileBaseUnavailableDates(t *testing.T) {
	cat, hz := testCatalog()

	compiled, skipped, result := Compile(cat, hz, 0, entity.ProviderConstraints{}, "2024-12-03", "2024-12-04")

	assert.Empty(t, skipped)
	assert.True(t, result.IsValid())
	idx3, _ := hz.IndexOf("2024-12-03")
	idx4, _ := hz.IndexOf("2024-12-04")
	assert.True(t, compiled.Unavailable[idx3])
	assert.True(t, compiled.Unavailable[idx4])
}

func TestCompilePTOExpansionInclusive(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		PTORequests: []entity.PTORequest{
			{StartDate: "2024-12-02", EndDate: "2024-12-03"},
		},
	}
	compiled, skipped, result := Compile(cat, hz, 0, pc)

	assert.Empty(t, skipped)
	assert.True(t, result.IsValid())
	i0, _ := hz.IndexOf("2024-12-02")
	i1, _ := hz.IndexOf("2024-12-03")
	assert.True(t, compiled.Unavailable[i0])
	assert.True(t, compiled.Unavailable[i1])
}

func TestCompilePTOMalformedDateSkippedIndividually(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		PTORequests: []entity.PTORequest{
			{StartDate: "not-a-date", EndDate: "2024-12-03"},
			{StartDate: "2024-12-02", EndDate: "2024-12-02"},
		},
	}
	compiled, skipped, result := Compile(cat, hz, 0, pc)

	assert.Len(t, skipped, 1)
	assert.True(t, result.IsValid())
	i0, _ := hz.IndexOf("2024-12-02")
	assert.True(t, compiled.Unavailable[i0])
}

func TestCompilePTOEndBeforeStartSkipped(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		PTORequests: []entity.PTORequest{
			{StartDate: "2024-12-03", EndDate: "2024-12-02"},
		},
	}
	_, skipped, result := Compile(cat, hz, 0, pc)

	assert.Len(t, skipped, 1)
	assert.True(t, result.IsValid())
}

func TestCompileWeeklyAvailabilityBlocksWeekday(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		WeeklyAvailability: []entity.WeeklyAvailabilityEntry{
			{Day: "Friday", IsWorking: false},
		},
	}
	compiled, _, result := Compile(cat, hz, 0, pc)

	assert.True(t, result.IsValid())
	for i := 0; i < hz.Len(); i++ {
		if hz.Weekday(i) == time.Friday {
			assert.True(t, compiled.Unavailable[i])
		}
	}
}

func TestCompileDateConstraintProducesRequiredVisit(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		DateConstraints: []entity.DateConstraint{
			{FacilityID: "F1", Date: "2024-12-03"},
		},
	}
	compiled, _, result := Compile(cat, hz, 0, pc)

	assert.True(t, result.IsValid())
	assert.Len(t, compiled.Required, 1)
	dayIdx, _ := hz.IndexOf("2024-12-03")
	assert.Equal(t, dayIdx, compiled.Required[0].DayIdx)
	assert.Equal(t, 0, compiled.Required[0].FacilityIdx)
}

func TestCompileDateConstraintUnknownFacility(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		DateConstraints: []entity.DateConstraint{
			{FacilityID: "UNKNOWN", Date: "2024-12-03"},
		},
	}
	_, _, result := Compile(cat, hz, 0, pc)

	assert.False(t, result.IsValid())
	assert.Equal(t, "UNKNOWN_FACILITY", result.Errors()[0].Code)
}

func TestCompileDateConstraintNonHorizonDate(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		DateConstraints: []entity.DateConstraint{
			{FacilityID: "F1", Date: "2099-01-01"},
		},
	}
	_, _, result := Compile(cat, hz, 0, pc)

	assert.False(t, result.IsValid())
	assert.Equal(t, "NON_HORIZON_DATE", result.Errors()[0].Code)
}

func TestCompileDateConstraintNotAssigned(t *testing.T) {
	_, hz := testCatalog()
	// provider only assigned to F1/F2; add a facility not assigned to P1
	cat2 := entity.NewCatalog("adult-primary-care", []entity.ProviderID{"P1"}, []entity.FacilityID{"F1", "F3"})
	_ = cat2.AddAssignment("P1", "F1")

	pc := entity.ProviderConstraints{
		DateConstraints: []entity.DateConstraint{
			{FacilityID: "F3", Date: "2024-12-03"},
		},
	}
	_, _, result := Compile(cat2, hz, 0, pc)

	assert.False(t, result.IsValid())
	assert.Equal(t, "NOT_ASSIGNED", result.Errors()[0].Code)
}

func TestCompileDayOfWeekConstraintForbidsOtherWeekdays(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		DayOfWeekConstraints: []entity.DayOfWeekConstraint{
			{FacilityID: "F1", Weekday: "Monday"},
		},
	}
	compiled, _, result := Compile(cat, hz, 0, pc)

	assert.True(t, result.IsValid())
	for i := 0; i < hz.Len(); i++ {
		if hz.Weekday(i) != time.Monday {
			found := false
			for _, fv := range compiled.Forbidden {
				if fv.DayIdx == i && fv.FacilityIdx == 0 {
					found = true
				}
			}
			assert.True(t, found, "expected day %d to be forbidden", i)
		}
	}
}

func TestCompileDayOfWeekConstraintInvalidWeekdayName(t *testing.T) {
	cat, hz := testCatalog()

	pc := entity.ProviderConstraints{
		DayOfWeekConstraints: []entity.DayOfWeekConstraint{
			{FacilityID: "F1", Weekday: "Funday"},
		},
	}
	_, _, result := Compile(cat, hz, 0, pc)

	assert.False(t, result.IsValid())
	assert.Equal(t, "INVALID_WEEKDAY", result.Errors()[0].Code)
}
