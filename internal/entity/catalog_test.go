package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCatalog() *Catalog {
	cat := NewCatalog("adult-primary-care", []ProviderID{"P1", "P2"}, []FacilityID{"F1", "F2"})
	_ = cat.AddAssignment("P1", "F1")
	_ = cat.AddAssignment("P1", "F2")
	cat.SetHomeTravel("P1", "F1", 0.5)
	cat.SetHomeTravel("P1", "F2", 0.75)
	cat.SetFacilityTravel("F1", "F2", 0.2)
	cat.SetFacilityTravel("F2", "F1", 0.3)
	_ = cat.SetCensus("P1", "F1", "2024-12", 10)
	return cat
}

func TestCatalogIndicesAreStableAndZeroBased(t *testing.T) {
	cat := newTestCatalog()

	p1, ok := cat.ProviderIndex("P1")
	assert.True(t, ok)
	assert.Equal(t, 0, p1)

	f2, ok := cat.FacilityIndex("F2")
	assert.True(t, ok)
	assert.Equal(t, 1, f2)
}

func TestIdempotentRelabeling(t *testing.T) {
	cat := newTestCatalog()

	for _, p := range cat.Providers {
		idx, ok := cat.ProviderIndex(p.ID)
		assert.True(t, ok)
		assert.Equal(t, p.Index, idx)
	}
	for _, f := range cat.Facilities {
		idx, ok := cat.FacilityIndex(f.ID)
		assert.True(t, ok)
		assert.Equal(t, f.Index, idx)
	}
}

func TestIsAssignedRespectsAssignmentTable(t *testing.T) {
	cat := newTestCatalog()

	p1, _ := cat.ProviderIndex("P1")
	p2, _ := cat.ProviderIndex("P2")
	f1, _ := cat.FacilityIndex("F1")

	assert.True(t, cat.IsAssigned(p1, f1))
	assert.False(t, cat.IsAssigned(p2, f1))
}

func TestAddAssignmentUnknownIDs(t *testing.T) {
	cat := newTestCatalog()

	err := cat.AddAssignment("UNKNOWN", "F1")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	err = cat.AddAssignment("P1", "UNKNOWN")
	assert.ErrorIs(t, err, ErrUnknownFacility)
}

func TestCensusForReturnsZeroWhenAbsent(t *testing.T) {
	cat := newTestCatalog()

	p1, _ := cat.ProviderIndex("P1")
	f1, _ := cat.FacilityIndex("F1")
	f2, _ := cat.FacilityIndex("F2")

	assert.Equal(t, 10, cat.CensusFor(p1, f1, "2024-12"))
	assert.Equal(t, 0, cat.CensusFor(p1, f2, "2024-12"))
	assert.Equal(t, 0, cat.CensusFor(p1, f1, "2025-01"))
}

func TestTravelLookupsDefaultToZero(t *testing.T) {
	cat := newTestCatalog()
	p1, _ := cat.ProviderIndex("P1")

	assert.Equal(t, 0.5, cat.HomeTravel(p1, 0))
	assert.Equal(t, 0.0, cat.HomeTravel(99, 0))
	assert.Equal(t, 0.2, cat.FacilityTravel(0, 1))
	assert.Equal(t, 0.3, cat.FacilityTravel(1, 0))
}

func TestFilterAssignmentsIntersects(t *testing.T) {
	cat := newTestCatalog()

	cat.FilterAssignments(map[[2]ProviderID]bool{
		{"P1", "F1"}: true,
	})

	p1, _ := cat.ProviderIndex("P1")
	f1, _ := cat.FacilityIndex("F1")
	f2, _ := cat.FacilityIndex("F2")

	assert.True(t, cat.IsAssigned(p1, f1))
	assert.False(t, cat.IsAssigned(p1, f2))
}
