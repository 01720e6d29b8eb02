package catalogio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	csv := "business_line,provider_id,facility_id\nadult-primary-care,P1,F1\nadult-primary-care,P1,F2\n"

	rows, err := ParseAssignments(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "P1", rows[0].ProviderID)
	assert.Equal(t, "F2", rows[1].FacilityID)
}

func TestParseAssignmentsMalformedRow(t *testing.T) {
	csv := "business_line,provider_id,facility_id\nadult-primary-care,P1\n"

	_, err := ParseAssignments(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParseCensusTreatsEmptyCellAsZero(t *testing.T) {
	csv := "business_line,provider_id,facility_id,2024-11,2024-12\nadult-primary-care,P1,F1,,10\n"

	rows, err := ParseCensus(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	_, hasNov := rows[0].MonthCounts["2024-11"]
	assert.False(t, hasNov)
	assert.Equal(t, 10, rows[0].MonthCounts["2024-12"])
}

func TestParseCensusRejectsNegativeCount(t *testing.T) {
	csv := "business_line,provider_id,facility_id,2024-12\nadult-primary-care,P1,F1,-5\n"

	_, err := ParseCensus(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParseCensusRejectsNonNumeric(t *testing.T) {
	csv := "business_line,provider_id,facility_id,2024-12\nadult-primary-care,P1,F1,abc\n"

	_, err := ParseCensus(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParseTravelMatrix(t *testing.T) {
	csv := "id,F1,F2\nF1,0,0.2\nF2,0.3,0\n"

	cells, err := ParseTravelMatrix(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, cells, 4)
}

func TestParseTravelMatrixSkipsEmptyCells(t *testing.T) {
	csv := "id,F1,F2\nF1,,0.2\n"

	cells, err := ParseTravelMatrix(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, "F2", cells[0].To)
}

func TestParseUnavailableDates(t *testing.T) {
	csv := "provider_id,date\nP1,2024-12-03\nP1,2024-12-04\n"

	dates, err := ParseUnavailableDates(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, dates, 2)

	idx := BuildUnavailableIndex(dates)
	assert.Equal(t, []string{"2024-12-03", "2024-12-04"}, idx["P1"])
}

func TestParseProviderEmails(t *testing.T) {
	csv := "provider_id,email\nP1,p1@example.com\nP2,p2@example.com\n"

	rows, err := ParseProviderEmails(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	idx := BuildProviderEmailIndex(rows)
	assert.Equal(t, "p1@example.com", idx["P1"])
	assert.Equal(t, "p2@example.com", idx["P2"])
}

func TestParseProviderEmailsMalformedRow(t *testing.T) {
	csv := "provider_id,email\nP1\n"

	_, err := ParseProviderEmails(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestBuildCatalogFiltersByBusinessLine(t *testing.T) {
	rows, err := ParseAssignments(strings.NewReader(
		"bl,pid,fid\nadult-primary-care,P1,F1\npediatrics,P2,F2\n",
	))
	require.NoError(t, err)

	homeTravel, err := ParseTravelMatrix(strings.NewReader("id,F1\nF1,0\n"))
	require.NoError(t, err)
	facTravel, err := ParseTravelMatrix(strings.NewReader("id,F1\nF1,0\n"))
	require.NoError(t, err)

	cat, err := BuildCatalog("adult-primary-care", rows, nil, homeTravel, facTravel)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.NumProviders())
	assert.Equal(t, 1, cat.NumFacilities())
}

func TestBuildCatalogEmptyAfterFilterErrors(t *testing.T) {
	rows, _ := ParseAssignments(strings.NewReader("bl,pid,fid\npediatrics,P2,F2\n"))

	_, err := BuildCatalog("adult-primary-care", rows, nil, nil, nil)
	assert.Error(t, err)
}

func TestBuildCatalogMissingTravelTableErrors(t *testing.T) {
	rows, _ := ParseAssignments(strings.NewReader("bl,pid,fid\nadult-primary-care,P1,F1\n"))

	_, err := BuildCatalog("adult-primary-care", rows, nil, nil, nil)
	assert.Error(t, err)
}
