// Package catalogio parses the tabular flat files of spec §6 into the
// entity package's already-parsed row types, grounded in the stdlib
// flat-file-parsing precedent the teacher itself uses for its own ODS
// import (archive/zip + encoding/xml) — no library in the retrieved
// corpus offers a CSV reader beyond the standard library's own.
package catalogio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/carepath/fieldsched/internal/entity"
)

// ParseAssignments reads the "Business Line, provider id, facility id"
// assignment table.
func ParseAssignments(r io.Reader) ([]entity.AssignmentRow, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parsing assignment table: %w", err)
	}
	header, body := rows[0], rows[1:]
	biCol, pCol, fCol := 0, 1, 2
	_ = header

	out := make([]entity.AssignmentRow, 0, len(body))
	for i, row := range body {
		if len(row) < 3 {
			return nil, fmt.Errorf("assignment table row %d: expected 3 columns, got %d", i+2, len(row))
		}
		out = append(out, entity.AssignmentRow{
			BusinessLine: row[biCol],
			ProviderID:   row[pCol],
			FacilityID:   row[fCol],
		})
	}
	return out, nil
}

// ParseCensus reads the census table: "Business Line, provider id,
// facility id" plus one "YYYY-MM" column per month.
func ParseCensus(r io.Reader) ([]entity.CensusRow, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parsing census table: %w", err)
	}
	header, body := rows[0], rows[1:]
	if len(header) < 4 {
		return nil, fmt.Errorf("census table header has fewer than 4 columns")
	}
	months := header[3:]

	out := make([]entity.CensusRow, 0, len(body))
	for i, row := range body {
		if len(row) < 4 {
			return nil, fmt.Errorf("census table row %d: expected at least 4 columns, got %d", i+2, len(row))
		}
		counts := make(map[string]int, len(months))
		for j, month := range months {
			col := 3 + j
			if col >= len(row) || row[col] == "" {
				continue
			}
			n, err := strconv.Atoi(row[col])
			if err != nil {
				return nil, fmt.Errorf("census table row %d, month %s: %w", i+2, month, err)
			}
			if n < 0 {
				return nil, fmt.Errorf("census table row %d, month %s: negative patient count %d", i+2, month, n)
			}
			counts[month] = n
		}
		out = append(out, entity.CensusRow{
			BusinessLine: row[0],
			ProviderID:   row[1],
			FacilityID:   row[2],
			MonthCounts:  counts,
		})
	}
	return out, nil
}

// ParseTravelMatrix reads a square-ish travel-time matrix: first
// column is the row id, remaining headers are target ids, cell values
// are hours, empty cells mean "unknown" (treated as 0 by the caller).
func ParseTravelMatrix(r io.Reader) ([]entity.TravelCell, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parsing travel matrix: %w", err)
	}
	header, body := rows[0], rows[1:]
	targets := header[1:]

	var out []entity.TravelCell
	for i, row := range body {
		if len(row) < 1 {
			continue
		}
		from := row[0]
		for j, to := range targets {
			col := 1 + j
			if col >= len(row) || row[col] == "" {
				continue
			}
			hours, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, fmt.Errorf("travel matrix row %d, column %s: %w", i+2, to, err)
			}
			out = append(out, entity.TravelCell{From: from, To: to, Hours: hours})
		}
	}
	return out, nil
}

// UnavailableDate is one row of the unavailable-dates file.
type UnavailableDate struct {
	ProviderID string
	Date       string
}

// ParseUnavailableDates reads the "provider id, Date" file.
func ParseUnavailableDates(r io.Reader) ([]UnavailableDate, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parsing unavailable-dates file: %w", err)
	}
	_, body := rows[0], rows[1:]

	out := make([]UnavailableDate, 0, len(body))
	for i, row := range body {
		if len(row) < 2 {
			return nil, fmt.Errorf("unavailable-dates row %d: expected 2 columns, got %d", i+2, len(row))
		}
		out = append(out, UnavailableDate{ProviderID: row[0], Date: row[1]})
	}
	return out, nil
}

// ProviderEmail is one row of the optional provider-notification-email
// file.
type ProviderEmail struct {
	ProviderID string
	Email      string
}

// ParseProviderEmails reads the "provider id, email" file used to
// address schedule-ready notifications (internal/notify).
func ParseProviderEmails(r io.Reader) ([]ProviderEmail, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parsing provider-emails file: %w", err)
	}
	_, body := rows[0], rows[1:]

	out := make([]ProviderEmail, 0, len(body))
	for i, row := range body {
		if len(row) < 2 {
			return nil, fmt.Errorf("provider-emails row %d: expected 2 columns, got %d", i+2, len(row))
		}
		out = append(out, ProviderEmail{ProviderID: row[0], Email: row[1]})
	}
	return out, nil
}

// BuildProviderEmailIndex groups provider-emails rows by provider id.
func BuildProviderEmailIndex(rows []ProviderEmail) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.ProviderID] = r.Email
	}
	return out
}

// BuildUnavailableIndex groups unavailable-dates rows by provider id,
// for lookup by internal/service before compiling a provider's
// constraints.
func BuildUnavailableIndex(dates []UnavailableDate) map[string][]string {
	out := make(map[string][]string)
	for _, d := range dates {
		out[d.ProviderID] = append(out[d.ProviderID], d.Date)
	}
	return out
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table")
	}
	return rows, nil
}

// BuildCatalog assembles an entity.Catalog from already-parsed rows,
// filtered to one business line, per spec §1/§4.1 (distance-matrix and
// flat-file ingestion is this collaborator's job; the core entity
// package never parses a file itself).
func BuildCatalog(businessLine string, assignments []entity.AssignmentRow, census []entity.CensusRow, homeTravel, facilityTravel []entity.TravelCell) (*entity.Catalog, error) {
	providerSet := make(map[string]bool)
	facilitySet := make(map[string]bool)
	var filtered []entity.AssignmentRow
	for _, a := range assignments {
		if a.BusinessLine != businessLine {
			continue
		}
		providerSet[a.ProviderID] = true
		facilitySet[a.FacilityID] = true
		filtered = append(filtered, a)
	}
	if len(filtered) == 0 {
		return nil, entity.ErrEmptyCatalog
	}

	providerIDs := sortedKeys(providerSet)
	facilityIDs := sortedKeys(facilitySet)

	cat := entity.NewCatalog(businessLine, providerIDs, facilityIDs)
	for _, a := range filtered {
		if err := cat.AddAssignment(a.ProviderID, a.FacilityID); err != nil {
			return nil, err
		}
	}
	for _, c := range census {
		if c.BusinessLine != businessLine {
			continue
		}
		if _, ok := cat.ProviderIndex(c.ProviderID); !ok {
			continue
		}
		if _, ok := cat.FacilityIndex(c.FacilityID); !ok {
			continue
		}
		for month, n := range c.MonthCounts {
			if err := cat.SetCensus(c.ProviderID, c.FacilityID, month, n); err != nil {
				return nil, err
			}
		}
	}
	if len(homeTravel) == 0 || len(facilityTravel) == 0 {
		return nil, entity.ErrMissingTravelTable
	}
	for _, cell := range homeTravel {
		cat.SetHomeTravel(cell.From, cell.To, cell.Hours)
	}
	for _, cell := range facilityTravel {
		cat.SetFacilityTravel(cell.From, cell.To, cell.Hours)
	}
	return cat, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
