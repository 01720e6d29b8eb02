// Package bootstrap holds the startup-time wiring shared by cmd/server
// and cmd/worker: loading the flat-file catalog inputs named by
// environment variables into a shared CatalogStore.
package bootstrap

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/carepath/fieldsched/internal/catalogio"
	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/store"
)

// LoadCatalogFromEnv loads CATALOG_ASSIGNMENTS_PATH/CATALOG_CENSUS_PATH/
// CATALOG_HOME_TRAVEL_PATH/CATALOG_FACILITY_TRAVEL_PATH/
// CATALOG_UNAVAILABLE_PATH into catalogStore, one entity.Catalog per
// business line present in the assignment table, plus two optional
// inputs: CATALOG_TIGHTER_ASSIGNMENTS_PATH (a second, stricter
// assignments table intersected in via
// entity.Catalog.FilterAssignments, per spec §4.1) and
// CATALOG_PROVIDER_EMAILS_PATH (addresses for internal/notify's
// schedule-ready emails). Absent CATALOG_ASSIGNMENTS_PATH, the store
// is left empty and every solve request 400s with
// UNKNOWN_BUSINESS_LINE until an operator provisions one.
func LoadCatalogFromEnv(catalogStore *store.CatalogStore, log zerolog.Logger) {
	assignmentsPath := os.Getenv("CATALOG_ASSIGNMENTS_PATH")
	if assignmentsPath == "" {
		log.Warn().Msg("CATALOG_ASSIGNMENTS_PATH not set, starting with an empty catalog store")
		return
	}

	assignments, err := readAssignments(assignmentsPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load assignment table")
		return
	}
	census, err := readCensus(os.Getenv("CATALOG_CENSUS_PATH"))
	if err != nil {
		log.Error().Err(err).Msg("failed to load census table")
		return
	}
	homeTravel, err := readTravel(os.Getenv("CATALOG_HOME_TRAVEL_PATH"))
	if err != nil {
		log.Error().Err(err).Msg("failed to load home-travel matrix")
		return
	}
	facilityTravel, err := readTravel(os.Getenv("CATALOG_FACILITY_TRAVEL_PATH"))
	if err != nil {
		log.Error().Err(err).Msg("failed to load facility-travel matrix")
		return
	}
	unavailable, err := readUnavailable(os.Getenv("CATALOG_UNAVAILABLE_PATH"))
	if err != nil {
		log.Error().Err(err).Msg("failed to load unavailable-dates file")
		return
	}
	unavailIndex := catalogio.BuildUnavailableIndex(unavailable)

	tighter, err := readTighterAssignments(os.Getenv("CATALOG_TIGHTER_ASSIGNMENTS_PATH"))
	if err != nil {
		log.Error().Err(err).Msg("failed to load tighter-assignments table")
		return
	}

	providerEmails, err := readProviderEmails(os.Getenv("CATALOG_PROVIDER_EMAILS_PATH"))
	if err != nil {
		log.Error().Err(err).Msg("failed to load provider-emails file")
		return
	}
	emailIndex := catalogio.BuildProviderEmailIndex(providerEmails)

	businessLines := map[string]bool{}
	for _, a := range assignments {
		businessLines[a.BusinessLine] = true
	}
	for bl := range businessLines {
		cat, err := catalogio.BuildCatalog(bl, assignments, census, homeTravel, facilityTravel)
		if err != nil {
			log.Error().Err(err).Str("business_line", bl).Msg("failed to build catalog")
			continue
		}
		if blTighter := tighterFor(tighter, bl); len(blTighter) > 0 {
			cat.FilterAssignments(blTighter)
		}
		catalogStore.Put(cat, unavailIndex)
		catalogStore.PutProviderEmails(bl, emailIndex)
		log.Info().Str("business_line", bl).Int("providers", cat.NumProviders()).
			Int("facilities", cat.NumFacilities()).Msg("catalog loaded")
	}
}

// tighterFor builds the (provider, facility) set for one business
// line's tighter-assignments table, per spec §4.1's additional
// assignments-table rule (entity.Catalog.FilterAssignments).
func tighterFor(rows []entity.AssignmentRow, businessLine string) map[[2]entity.ProviderID]bool {
	if len(rows) == 0 {
		return nil
	}
	out := make(map[[2]entity.ProviderID]bool)
	for _, r := range rows {
		if r.BusinessLine != businessLine {
			continue
		}
		out[[2]entity.ProviderID{r.ProviderID, r.FacilityID}] = true
	}
	return out
}

func readAssignments(path string) ([]entity.AssignmentRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalogio.ParseAssignments(f)
}

func readCensus(path string) ([]entity.CensusRow, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalogio.ParseCensus(f)
}

func readTravel(path string) ([]entity.TravelCell, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalogio.ParseTravelMatrix(f)
}

func readUnavailable(path string) ([]catalogio.UnavailableDate, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalogio.ParseUnavailableDates(f)
}

// readTighterAssignments loads the optional second, tighter assignments
// table named by CATALOG_TIGHTER_ASSIGNMENTS_PATH (same "Business Line,
// provider id, facility id" shape as the primary assignment table), per
// spec §4.1.
func readTighterAssignments(path string) ([]entity.AssignmentRow, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalogio.ParseAssignments(f)
}

func readProviderEmails(path string) ([]catalogio.ProviderEmail, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalogio.ParseProviderEmails(f)
}
