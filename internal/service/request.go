package service

import "encoding/json"

// SolveRequest is the wire shape of a single-provider solve request, per
// spec §6. Field validation is enforced by go-playground/validator
// struct tags; defaulting (weeks, max_patients_per_day, the lambda
// weights, facility_visit_window) happens in ApplyDefaults rather than
// in the validator, since validator only checks presence. Alpha is
// defaulted in UnmarshalJSON instead, so an explicit alpha of 0 is kept.
type SolveRequest struct {
	BusinessLine        string                    `json:"business_line" validate:"required"`
	StartMonday         string                    `json:"start_monday" validate:"required,datetime=2006-01-02"`
	SelectedProvider    string                    `json:"selected_provider" validate:"required"`
	Weeks               int                       `json:"weeks" validate:"omitempty,oneof=4 5"`
	MaxPatientsPerDay    int                      `json:"max_patients_per_day" validate:"omitempty,min=1"`
	Alpha                float64                  `json:"alpha" validate:"omitempty,min=0"`
	LambdaParam          float64                  `json:"lambda_param"`
	LambdaFacility       float64                  `json:"lambda_facility"`
	LambdaBunching        float64                 `json:"lambda_bunching"`
	FacilityVisitWindow   int                      `json:"facility_visit_window" validate:"omitempty,min=1"`
	ProviderConstraints  ProviderConstraintsDTO    `json:"provider_constraints"`

	// Month selects the census column ("YYYY-MM"); derived from
	// StartMonday by ApplyDefaults when left blank.
	Month string `json:"month"`
}

// ProviderConstraintsDTO mirrors entity.ProviderConstraints on the wire.
type ProviderConstraintsDTO struct {
	PTORequests          []PTORequestDTO          `json:"ptoRequests"`
	WeeklyAvailability   []WeeklyAvailabilityDTO  `json:"weeklyAvailability"`
	DateConstraints      []DateConstraintDTO      `json:"dateConstraints"`
	DayOfWeekConstraints []DayOfWeekConstraintDTO `json:"dayOfWeekConstraints"`
}

type PTORequestDTO struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

type WeeklyAvailabilityDTO struct {
	Day       string `json:"day" validate:"required"`
	IsWorking bool   `json:"isWorking"`
}

type DateConstraintDTO struct {
	FacilityID string `json:"facilityId" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
}

type DayOfWeekConstraintDTO struct {
	FacilityID string `json:"facilityId" validate:"required"`
	Day        string `json:"day" validate:"required"`
}

// UnmarshalJSON decodes a request body with Alpha pre-set to its 0.05
// default, so an absent "alpha" key gets the default while an explicit
// "alpha": 0 stays zero.
func (r *SolveRequest) UnmarshalJSON(data []byte) error {
	type plain SolveRequest
	p := plain{Alpha: 0.05}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = SolveRequest(p)
	return nil
}

// ApplyDefaults fills in the zero-valued optional fields per spec §6's
// stated defaults, and derives Month from StartMonday when unset. Alpha
// is left as given (see UnmarshalJSON).
func (r *SolveRequest) ApplyDefaults() {
	if r.Weeks == 0 {
		r.Weeks = 4
	}
	if r.MaxPatientsPerDay == 0 {
		r.MaxPatientsPerDay = 15
	}
	if r.LambdaFacility == 0 {
		r.LambdaFacility = 0.1
	}
	if r.LambdaBunching == 0 {
		r.LambdaBunching = 0.1
	}
	if r.FacilityVisitWindow == 0 {
		r.FacilityVisitWindow = 10
	}
	if r.Month == "" && len(r.StartMonday) >= 7 {
		r.Month = r.StartMonday[:7]
	}
}
