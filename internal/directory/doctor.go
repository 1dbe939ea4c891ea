package directory

import "context"

// Account statuses a doctor profile can be in. Only active, unflagged
// profiles are ever surfaced to patients.
const (
	AccountStatusActive    = "ACTIVE"
	AccountStatusPending   = "PENDING"
	AccountStatusSuspended = "SUSPENDED"
)

// Canonical specialization codes used across the platform.
const (
	SpecCardiology      = "CARDIOLOGY"
	SpecDermatology     = "DERMATOLOGY"
	SpecNeurology       = "NEUROLOGY"
	SpecPediatrics      = "PEDIATRICS"
	SpecOrthopedics     = "ORTHOPEDICS"
	SpecPsychiatry      = "PSYCHIATRY"
	SpecGynecology      = "GYNECOLOGY"
	SpecOncology        = "ONCOLOGY"
	SpecOphthalmology   = "OPHTHALMOLOGY"
	SpecDentistry       = "DENTISTRY"
	SpecGastro          = "GASTROENTEROLOGY"
	SpecPulmonology     = "PULMONOLOGY"
	SpecUrology         = "UROLOGY"
	SpecEndocrinology   = "ENDOCRINOLOGY"
	SpecGeneralMedicine = "GENERAL_MEDICINE"
)

// Doctor is a read-only snapshot of a provider profile as the matching
// engine sees it. The engine must never mutate these entries.
type Doctor struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Country           string   `json:"country"`
	ConsultationFee   float64  `json:"consultationFee"`
	Bio               string   `json:"bio"`
	ProfilePicture    string   `json:"profilePicture"`
	Specializations   []string `json:"specializations"`
	InsuranceAccepted []string `json:"insuranceAccepted"`
	AccountStatus     string   `json:"accountStatus"`
	AdminFlagged      bool     `json:"adminFlagged"`
}

// Eligible reports whether the doctor may be shown to patients.
func (d Doctor) Eligible() bool {
	return d.AccountStatus == AccountStatusActive && !d.AdminFlagged
}

// Reader provides a point-in-time snapshot of active doctors. An empty
// slice is a valid result, not an error.
type Reader interface {
	ListActiveDoctors(ctx context.Context) ([]Doctor, error)
}
