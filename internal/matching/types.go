package matching

import (
	"strings"

	"github.com/IbrahimToubeh/MediConnect-sub000/internal/directory"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// Engine-wide limits. Kept as named values so ranking behavior stays
// tunable and testable instead of relying on inline magic numbers.
const (
	// MaxDoctorsSharedWithModel caps the catalogue embedded in the prompt.
	MaxDoctorsSharedWithModel = 12
	// MaxRecommendedDoctors caps the final recommendation list.
	MaxRecommendedDoctors = 4
	// MaxHistoryMessages caps the conversation history forwarded to the model.
	MaxHistoryMessages = 18
	// MaxFallbackDoctors caps the safety-net list returned when the model is unreachable.
	MaxFallbackDoctors = 3
	// maxParseFailureDoctors caps the list surfaced when the model replied with non-JSON.
	maxParseFailureDoctors = 2
	// maxExtractedCityLength rejects absurdly long "in <city>" captures.
	maxExtractedCityLength = 50

	llmTemperature = 0.2
)

// ChatMessage is one turn of the patient conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// normalizeRole coerces unknown roles to user before anything is sent onward.
func normalizeRole(role string) string {
	switch role {
	case ChatRoleUser, ChatRoleAssistant, ChatRoleSystem:
		return role
	default:
		return ChatRoleUser
	}
}

// PatientContext accumulates structured facts about the patient's situation
// across conversation turns. The caller owns it: it round-trips through every
// chat call and the engine keeps no server-side copy. All fields are optional
// free-text strings; a non-blank field is never silently blanked by a merge.
type PatientContext struct {
	AgeRange                string `json:"ageRange,omitempty"`
	PrimaryConcern          string `json:"primaryConcern,omitempty"`
	SymptomDuration         string `json:"symptomDuration,omitempty"`
	SymptomSeverity         string `json:"symptomSeverity,omitempty"`
	AdditionalSymptoms      string `json:"additionalSymptoms,omitempty"`
	MedicalHistory          string `json:"medicalHistory,omitempty"`
	Medications             string `json:"medications,omitempty"`
	Allergies               string `json:"allergies,omitempty"`
	PreferredDoctorGender   string `json:"preferredDoctorGender,omitempty"`
	PreferredLanguage       string `json:"preferredLanguage,omitempty"`
	InsuranceProvider       string `json:"insuranceProvider,omitempty"`
	City                    string `json:"city,omitempty"`
	State                   string `json:"state,omitempty"`
	Country                 string `json:"country,omitempty"`
	PostalCode              string `json:"postalCode,omitempty"`
	PreferredSpecialization string `json:"preferredSpecialization,omitempty"`
	AppointmentPreference   string `json:"appointmentPreference,omitempty"`
}

// DoctorSuggestion is the projection of a directory entry that crosses the
// trust boundary to the LLM and back. The model may only pick suggestions by
// id from the ids it was shown; it never supplies doctor attributes itself.
type DoctorSuggestion struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Country           string   `json:"country"`
	ConsultationFee   float64  `json:"consultationFee"`
	Bio               string   `json:"bio"`
	ProfilePicture    string   `json:"profilePicture,omitempty"`
	Specializations   []string `json:"specializations"`
	InsuranceAccepted []string `json:"insuranceAccepted"`
	MatchScore        float64  `json:"matchScore"`
}

func suggestionFromDoctor(d directory.Doctor, score float64) DoctorSuggestion {
	specs := make([]string, len(d.Specializations))
	copy(specs, d.Specializations)
	insurance := make([]string, len(d.InsuranceAccepted))
	copy(insurance, d.InsuranceAccepted)
	return DoctorSuggestion{
		ID:                d.ID,
		Name:              d.Name,
		City:              d.City,
		State:             d.State,
		Country:           d.Country,
		ConsultationFee:   d.ConsultationFee,
		Bio:               d.Bio,
		ProfilePicture:    d.ProfilePicture,
		Specializations:   specs,
		InsuranceAccepted: insurance,
		MatchScore:        score,
	}
}

// ChatResponse is the engine's answer for one turn. Every list field is
// non-nil and RecommendedDoctors never exceeds MaxRecommendedDoctors.
type ChatResponse struct {
	Reply               string             `json:"reply"`
	Context             PatientContext     `json:"context"`
	RecommendedDoctors  []DoctorSuggestion `json:"recommendedDoctors"`
	FollowUpQuestions   []string           `json:"followUpQuestions"`
	InformationComplete bool               `json:"informationComplete"`
	NavigationTips      []string           `json:"navigationTips"`
	// RawModelContent carries the raw model payload or a failure reason for
	// diagnostics. Callers never need it.
	RawModelContent string `json:"rawModelContent,omitempty"`
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
