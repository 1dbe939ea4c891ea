package matching

import (
	"regexp"
	"strings"
)

// Intent is the coarse classification of the latest patient message. It
// decides whether the doctor-matching pipeline runs at all for this turn.
type Intent string

const (
	IntentGeneral        Intent = "general"
	IntentGreetingOnly   Intent = "greeting_only"
	IntentNavigationOnly Intent = "navigation_only"
	IntentFindDoctor     Intent = "find_doctor"
)

// greetingOnlyRE matches messages that are nothing but a salutation.
var greetingOnlyRE = regexp.MustCompile(`^\s*(hi|hello|hey|good\s+(morning|afternoon|evening))\s*[!.?]*\s*$`)

var navigationPhrases = []string{
	"become a doctor",
	"apply as a doctor",
	"register as a doctor",
	"doctor application",
	"join as a doctor",
}

var doctorSeekingPhrases = []string{
	"find a doctor",
	"need a doctor",
	"recommend a doctor",
	"looking for a doctor",
	"find me a doctor",
	"see a doctor",
	"book a doctor",
}

// classifyIntent inspects the most recent user message only. Assistant and
// system turns never influence the classification.
func classifyIntent(messages []ChatMessage) Intent {
	var latest string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ChatRoleUser {
			latest = messages[i].Content
			break
		}
	}
	if isBlank(latest) {
		return IntentGeneral
	}

	lower := strings.ToLower(strings.TrimSpace(latest))
	if greetingOnlyRE.MatchString(lower) {
		return IntentGreetingOnly
	}
	for _, phrase := range navigationPhrases {
		if strings.Contains(lower, phrase) {
			return IntentNavigationOnly
		}
	}
	for _, phrase := range doctorSeekingPhrases {
		if strings.Contains(lower, phrase) {
			return IntentFindDoctor
		}
	}
	return IntentGeneral
}

// resetMatchingFields clears the fields that drive doctor matching. Applied
// when the patient greets or asks about the platform itself: the
// conversation is assumed to be starting a new topic.
func resetMatchingFields(ctx *PatientContext) {
	ctx.InsuranceProvider = ""
	ctx.PreferredSpecialization = ""
	ctx.City = ""
	ctx.State = ""
	ctx.Country = ""
	ctx.AppointmentPreference = ""
}

// ResetsContext reports whether this intent wipes the matching fields
// before scoring.
func (i Intent) ResetsContext() bool {
	return i == IntentGreetingOnly || i == IntentNavigationOnly
}
