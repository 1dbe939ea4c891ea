package matching

import "strings"

const (
	troubleConnectingReply = "I'm having a little trouble connecting right now, but here are some of our available doctors you can browse in the meantime. Please try again in a moment."
	noActiveDoctorsReply   = "No active doctors available on the platform right now. Please check back soon, or browse the health feed for articles from our community."
)

// genericNavigationTips are the platform pointers used whenever no concrete
// doctor recommendation is available.
func genericNavigationTips() []string {
	return []string{
		"Browse all available doctors from the Find Doctors page.",
		"You can book an appointment directly from any doctor's profile.",
		"Visit the health feed to read posts and tips from our doctors.",
		"To join MediConnect as a doctor, open the Doctor Application form from your profile menu.",
	}
}

// fallbackResponse is the safety net for transport failures, non-2xx
// statuses and parsing dead-ends: a reassuring reply, the unchanged input
// context, and a small unfiltered slice of the catalogue. The failure
// reason lives only in the diagnostic field and is never shown to the
// patient.
func fallbackResponse(ctx PatientContext, cat catalogue, reason string) ChatResponse {
	safetyNet := headOf(suggestionsOf(cat.broad), MaxFallbackDoctors)
	return ChatResponse{
		Reply:               troubleConnectingReply,
		Context:             ctx,
		RecommendedDoctors:  safetyNet,
		FollowUpQuestions:   []string{},
		InformationComplete: len(safetyNet) > 0,
		NavigationTips:      genericNavigationTips(),
		RawModelContent:     reason,
	}
}

// noDoctorsResponse short-circuits the whole turn when the directory
// snapshot is empty. No LLM call is attempted.
func noDoctorsResponse(ctx PatientContext) ChatResponse {
	return ChatResponse{
		Reply:              noActiveDoctorsReply,
		Context:            ctx,
		RecommendedDoctors: []DoctorSuggestion{},
		FollowUpQuestions:  []string{},
		NavigationTips:     genericNavigationTips(),
	}
}

// appendDimensionGuidance adds targeted tips when a FIND_DOCTOR turn found
// nothing along a dimension the patient actually specified. Unspecified
// dimensions never generate noise.
func appendDimensionGuidance(resp *ChatResponse, ctx PatientContext, cat catalogue, intent Intent) {
	if intent != IntentFindDoctor || len(cat.broad) == 0 {
		return
	}

	var tips []string
	if !isBlank(ctx.PreferredSpecialization) && cat.maxima.specialization == 0 {
		tips = append(tips, "No doctors matched your preferred specialization yet, so we're showing the closest matches instead.")
	}
	if !isBlank(ctx.InsuranceProvider) && cat.maxima.insurance == 0 {
		tips = append(tips, "None of the listed doctors accept "+strings.TrimSpace(ctx.InsuranceProvider)+" yet. You can still book and pay the consultation fee directly.")
	}
	locationSpecified := !isBlank(ctx.City) || !isBlank(ctx.State) || !isBlank(ctx.Country)
	if locationSpecified && cat.maxima.location == 0 {
		tips = append(tips, "No doctors matched your location yet. Consider an online consultation with a doctor elsewhere.")
	}

	for _, tip := range tips {
		if !containsFold(resp.NavigationTips, tip) {
			resp.NavigationTips = append(resp.NavigationTips, tip)
		}
	}
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
