package matching

import (
	"encoding/json"
	"strings"
)

// modelPayload is the shape the model is instructed to reply with. IDs go
// through json.Number so integral floats like 3.0 still resolve.
type modelPayload struct {
	Reply                string         `json:"reply"`
	Context              PatientContext `json:"context"`
	RecommendedDoctorIDs []json.Number  `json:"recommendedDoctorIds"`
	FollowUpQuestions    []string       `json:"followUpQuestions"`
	InformationComplete  bool           `json:"informationComplete"`
	NavigationTips       []string       `json:"navigationTips"`
}

const misunderstoodReply = "I'm sorry, I couldn't quite understand that. Could you tell me a bit more about what you're looking for?"

// parseModelContent turns the model's raw message content into a
// ChatResponse. It never fails: malformed content degrades to a raw-text
// reply with a small slice of the catalogue as recommendations.
func parseModelContent(content string, prev PatientContext, cat catalogue, intent Intent) ChatResponse {
	content = strings.TrimSpace(content)
	if content == "" {
		resp := ChatResponse{
			Reply:              misunderstoodReply,
			Context:            prev,
			RecommendedDoctors: headOf(cat.prompt, maxParseFailureDoctors),
		}
		return finalize(resp, intent)
	}

	payload, ok := decodePayload(content)
	if !ok {
		// Not our schema: surface the model's text verbatim and keep the
		// context untouched.
		resp := ChatResponse{
			Reply:              content,
			Context:            prev,
			RecommendedDoctors: headOf(cat.prompt, maxParseFailureDoctors),
			RawModelContent:    content,
		}
		return finalize(resp, intent)
	}

	merged := MergeContexts(prev, payload.Context)
	recommended := resolveRecommendedIDs(payload.RecommendedDoctorIDs, cat.prompt)

	tips := payload.NavigationTips
	if len(recommended) == 0 && len(tips) == 0 {
		tips = genericNavigationTips()
	}

	resp := ChatResponse{
		Reply:               payload.Reply,
		Context:             merged,
		RecommendedDoctors:  recommended,
		FollowUpQuestions:   mergeFollowUps(payload.FollowUpQuestions, ruleFollowUps(merged)),
		InformationComplete: payload.InformationComplete,
		NavigationTips:      tips,
		RawModelContent:     content,
	}
	return finalize(resp, intent)
}

// decodePayload extracts the first {...} block from the content (models
// love wrapping JSON in fences or prose) and unmarshals it.
func decodePayload(content string) (modelPayload, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return modelPayload{}, false
	}
	var payload modelPayload
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return modelPayload{}, false
	}
	return payload, true
}

// resolveRecommendedIDs maps the model's chosen ids back onto the trusted
// catalogue. This is the trust boundary: only ids the model was shown
// resolve, catalogue order is preserved, and no doctor attribute from the
// model is ever used.
func resolveRecommendedIDs(ids []json.Number, shown []DoctorSuggestion) []DoctorSuggestion {
	requested := make(map[int64]struct{}, len(ids))
	for _, n := range ids {
		if id, err := n.Int64(); err == nil {
			requested[id] = struct{}{}
		} else if f, err := n.Float64(); err == nil {
			requested[int64(f)] = struct{}{}
		}
	}

	out := []DoctorSuggestion{}
	for _, s := range shown {
		if _, ok := requested[s.ID]; !ok {
			continue
		}
		out = append(out, s)
		if len(out) == MaxRecommendedDoctors {
			break
		}
	}
	return out
}

// ruleFollowUps derives the clarifying questions still worth asking, in
// fixed priority order, from whatever the merged context is missing.
func ruleFollowUps(ctx PatientContext) []string {
	var qs []string
	if isBlank(ctx.PrimaryConcern) {
		qs = append(qs, "What health concern would you like help with?")
	}
	if isBlank(ctx.InsuranceProvider) {
		qs = append(qs, "Which insurance provider do you have, if any?")
	}
	if isBlank(ctx.City) && isBlank(ctx.Country) {
		qs = append(qs, "Which city or country are you located in?")
	}
	if isBlank(ctx.PreferredSpecialization) {
		qs = append(qs, "Is there a particular type of specialist you'd like to see?")
	}
	if isBlank(ctx.AppointmentPreference) {
		qs = append(qs, "Would you prefer an online consultation or an in-person visit?")
	}
	return qs
}

// mergeFollowUps appends each rule question the model did not already ask,
// comparing case-insensitively.
func mergeFollowUps(fromModel, fromRules []string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, q := range fromModel {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	for _, q := range fromRules {
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

// finalize enforces the response invariants: non-nil lists, the
// recommendation cap, and no recommendations outside FIND_DOCTOR turns.
func finalize(resp ChatResponse, intent Intent) ChatResponse {
	if intent != IntentFindDoctor {
		resp.RecommendedDoctors = []DoctorSuggestion{}
		resp.InformationComplete = false
	}
	if resp.RecommendedDoctors == nil {
		resp.RecommendedDoctors = []DoctorSuggestion{}
	}
	if len(resp.RecommendedDoctors) > MaxRecommendedDoctors {
		resp.RecommendedDoctors = resp.RecommendedDoctors[:MaxRecommendedDoctors]
	}
	if resp.FollowUpQuestions == nil {
		resp.FollowUpQuestions = []string{}
	}
	if resp.NavigationTips == nil {
		resp.NavigationTips = []string{}
	}
	return resp
}

func headOf(list []DoctorSuggestion, n int) []DoctorSuggestion {
	if len(list) < n {
		n = len(list)
	}
	out := make([]DoctorSuggestion, n)
	copy(out, list[:n])
	return out
}
