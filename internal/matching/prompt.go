package matching

import (
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// catalogueMarker prefixes the system message carrying the ranked doctor
// catalogue so the model can tell it apart from the instructions.
const catalogueMarker = "DOCTOR_CATALOGUE_JSON::"

const responseSchema = `{
  "reply": "<string, your conversational answer to the patient>",
  "context": { "ageRange": "", "primaryConcern": "", "symptomDuration": "", "symptomSeverity": "", "additionalSymptoms": "", "medicalHistory": "", "medications": "", "allergies": "", "preferredDoctorGender": "", "preferredLanguage": "", "insuranceProvider": "", "city": "", "state": "", "country": "", "postalCode": "", "preferredSpecialization": "", "appointmentPreference": "" },
  "recommendedDoctorIds": [<numeric ids chosen ONLY from the catalogue>],
  "followUpQuestions": ["<question>"],
  "informationComplete": <bool>,
  "navigationTips": ["<tip>"]
}`

const operatingInstructions = `You are MediConnect's care assistant. You help patients describe their
situation and find a suitable doctor on the platform.

Rules:
- Respond with ONLY a single JSON object matching the schema above. No prose
  outside the JSON, no code fences.
- Be warm and reassuring. Never diagnose; you only help patients find care.
- Ask at least two clarifying questions before treating the patient's
  information as complete; set informationComplete to true only once the main
  concern, location and insurance are known.
- Fill the context object with everything the patient has shared so far,
  updating fields when the patient corrects themselves. Leave unknown fields
  as empty strings.
- NEVER invent doctors. recommendedDoctorIds may only contain ids that appear
  in the DOCTOR_CATALOGUE_JSON message. When the catalogue is empty, leave
  recommendedDoctorIds empty and guide the patient through the platform
  instead.
- Recommend at most four doctors, best match first.`

// buildPrompt assembles the bounded message sequence for one LLM call:
// system instructions with the response schema and current context, the
// catalogue payload, then the trailing conversation history.
func buildPrompt(ctx PatientContext, cataloguePayload []DoctorSuggestion, history []ChatMessage) []openai.ChatCompletionMessage {
	ctxJSON, err := json.Marshal(ctx)
	if err != nil {
		ctxJSON = []byte("{}")
	}

	var sys strings.Builder
	sys.WriteString("Respond using this JSON schema:\n")
	sys.WriteString(responseSchema)
	sys.WriteString("\n\n")
	sys.WriteString(operatingInstructions)
	sys.WriteString("\n\nCurrent patient context:\n")
	sys.Write(ctxJSON)

	if cataloguePayload == nil {
		cataloguePayload = []DoctorSuggestion{}
	}
	catalogueJSON, err := json.Marshal(cataloguePayload)
	if err != nil {
		catalogueJSON = []byte("[]")
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: sys.String()},
		{Role: openai.ChatMessageRoleSystem, Content: catalogueMarker + string(catalogueJSON)},
	}

	trimmed := history
	if len(trimmed) > MaxHistoryMessages {
		trimmed = trimmed[len(trimmed)-MaxHistoryMessages:]
	}
	for _, msg := range trimmed {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    normalizeRole(msg.Role),
			Content: msg.Content,
		})
	}
	return messages
}
