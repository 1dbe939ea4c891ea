package matching

import (
	"fmt"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptShape(t *testing.T) {
	ctx := PatientContext{City: "Boston", InsuranceProvider: "Aetna"}
	cat := buildCatalogue(testDoctors(), ctx, IntentFindDoctor, DefaultWeights())
	history := []ChatMessage{
		{Role: ChatRoleUser, Content: "I need a doctor"},
		{Role: ChatRoleAssistant, Content: "Tell me more."},
	}

	messages := buildPrompt(ctx, cat.prompt, history)

	require.Len(t, messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "recommendedDoctorIds")
	assert.Contains(t, messages[0].Content, `"city":"Boston"`)
	assert.Contains(t, messages[0].Content, "NEVER invent doctors")

	assert.Equal(t, openai.ChatMessageRoleSystem, messages[1].Role)
	assert.True(t, strings.HasPrefix(messages[1].Content, catalogueMarker))
	assert.Contains(t, messages[1].Content, `"matchScore"`)

	assert.Equal(t, openai.ChatMessageRoleUser, messages[2].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[3].Role)
}

func TestBuildPromptTruncatesHistory(t *testing.T) {
	var history []ChatMessage
	for i := 0; i < 30; i++ {
		history = append(history, ChatMessage{Role: ChatRoleUser, Content: fmt.Sprintf("message %d", i)})
	}

	messages := buildPrompt(PatientContext{}, nil, history)

	// 2 system messages + the most recent 18 turns.
	require.Len(t, messages, 2+MaxHistoryMessages)
	assert.Equal(t, "message 12", messages[2].Content)
	assert.Equal(t, "message 29", messages[len(messages)-1].Content)
}

func TestBuildPromptCoercesUnknownRoles(t *testing.T) {
	history := []ChatMessage{
		{Role: "tool", Content: "weird"},
		{Role: "", Content: "also weird"},
		{Role: ChatRoleSystem, Content: "kept"},
	}

	messages := buildPrompt(PatientContext{}, nil, history)

	require.Len(t, messages, 5)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[2].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[3].Role)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[4].Role)
}

func TestBuildPromptEmptyCatalogue(t *testing.T) {
	messages := buildPrompt(PatientContext{}, []DoctorSuggestion{}, nil)

	require.Len(t, messages, 2)
	assert.Equal(t, catalogueMarker+"[]", messages[1].Content)
}
