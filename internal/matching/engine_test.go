package matching

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IbrahimToubeh/MediConnect-sub000/internal/directory"
	"github.com/IbrahimToubeh/MediConnect-sub000/pkg/logging"
)

type fakeDirectory struct {
	doctors []directory.Doctor
	err     error
}

func (f *fakeDirectory) ListActiveDoctors(_ context.Context) ([]directory.Doctor, error) {
	return f.doctors, f.err
}

// fakeChatClient scripts one completion response and records the request.
type fakeChatClient struct {
	t       *testing.T
	content string
	err     error
	calls   int
	lastReq openai.ChatCompletionRequest
	forbid  bool
}

func (f *fakeChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.forbid {
		f.t.Fatal("unexpected chat completion call")
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func newTestEngine(t *testing.T, dir directory.Reader, client *fakeChatClient) *Engine {
	t.Helper()
	return NewEngine(dir, client, "gpt-4o-mini", logging.New("error"), nil)
}

func TestChatEmptyDirectorySkipsLLM(t *testing.T) {
	client := &fakeChatClient{t: t, forbid: true}
	eng := newTestEngine(t, &fakeDirectory{}, client)

	resp := eng.Chat(context.Background(), []ChatMessage{
		{Role: ChatRoleUser, Content: "I need a cardiologist"},
	}, PatientContext{City: "Boston"})

	assert.Equal(t, noActiveDoctorsReply, resp.Reply)
	assert.Equal(t, "Boston", resp.Context.City, "context passes through unchanged")
	assert.Empty(t, resp.RecommendedDoctors)
	assert.NotNil(t, resp.RecommendedDoctors)
	assert.NotEmpty(t, resp.NavigationTips)
	assert.Zero(t, client.calls)
}

func TestChatDirectoryErrorDegradesToNoDoctors(t *testing.T) {
	client := &fakeChatClient{t: t, forbid: true}
	eng := newTestEngine(t, &fakeDirectory{err: errors.New("connection refused")}, client)

	resp := eng.Chat(context.Background(), nil, PatientContext{})

	assert.Equal(t, noActiveDoctorsReply, resp.Reply)
	assert.Contains(t, resp.RawModelContent, "connection refused")
	assert.Zero(t, client.calls)
}

func TestChatLLMErrorServesFallback(t *testing.T) {
	client := &fakeChatClient{t: t, err: errors.New("upstream 503")}
	eng := newTestEngine(t, &fakeDirectory{doctors: testDoctors()}, client)

	resp := eng.Chat(context.Background(), []ChatMessage{
		{Role: ChatRoleUser, Content: "I need a doctor for chest pain"},
	}, PatientContext{})

	assert.Equal(t, troubleConnectingReply, resp.Reply)
	assert.NotEmpty(t, resp.RecommendedDoctors)
	assert.LessOrEqual(t, len(resp.RecommendedDoctors), MaxFallbackDoctors)
	assert.True(t, resp.InformationComplete, "complete when the safety net is non-empty")
	assert.Contains(t, resp.RawModelContent, "upstream 503")
	assert.NotNil(t, resp.FollowUpQuestions)
	assert.NotEmpty(t, resp.NavigationTips)
	assert.Equal(t, 1, client.calls)
}

func TestChatEmptyChoicesServesFallback(t *testing.T) {
	dir := &fakeDirectory{doctors: testDoctors()}
	eng := NewEngine(dir, emptyChoicesClient{}, "gpt-4o-mini", logging.New("error"), nil)

	resp := eng.Chat(context.Background(), []ChatMessage{
		{Role: ChatRoleUser, Content: "find me a doctor"},
	}, PatientContext{})

	assert.Equal(t, troubleConnectingReply, resp.Reply)
	assert.Contains(t, resp.RawModelContent, "no choices")
}

type emptyChoicesClient struct{}

func (emptyChoicesClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}

func TestChatGreetingResetsAndNeverRecommends(t *testing.T) {
	// Even a model that disobeys and returns ids must be overruled for a
	// greeting turn.
	client := &fakeChatClient{t: t, content: `{"reply":"Hello! How can I help?","recommendedDoctorIds":[1,2],"informationComplete":true}`}
	eng := newTestEngine(t, &fakeDirectory{doctors: testDoctors()}, client)

	resp := eng.Chat(context.Background(), []ChatMessage{
		{Role: ChatRoleUser, Content: "Hello!"},
	}, PatientContext{
		PrimaryConcern:          "chest pain",
		InsuranceProvider:       "Aetna",
		City:                    "Boston",
		PreferredSpecialization: "CARDIOLOGY",
	})

	assert.Equal(t, "Hello! How can I help?", resp.Reply)
	assert.Empty(t, resp.RecommendedDoctors)
	assert.False(t, resp.InformationComplete)
	assert.Empty(t, resp.Context.InsuranceProvider)
	assert.Empty(t, resp.Context.City)
	assert.Empty(t, resp.Context.PreferredSpecialization)
	assert.Equal(t, "chest pain", resp.Context.PrimaryConcern, "medical facts survive a greeting")

	// The prompt carried an empty catalogue.
	require.GreaterOrEqual(t, len(client.lastReq.Messages), 2)
	assert.Equal(t, catalogueMarker+"[]", client.lastReq.Messages[1].Content)
}

func TestChatMalformedModelOutput(t *testing.T) {
	client := &fakeChatClient{t: t, content: "Sure, I'd recommend Dr. Hale for that."}
	eng := newTestEngine(t, &fakeDirectory{doctors: testDoctors()}, client)

	prev := PatientContext{PrimaryConcern: "chest pain", City: "Boston"}
	resp := eng.Chat(context.Background(), []ChatMessage{
		{Role: ChatRoleUser, Content: "I need a doctor"},
	}, prev)

	assert.Equal(t, "Sure, I'd recommend Dr. Hale for that.", resp.Reply)
	assert.Equal(t, prev, resp.Context, "context untouched when parsing fails")
	assert.LessOrEqual(t, len(resp.RecommendedDoctors), maxParseFailureDoctors)
	assert.NotEmpty(t, resp.RecommendedDoctors)
}

func TestChatHappyPath(t *testing.T) {
	client := &fakeChatClient{t: t, content: `{
		"reply": "Dr. Hale in Boston is a great fit for chest pain.",
		"context": {"primaryConcern": "chest pain", "city": "Boston", "insuranceProvider": "Aetna"},
		"recommendedDoctorIds": [1],
		"followUpQuestions": ["How long have you had the pain?"],
		"informationComplete": true
	}`}
	eng := newTestEngine(t, &fakeDirectory{doctors: testDoctors()}, client)

	resp := eng.Chat(context.Background(), []ChatMessage{
		{Role: ChatRoleUser, Content: "I have chest pain and I live in Boston. I need a doctor who takes Aetna."},
	}, PatientContext{})

	require.Len(t, resp.RecommendedDoctors, 1)
	assert.Equal(t, int64(1), resp.RecommendedDoctors[0].ID)
	assert.Equal(t, "Boston", resp.Context.City)
	assert.Equal(t, "Aetna", resp.Context.InsuranceProvider)
	assert.True(t, resp.InformationComplete)
	assert.Contains(t, resp.FollowUpQuestions, "How long have you had the pain?")

	assert.Equal(t, "gpt-4o-mini", client.lastReq.Model)
	assert.InDelta(t, llmTemperature, client.lastReq.Temperature, 1e-6)
	assert.True(t, strings.HasPrefix(client.lastReq.Messages[1].Content, catalogueMarker))
}

func TestChatInsuranceMismatchGuidance(t *testing.T) {
	client := &fakeChatClient{t: t, content: `{"reply":"Here is what I found.","recommendedDoctorIds":[1]}`}
	eng := newTestEngine(t, &fakeDirectory{doctors: testDoctors()}, client)

	resp := eng.Chat(context.Background(), []ChatMessage{
		{Role: ChatRoleUser, Content: "I need a doctor, my insurance is Humana"},
	}, PatientContext{InsuranceProvider: "Humana"})

	found := false
	for _, tip := range resp.NavigationTips {
		if strings.Contains(tip, "Humana") {
			found = true
		}
	}
	assert.True(t, found, "unmet insurance dimension should produce a targeted tip")
}

func TestChatExtractsSignalsFromMessage(t *testing.T) {
	client := &fakeChatClient{t: t, content: `{"reply":"ok"}`}
	eng := newTestEngine(t, &fakeDirectory{doctors: testDoctors()}, client)

	resp := eng.Chat(context.Background(), []ChatMessage{
		{Role: ChatRoleUser, Content: "I need a doctor in Boston. My insurance is Aetna."},
	}, PatientContext{})

	assert.Equal(t, "Boston", resp.Context.City)
	assert.Equal(t, "Aetna", resp.Context.InsuranceProvider)
}
