package matching

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IbrahimToubeh/MediConnect-sub000/pkg/logging"
)

type stubChatService struct {
	gotMessages []ChatMessage
	gotContext  PatientContext
	resp        ChatResponse
}

func (s *stubChatService) Chat(_ context.Context, messages []ChatMessage, pctx PatientContext) ChatResponse {
	s.gotMessages = messages
	s.gotContext = pctx
	return s.resp
}

func TestHandlerChatOK(t *testing.T) {
	stub := &stubChatService{resp: ChatResponse{
		Reply:              "Here you go.",
		RecommendedDoctors: []DoctorSuggestion{{ID: 1, Name: "Dr. Sara Hale"}},
		FollowUpQuestions:  []string{},
		NavigationTips:     []string{},
	}}
	h := NewHandler(stub, logging.New("error"))

	body := `{
		"messages": [{"role": "user", "content": "I need a doctor"}],
		"context": {"city": "Boston"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	require.Len(t, stub.gotMessages, 1)
	assert.Equal(t, "I need a doctor", stub.gotMessages[0].Content)
	assert.Equal(t, "Boston", stub.gotContext.City)

	var got ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Here you go.", got.Reply)
	require.Len(t, got.RecommendedDoctors, 1)
	assert.Equal(t, int64(1), got.RecommendedDoctors[0].ID)
}

func TestHandlerChatBadBody(t *testing.T) {
	h := NewHandler(&stubChatService{}, logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerChatEmptyBodyObject(t *testing.T) {
	stub := &stubChatService{resp: ChatResponse{Reply: "Hello!"}}
	h := NewHandler(stub, logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Chat(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, stub.gotMessages)
}
