package matching

import (
	"context"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/IbrahimToubeh/MediConnect-sub000/internal/directory"
	"github.com/IbrahimToubeh/MediConnect-sub000/internal/observability/metrics"
	"github.com/IbrahimToubeh/MediConnect-sub000/pkg/logging"
)

var matchingTracer = otel.Tracer("mediconnect.internal.matching")

const defaultLLMTimeout = 30 * time.Second

// chatClient is the slice of the OpenAI client the engine needs.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Engine turns a patient conversation into a ranked, bounded set of doctor
// suggestions validated against the LLM chat endpoint. One Chat call is one
// turn: stateless, no locks, nothing shared between concurrent invocations
// except the read-only directory snapshot it fetches itself.
type Engine struct {
	directory directory.Reader
	client    chatClient
	model     string
	weights   ScoringWeights
	timeout   time.Duration
	logger    *logging.Logger
	metrics   *metrics.MatchingMetrics
}

// NewEngine wires the matching engine. metrics may be nil.
func NewEngine(dir directory.Reader, client chatClient, model string, logger *logging.Logger, m *metrics.MatchingMetrics) *Engine {
	if dir == nil {
		panic("matching: directory reader cannot be nil")
	}
	if client == nil {
		panic("matching: chat client cannot be nil")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		directory: dir,
		client:    client,
		model:     model,
		weights:   DefaultWeights(),
		timeout:   defaultLLMTimeout,
		logger:    logger,
		metrics:   m,
	}
}

// SetWeights overrides the scoring weights. Intended for tuning and tests.
func (e *Engine) SetWeights(w ScoringWeights) {
	e.weights = w
}

// SetLLMTimeout overrides the per-call LLM deadline.
func (e *Engine) SetLLMTimeout(d time.Duration) {
	if d > 0 {
		e.timeout = d
	}
}

// Chat handles one conversational turn. It always returns a usable
// ChatResponse and never an error: upstream failures, malformed model
// output and empty directories all degrade into the fallback policy.
func (e *Engine) Chat(ctx context.Context, messages []ChatMessage, pctx PatientContext) ChatResponse {
	ctx, span := matchingTracer.Start(ctx, "matching.chat")
	defer span.End()

	log := e.logger.With("turn_id", uuid.NewString())

	doctors, err := e.directory.ListActiveDoctors(ctx)
	if err != nil {
		log.Error("directory snapshot failed", "error", err)
		span.RecordError(err)
		e.metrics.ObserveTurn(string(IntentGeneral), "no_doctors")
		resp := noDoctorsResponse(pctx)
		resp.RawModelContent = "directory unavailable: " + err.Error()
		return resp
	}
	if len(doctors) == 0 {
		e.metrics.ObserveTurn(string(IntentGeneral), "no_doctors")
		return noDoctorsResponse(pctx)
	}

	intent := classifyIntent(messages)
	if intent.ResetsContext() {
		resetMatchingFields(&pctx)
	}
	extractSignals(lastUserMessage(messages), &pctx, doctors)

	cat := buildCatalogue(doctors, pctx, intent, e.weights)
	span.SetAttributes(
		attribute.String("mediconnect.intent", string(intent)),
		attribute.Int("mediconnect.catalogue_size", len(cat.prompt)),
	)

	prompt := buildPrompt(pctx, cat.prompt, messages)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	start := time.Now()
	completion, err := e.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: llmTemperature,
		Messages:    prompt,
	})
	e.metrics.ObserveLLMLatency(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		log.Warn("llm call failed, serving fallback", "error", err, "intent", intent)
		e.metrics.ObserveTurn(string(intent), "fallback")
		e.metrics.ObserveFallback("llm_error")
		resp := fallbackResponse(pctx, cat, err.Error())
		appendDimensionGuidance(&resp, pctx, cat, intent)
		return resp
	}
	if len(completion.Choices) == 0 {
		log.Warn("llm returned no choices, serving fallback", "intent", intent)
		e.metrics.ObserveTurn(string(intent), "fallback")
		e.metrics.ObserveFallback("empty_choices")
		resp := fallbackResponse(pctx, cat, "model returned no choices")
		appendDimensionGuidance(&resp, pctx, cat, intent)
		return resp
	}

	resp := parseModelContent(completion.Choices[0].Message.Content, pctx, cat, intent)
	appendDimensionGuidance(&resp, pctx, cat, intent)
	e.metrics.ObserveTurn(string(intent), "ok")
	log.Info("chat turn complete",
		"intent", intent,
		"recommended", len(resp.RecommendedDoctors),
		"information_complete", resp.InformationComplete,
	)
	return resp
}

// lastUserMessage returns the content of the most recent user-role message.
func lastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ChatRoleUser {
			return messages[i].Content
		}
	}
	return ""
}
