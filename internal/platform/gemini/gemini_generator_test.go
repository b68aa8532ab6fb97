package gemini

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/kotoba/study-api/internal/config"
	"github.com/kotoba/study-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const validReply = `{
	"translation": "I like cats.",
	"grammar_explanation": "が marks the object of 好き.",
	"flashcards": [
		{"front": "猫", "back": "cat", "reading": "ねこ", "example": "猫が寝ている。"},
		{"front": "好き", "back": "liked", "reading": "すき"},
		{"front": "です", "back": "to be (polite)"}
	]
}`

type fakeModels struct {
	mu        sync.Mutex
	calls     int
	lastModel string
	lastCfg   *genai.GenerateContentConfig
	lastText  string
	replies   []fakeReply
}

type fakeReply struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastModel = model
	f.lastCfg = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.lastText = contents[0].Parts[0].Text
	}

	reply := f.replies[min(f.calls, len(f.replies)-1)]
	f.calls++
	return reply.resp, reply.err
}

func textResponse(text string, reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
			FinishReason: reason,
		}},
	}
}

func testConfig(retries int) config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:      "test-key",
		ModelName:         "gemini-test",
		MaxRetries:        retries,
		RetryDelaySeconds: 0,
	}
}

func newTestGenerator(t *testing.T, retries int, replies ...fakeReply) (*GeminiGenerator, *fakeModels) {
	t.Helper()
	models := &fakeModels{replies: replies}
	g, err := newGenerator(slog.New(slog.DiscardHandler), testConfig(retries), models)
	require.NoError(t, err)
	return g, models
}

func TestGenerateStudySet_Success(t *testing.T) {
	t.Parallel()

	g, models := newTestGenerator(t, 2, fakeReply{resp: textResponse(validReply, genai.FinishReasonStop)})

	set, err := g.GenerateStudySet(context.Background(), "  猫が好きです。 ", "ja")
	require.NoError(t, err)

	assert.Equal(t, "I like cats.", set.Translation)
	require.Len(t, set.Flashcards, 3)
	assert.Equal(t, "ねこ", set.Flashcards[0].Reading)

	assert.Equal(t, 1, models.calls)
	assert.Equal(t, "gemini-test", models.lastModel)
	assert.Equal(t, "application/json", models.lastCfg.ResponseMIMEType)
	require.NotNil(t, models.lastCfg.ResponseSchema)
	assert.Contains(t, models.lastCfg.ResponseSchema.Required, "flashcards")
	assert.Contains(t, models.lastText, "猫が好きです。")
	assert.Contains(t, models.lastText, "Japanese")
}

func TestGenerateStudySet_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	g, models := newTestGenerator(t, 2,
		fakeReply{err: genai.APIError{Code: http.StatusServiceUnavailable, Message: "overloaded"}},
		fakeReply{err: genai.APIError{Code: http.StatusTooManyRequests, Message: "slow down"}},
		fakeReply{resp: textResponse(validReply, genai.FinishReasonStop)},
	)

	set, err := g.GenerateStudySet(context.Background(), "猫が好きです。", "ja")
	require.NoError(t, err)
	assert.Len(t, set.Flashcards, 3)
	assert.Equal(t, 3, models.calls)
}

func TestGenerateStudySet_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	g, models := newTestGenerator(t, 1, fakeReply{err: errors.New("connection reset")})

	_, err := g.GenerateStudySet(context.Background(), "猫が好きです。", "ja")
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 2, models.calls)
}

func TestGenerateStudySet_PermanentErrorsDoNotRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply fakeReply
		want  error
	}{
		{"bad request", fakeReply{err: genai.APIError{Code: http.StatusBadRequest}}, generation.ErrGenerationFailed},
		{"safety block", fakeReply{resp: textResponse("", genai.FinishReasonSafety)}, generation.ErrContentBlocked},
		{"no candidates", fakeReply{resp: &genai.GenerateContentResponse{}}, generation.ErrInvalidResponse},
		{"not json", fakeReply{resp: textResponse("sorry, no", genai.FinishReasonStop)}, generation.ErrInvalidResponse},
		{"no cards", fakeReply{resp: textResponse(`{"translation":"x","grammar_explanation":"y","flashcards":[]}`, genai.FinishReasonStop)}, generation.ErrInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g, models := newTestGenerator(t, 3, tc.reply)
			_, err := g.GenerateStudySet(context.Background(), "猫が好きです。", "ja")
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 1, models.calls)
		})
	}
}

func TestGenerateStudySet_EmptySentence(t *testing.T) {
	t.Parallel()

	g, models := newTestGenerator(t, 0, fakeReply{resp: textResponse(validReply, genai.FinishReasonStop)})
	_, err := g.GenerateStudySet(context.Background(), "   ", "ja")
	assert.ErrorIs(t, err, generation.ErrEmptySentence)
	assert.Zero(t, models.calls)
}

func TestCreatePrompt(t *testing.T) {
	t.Parallel()

	g, _ := newTestGenerator(t, 0, fakeReply{})
	prompt, err := g.createPrompt("Me gustan los gatos.", "es")
	require.NoError(t, err)
	assert.Contains(t, prompt, "study Spanish")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Me gustan los gatos."))

	prompt, err = g.createPrompt("x", "eo")
	require.NoError(t, err)
	assert.Contains(t, prompt, "study eo", "unknown codes pass through")
}

func TestNewGenerator_InvalidConfig(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	_, err := newGenerator(nil, testConfig(0), &fakeModels{})
	assert.Error(t, err)

	cfg := testConfig(0)
	cfg.ModelName = ""
	_, err = newGenerator(log, cfg, &fakeModels{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = testConfig(-1)
	_, err = newGenerator(log, cfg, &fakeModels{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGeminiGenerator(context.Background(), log, config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestBackoffGrows(t *testing.T) {
	t.Parallel()

	g, _ := newTestGenerator(t, 0, fakeReply{})
	g.baseDelay = 100

	for attempt := 0; attempt < 4; attempt++ {
		d := g.backoff(attempt)
		ceiling := int64(100) << attempt
		assert.GreaterOrEqual(t, int64(d), ceiling/2)
		assert.Less(t, int64(d), ceiling)
	}
}
