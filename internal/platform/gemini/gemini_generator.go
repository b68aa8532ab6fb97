package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"text/template"
	"time"

	"github.com/kotoba/study-api/internal/config"
	"github.com/kotoba/study-api/internal/generation"
	"github.com/kotoba/study-api/internal/platform/logger"
	"google.golang.org/genai"
)

//go:embed prompt.tmpl
var promptTemplateText string

const defaultTemperature = float32(0.4)

// contentGenerator is the subset of *genai.Models the generator calls.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	models         contentGenerator
	baseDelay      time.Duration
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a GeminiGenerator backed by a Gemini API client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, client.Models)
}

func newGenerator(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxRetries < 0 || cfg.RetryDelaySeconds < 0 {
		return nil, fmt.Errorf("%w: retry settings cannot be negative", generation.ErrInvalidConfig)
	}

	tmpl, err := template.New("study_set").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: tmpl,
		models:         models,
		baseDelay:      time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// GenerateStudySet implements generation.Generator.
func (g *GeminiGenerator) GenerateStudySet(
	ctx context.Context,
	sentence string,
	targetLanguage string,
) (*generation.StudySet, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	sentence, err := generation.ValidateSentence(sentence)
	if err != nil {
		return nil, err
	}

	prompt, err := g.createPrompt(sentence, targetLanguage)
	if err != nil {
		return nil, err
	}

	text, err := g.callGeminiWithRetry(ctx, log, prompt)
	if err != nil {
		return nil, err
	}

	set, err := parseStudySet(text)
	if err != nil {
		log.WarnContext(ctx, "discarding malformed study set",
			slog.String("error", err.Error()),
			slog.Int("response_length", len(text)))
		return nil, err
	}

	log.InfoContext(ctx, "study set generated",
		slog.Int("flashcards", len(set.Flashcards)),
		slog.String("target_language", targetLanguage))
	return set, nil
}

// createPrompt renders the prompt template for sentence.
func (g *GeminiGenerator) createPrompt(sentence, targetLanguage string) (string, error) {
	var buf bytes.Buffer
	err := g.promptTemplate.Execute(&buf, promptData{
		Sentence:     sentence,
		LanguageName: languageName(targetLanguage),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

func (g *GeminiGenerator) requestConfig() *genai.GenerateContentConfig {
	temperature := defaultTemperature
	return &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}
}

// callGeminiWithRetry calls the model up to MaxRetries+1 times. Transient
// failures back off exponentially with jitter; permanent ones return at once.
func (g *GeminiGenerator) callGeminiWithRetry(ctx context.Context, log *slog.Logger, prompt string) (string, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	maxRetries := g.config.MaxRetries

	for attempt := 0; ; attempt++ {
		log.DebugContext(ctx, "calling Gemini",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		resp, err := g.models.GenerateContent(ctx, g.config.ModelName, contents, g.requestConfig())
		text, err := extractText(resp, err)
		if err == nil {
			return text, nil
		}

		if !errors.Is(err, generation.ErrTransientFailure) {
			log.WarnContext(ctx, "permanent Gemini error, not retrying",
				slog.String("error", err.Error()))
			return "", err
		}
		if attempt >= maxRetries {
			log.WarnContext(ctx, "maximum retry attempts reached",
				slog.Int("max_retries", maxRetries),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		delay := g.backoff(attempt)
		log.InfoContext(ctx, "retrying Gemini call after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1).
func (g *GeminiGenerator) backoff(attempt int) time.Duration {
	scaled := float64(g.baseDelay) * math.Pow(2, float64(attempt))
	return time.Duration(scaled * (0.5 + rand.Float64()*0.5))
}

// extractText classifies the API outcome and returns the reply text.
func extractText(resp *genai.GenerateContentResponse, err error) (string, error) {
	if err != nil {
		return "", classifyAPIError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, candidate.FinishReason)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return text, nil
}

// classifyAPIError treats rate limits, server errors and unknown failures as
// transient. Other client errors are permanent.
func classifyAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
	}
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}

// parseStudySet decodes and validates the model's JSON reply.
func parseStudySet(text string) (*generation.StudySet, error) {
	var set generation.StudySet
	if err := json.Unmarshal([]byte(text), &set); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}
