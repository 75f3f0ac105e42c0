package recommender

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/vishalm342/ShelfSense/internal/logger"
	"github.com/vishalm342/ShelfSense/config"
	"github.com/vishalm342/ShelfSense/models"
	"github.com/vishalm342/ShelfSense/repositories"
)

// Generation is the raw outcome of one model invocation.
type Generation struct {
	Text         string
	ModelVersion string
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// TextGenerator produces free-form text for a prompt using a named model.
// The Gemini-backed implementation is the production one; tests substitute
// stubs.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (*Generation, error)
}

type geminiGenerator struct {
	apiKey string
}

// NewGeminiGenerator builds the production TextGenerator. GEMINI_API_KEY is
// required.
func NewGeminiGenerator() (TextGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	return &geminiGenerator{apiKey: apiKey}, nil
}

func (g *geminiGenerator) GenerateText(ctx context.Context, model, prompt string) (*Generation, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: g.apiKey,
	})
	if err != nil {
		return nil, err
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, err
	}

	gen := &Generation{
		Text:         result.Text(),
		ModelVersion: result.ModelVersion,
	}
	if result.UsageMetadata != nil {
		gen.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		gen.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		gen.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
	}
	return gen, nil
}

// errQuotaExhausted signals that the local daily quota blocked the call.
var errQuotaExhausted = errors.New("model call quota exhausted")

// ModelClient turns a taste profile into recommendation candidates with a
// two-tier model fallback: the primary model produces better output but is
// less stable under load, the fallback trades quality for availability.
//
// Recommend never returns an error; when both tiers fail the result is an
// empty slice, so the orchestrator can layer its genre fallback on top
// without any exception handling.
type ModelClient struct {
	gen      TextGenerator
	primary  string
	fallback string
	quota    *ModelQuotaLimiter
	aiLogs   *repositories.AILogRepository
}

// NewModelClient wires a ModelClient from config. aiLogs may be nil; usage
// logging is best effort and never fails a request.
func NewModelClient(gen TextGenerator, cfg config.RecommenderConfig, aiLogs *repositories.AILogRepository) *ModelClient {
	return &ModelClient{
		gen:      gen,
		primary:  cfg.PrimaryModel,
		fallback: cfg.FallbackModel,
		quota:    NewModelQuotaLimiter(cfg.Quota),
		aiLogs:   aiLogs,
	}
}

// Recommend renders the profile into a prompt, invokes the primary model and
// falls back to the secondary on any invocation or parse failure. Both tiers
// receive the identical prompt. Worst case the result is empty.
func (c *ModelClient) Recommend(ctx context.Context, p *Profile) []Candidate {
	prompt := BuildPrompt(p)

	for _, model := range []string{c.primary, c.fallback} {
		if model == "" {
			continue
		}
		candidates, err := c.tryModel(ctx, model, prompt)
		if err != nil {
			logger.WarnWithFields("recommendation model tier failed", logger.Fields{
				"model": model,
				"error": err.Error(),
			})
			continue
		}
		return candidates
	}
	return nil
}

// tryModel runs one tier end to end: quota check, invocation, parse. A parse
// failure is reported just like an invocation error so the caller escalates
// identically for both.
func (c *ModelClient) tryModel(ctx context.Context, model, prompt string) ([]Candidate, error) {
	if c.quota != nil {
		ok, err := c.quota.WaitAndReserve(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errQuotaExhausted
		}
	}

	requestedAt := time.Now()
	gen, err := c.gen.GenerateText(ctx, model, prompt)
	c.recordUsage(model, prompt, gen, requestedAt, err)
	if err != nil {
		return nil, err
	}

	candidates, err := ParseCandidates(gen.Text)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// recordUsage persists one ai_logs document per invocation. Failures are
// logged and swallowed.
func (c *ModelClient) recordUsage(model, prompt string, gen *Generation, requestedAt time.Time, callErr error) {
	if c.aiLogs == nil {
		return
	}

	entry := models.AILog{
		ModelName:   model,
		InputPrompt: prompt,
		RequestedAt: requestedAt,
		CompletedAt: time.Now(),
		DurationMs:  time.Since(requestedAt).Milliseconds(),
	}
	if gen != nil {
		entry.ModelVersion = gen.ModelVersion
		entry.OutputResponse = gen.Text
		entry.InputTokens = gen.InputTokens
		entry.OutputTokens = gen.OutputTokens
		entry.TotalTokens = gen.TotalTokens
	}
	if callErr != nil {
		msg := callErr.Error()
		entry.ErrorMessage = &msg
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.aiLogs.Insert(ctx, entry); err != nil {
		logger.WarnWithFields("failed to persist ai usage log", logger.Fields{
			"model": model,
			"error": err.Error(),
		})
	}
}
