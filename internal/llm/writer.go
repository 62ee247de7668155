// Package llm generates marketplace listing copy with Gemini.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const copyModel = "gemini-2.5-flash-lite"

// Gemini pricing (per million tokens)
const (
	inputPricePerMillion  = 0.075
	outputPricePerMillion = 0.30
)

var listingPrompt = strings.TrimSpace(dedent.Dedent(`
	Create an optimized marketplace listing for %s.
	Product: %s
	Suggested price: %s

	Return strictly JSON with these fields:
	- title: concise, SEO-friendly listing title
	- description: persuasive 3-5 bullet paragraphs, include condition, authenticity, what's included, shipping/meetup guidance

	No markdown, no extra keys. Respond ONLY with the JSON object.
`))

// ListingCopy is LLM-generated listing text.
type ListingCopy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Usage tracks token consumption of a single call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// CopyWriter generates listing copy for a product query.
// Satisfied by *Writer and by the caching wrapper.
type CopyWriter interface {
	GenerateListing(ctx context.Context, query string, msrp *float64, platform string) (*ListingCopy, error)
}

// Writer calls Gemini to write listing copy.
type Writer struct {
	client *genai.Client
}

// NewWriter creates a Gemini-backed copy writer.
func NewWriter(ctx context.Context, apiKey string) (*Writer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Writer{client: client}, nil
}

// GenerateListing writes title and description for a product query.
// msrp may be nil when no suggested price is known.
func (w *Writer) GenerateListing(ctx context.Context, query string, msrp *float64, platform string) (*ListingCopy, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if platform == "" {
		platform = "ebay"
	}

	price := "unknown"
	if msrp != nil {
		price = fmt.Sprintf("%.2f", *msrp)
	}
	prompt := fmt.Sprintf(listingPrompt, platform, query, price)

	result, err := w.client.Models.GenerateContent(ctx, copyModel, []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	lc, err := parseListingCopy(result.Text())
	if err != nil {
		return nil, err
	}
	if lc.Title == "" {
		lc.Title = query
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = float64(usage.InputTokens)/1e6*inputPricePerMillion +
			float64(usage.OutputTokens)/1e6*outputPricePerMillion
	}

	log.Info().
		Str("model", copyModel).
		Str("platform", platform).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("listing copy llm call")

	return lc, nil
}

// extractJSONObject pulls the first {...} object out of text that may
// be wrapped in markdown fences or prose.
func extractJSONObject(text string) (string, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return cleaned[start : end+1], nil
}

func parseListingCopy(text string) (*ListingCopy, error) {
	obj, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}
	var lc ListingCopy
	if err := json.Unmarshal([]byte(obj), &lc); err != nil {
		return nil, fmt.Errorf("failed to parse listing copy: %w", err)
	}
	return &lc, nil
}
