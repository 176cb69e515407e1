package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"voice-task-service/internal/models"
)

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 1024
)

const systemPrompt = `Tu analyses des mémos vocaux familiaux en français et tu en extrais une tâche.
Réponds uniquement avec un objet JSON, sans texte autour, de la forme:
{"category":{"value":"transport|health|education|food|household|activities|social|other","confidence":0.0},
 "urgency":{"value":"critical|high|normal|low","confidence":0.0},
 "date":{"value":"YYYY-MM-DD ou null","confidence":0.0},
 "child":{"value":"prénom ou null","confidence":0.0},
 "action":{"verb":"...","object":"... ou null","confidence":0.0}}`

// AnthropicAnalyzer implements Analyzer using the Anthropic Messages API.
type AnthropicAnalyzer struct {
	client sdk.Client
	model  string
}

var _ Analyzer = (*AnthropicAnalyzer)(nil)

// NewAnthropic creates an analyzer backed by the official SDK.
func NewAnthropic(apiKey, model string) *AnthropicAnalyzer {
	if model == "" {
		model = defaultModel
	}
	return &AnthropicAnalyzer{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Analyze asks the model for a structured extraction and maps it onto the
// shared facet types. Responses that are not valid JSON yield an error so
// the pipeline falls back to heuristics.
func (a *AnthropicAnalyzer) Analyze(ctx context.Context, text string, children []models.Child) (*models.ExtractionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	msg, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: defaultMaxTokens,
		System:    []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: create message")
	}

	var raw strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			raw.WriteString(block.Text)
		}
	}
	return parseResponse(raw.String(), children)
}

// wire mirrors the JSON contract in the system prompt.
type wire struct {
	Category struct {
		Value      string  `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"category"`
	Urgency struct {
		Value      string  `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"urgency"`
	Date struct {
		Value      *string `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"date"`
	Child struct {
		Value      *string `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"child"`
	Action struct {
		Verb       string  `json:"verb"`
		Object     *string `json:"object"`
		Confidence float64 `json:"confidence"`
	} `json:"action"`
}

func parseResponse(raw string, children []models.Child) (*models.ExtractionResult, error) {
	// Tolerate models that wrap JSON in a code fence despite the prompt.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var w wire
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &w); err != nil {
		return nil, eris.Wrap(err, "llm: parse response")
	}

	result := &models.ExtractionResult{
		Category: models.CategoryFacet{
			Primary:    models.Category(w.Category.Value),
			Confidence: w.Category.Confidence,
			Reason:     "llm extraction",
		},
		Urgency: models.UrgencyFacet{
			Level:      models.Urgency(w.Urgency.Value),
			Confidence: w.Urgency.Confidence,
			Reason:     "llm extraction",
		},
		Date: models.DateFacet{
			Kind:       models.DateNone,
			Confidence: w.Date.Confidence,
			Reason:     "llm extraction",
		},
		Child: models.ChildFacet{
			Confidence: w.Child.Confidence,
			Reason:     "llm extraction",
		},
		Action: models.ActionFacet{
			Verb:       w.Action.Verb,
			Object:     w.Action.Object,
			Confidence: w.Action.Confidence,
			Reason:     "llm extraction",
		},
	}

	if w.Date.Value != nil {
		if d, err := time.Parse("2006-01-02", *w.Date.Value); err == nil {
			result.Date.Date = &d
			result.Date.Kind = models.DateAbsolute
		}
	}
	// The model returns a first name; resolve it to a child ID against
	// the household directory. Unknown names leave the facet empty.
	if w.Child.Value != nil {
		name := strings.ToLower(strings.TrimSpace(*w.Child.Value))
		for _, c := range children {
			if strings.ToLower(c.FirstName) == name {
				id := c.ChildID
				result.Child.ChildID = &id
				result.Child.Reason = "llm extraction: " + c.FirstName
				break
			}
		}
	}

	return result, nil
}
