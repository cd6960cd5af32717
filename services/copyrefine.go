package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"looksapi/lookengine"

	"google.golang.org/genai"
)

// LLMModelName is the GenAI model used for copy refinement.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

type LLMUsage struct {
	Model            string `json:"model"`
	InputTokenCount  int32  `json:"input_token_count"`
	OutputTokenCount int32  `json:"output_token_count"`
	TotalTokenCount  int32  `json:"total_token_count"`
}

const refineCopyPrompt = `You are a fashion stylist copywriter for a Brazilian audience.
You get a JSON document with three outfit suggestions ("looks").
Rewrite ONLY the wording of these fields: "title", "rationale", "voice_text",
"why_it_works", "versatility" and the "rationale" inside "size_recommendation".
Keep the meaning, make the copy warm and concrete, one or two sentences each.
Do NOT add, remove or reorder looks or items. Do NOT change any other field,
any id, any number or any boolean. Answer with the full JSON document only.`

// GoogleCopyRefiner rewrites batch copy through Gemini. It satisfies
// lookengine.CopyRefiner; the pipeline re-validates whatever comes back, so
// a model that breaks the structure only costs us the refinement.
type GoogleCopyRefiner struct {
	Model LLMModelName
	// called with token accounting after every successful round trip
	OnUsage func(LLMUsage)
}

func (r *GoogleCopyRefiner) RefineCopy(ctx context.Context, input lookengine.GenerateInput, output lookengine.GenerateOutput) (lookengine.GenerateOutput, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return lookengine.GenerateOutput{}, fmt.Errorf("genai client init: %w", err)
	}

	batchJSON, err := json.Marshal(output)
	if err != nil {
		return lookengine.GenerateOutput{}, err
	}

	prompt := fmt.Sprintf("%s\n\nOccasion: %s (formality %d)\nAudience mode: %s\n\n%s",
		refineCopyPrompt, input.Occasion.Description, input.Occasion.ExpectedFormality, input.Mode, string(batchJSON))

	result, err := client.Models.GenerateContent(ctx, r.Model.String(),
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return lookengine.GenerateOutput{}, fmt.Errorf("copy refinement call: %w", err)
	}

	if result.UsageMetadata != nil && r.OnUsage != nil {
		r.OnUsage(LLMUsage{
			Model:            r.Model.String(),
			InputTokenCount:  result.UsageMetadata.PromptTokenCount,
			OutputTokenCount: result.UsageMetadata.CandidatesTokenCount,
			TotalTokenCount:  result.UsageMetadata.TotalTokenCount,
		})
	}

	text := cleanJSONResponse(result.Text())
	var refined lookengine.GenerateOutput
	if err := json.Unmarshal([]byte(text), &refined); err != nil {
		return lookengine.GenerateOutput{}, fmt.Errorf("copy refinement returned unparseable JSON: %w", err)
	}
	return refined, nil
}

func cleanJSONResponse(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
