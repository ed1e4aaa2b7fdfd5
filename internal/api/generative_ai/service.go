package generativeAI

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = float32(0.5)
)

// Generator is the narrow generation surface the category agents depend on.
// AIClient implements it; tests stub it.
type Generator interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

type AIClient struct {
	client *genai.Client
	model  string
}

var _ Generator = (*AIClient)(nil)

func NewAIClient(ctx context.Context) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  defaultModel,
	}, nil
}

// GenerateResponse sends a single prompt and returns the model's text. The
// prompt is screened for injection patterns before sending and the reply is
// screened before it reaches a caller; harm blocking above MEDIUM happens on
// the API side via safety settings.
func (ai *AIClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if err := CheckPrompt(prompt); err != nil {
		return "", err
	}
	config := &genai.GenerateContentConfig{
		Temperature:    genai.Ptr[float32](defaultTemperature),
		SafetySettings: defaultSafetySettings(),
	}
	chat, err := ai.client.Chats.Create(ctx, ai.model, config, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	result, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	text := result.Text()
	if err := CheckResponse(text); err != nil {
		return "", err
	}
	return text, nil
}

func defaultSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return settings
}
