package genai

import "fmt"

// NewFlowProvider selects the structured-flow backend by name.
func NewFlowProvider(provider, geminiKey, ollamaBaseURL, ollamaModel string) (FlowProvider, error) {
	switch provider {
	case "", "gemini":
		return NewGeminiProvider(geminiKey), nil
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, ollamaModel), nil
	default:
		return nil, fmt.Errorf("unknown flow provider: %s", provider)
	}
}
