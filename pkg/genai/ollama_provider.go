package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaProvider implements FlowProvider against a local Ollama instance for
// self-hosted deployments. It only covers the text flows; media generation
// stays on Gemini regardless of the configured flow provider.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

func (p *OllamaProvider) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:  p.model,
		Prompt: prompt,
		Stream: false,
	}
	if jsonMode {
		reqBody.Format = "json"
	}

	reqJson, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/api/generate", bytes.NewBuffer(reqJson))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status error, got status %d. with response body %s", res.StatusCode, string(resBody))
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(resBody, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (p *OllamaProvider) generateStructured(ctx context.Context, kind, prompt string, out validatable) error {
	// Ollama has no response schema support; the prompt carries the shape and
	// validation catches drift.
	text, err := p.generate(ctx, prompt+"\n\nRespond with JSON only.", true)
	if err != nil {
		return newGenerationError(kind, "request failed", err)
	}
	if text == "" {
		return newGenerationError(kind, "service returned empty payload", nil)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return newGenerationError(kind, "malformed payload", err)
	}
	if err := out.Validate(); err != nil {
		return newGenerationError(kind, "schema validation failed", err)
	}
	return nil
}

func (p *OllamaProvider) GenerateNotes(ctx context.Context, req NoteRequest) (*NotesPayload, error) {
	var out NotesPayload
	if err := p.generateStructured(ctx, "notes", notesPrompt(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *OllamaProvider) GenerateQuiz(ctx context.Context, content string) (*QuizPayload, error) {
	var out QuizPayload
	if err := p.generateStructured(ctx, "quiz", quizPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *OllamaProvider) GenerateFlashcards(ctx context.Context, content string) (*FlashcardsPayload, error) {
	var out FlashcardsPayload
	if err := p.generateStructured(ctx, "flashcards", flashcardsPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *OllamaProvider) GenerateDeck(ctx context.Context, content string) (*DeckPayload, error) {
	var out DeckPayload
	if err := p.generateStructured(ctx, "deck", deckPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *OllamaProvider) GenerateMindMap(ctx context.Context, content string) (*MindMapPayload, error) {
	var out MindMapPayload
	if err := p.generateStructured(ctx, "mindMap", mindMapPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *OllamaProvider) GeneratePodcastScript(ctx context.Context, content string) (*PodcastScriptPayload, error) {
	var out PodcastScriptPayload
	if err := p.generateStructured(ctx, "podcast", podcastPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *OllamaProvider) Chat(ctx context.Context, system string, history []ChatTurn) (string, error) {
	var b bytes.Buffer
	if system != "" {
		b.WriteString(system)
		b.WriteString("\n\n")
	}
	for _, turn := range history {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	b.WriteString("model:")

	text, err := p.generate(ctx, b.String(), false)
	if err != nil {
		return "", newGenerationError("chat", "request failed", err)
	}
	if text == "" {
		return "", newGenerationError("chat", "service returned empty payload", nil)
	}
	return text, nil
}
