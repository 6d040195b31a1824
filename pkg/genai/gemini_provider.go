package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	defaultTextModel   = "gemini-2.0-flash"
	defaultImageModel  = "gemini-2.0-flash-preview-image-generation"
	defaultSpeechModel = "gemini-2.5-flash-preview-tts"
)

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType   string                 `json:"responseMimeType,omitempty"`
	ResponseSchema     map[string]interface{} `json:"responseSchema,omitempty"`
	ResponseModalities []string               `json:"responseModalities,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// GeminiProvider implements FlowProvider and MediaProvider against the
// Gemini REST API using structured output (responseSchema JSON mode).
type GeminiProvider struct {
	apiKey      string
	textModel   string
	imageModel  string
	speechModel string
	client      *http.Client
	flows       map[string]flow
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:      apiKey,
		textModel:   defaultTextModel,
		imageModel:  defaultImageModel,
		speechModel: defaultSpeechModel,
		client:      &http.Client{},
		flows:       buildFlows(),
	}
}

func (p *GeminiProvider) call(ctx context.Context, model string, payload geminiRequest) (*geminiResponse, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return nil, err
	}
	return &geminiRes, nil
}

type validatable interface {
	Validate() error
}

// generateStructured runs one flow and unmarshals+validates the JSON answer
// into out. All failure modes collapse into *GenerationError.
func (p *GeminiProvider) generateStructured(ctx context.Context, kind, prompt string, out validatable) error {
	fl, ok := p.flows[kind]
	if !ok {
		return newGenerationError(kind, "unknown flow", nil)
	}

	res, err := p.call(ctx, p.textModel, geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}, Role: "user"},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   fl.schema,
		},
	})
	if err != nil {
		return newGenerationError(kind, "request failed", err)
	}

	text := firstText(res)
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

func firstText(res *geminiResponse) string {
	for _, c := range res.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

func firstInlineData(res *geminiResponse) *geminiInlineData {
	for _, c := range res.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData
			}
		}
	}
	return nil
}

func (p *GeminiProvider) GenerateNotes(ctx context.Context, req NoteRequest) (*NotesPayload, error) {
	var out NotesPayload
	if err := p.generateStructured(ctx, "notes", notesPrompt(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *GeminiProvider) GenerateQuiz(ctx context.Context, content string) (*QuizPayload, error) {
	var out QuizPayload
	if err := p.generateStructured(ctx, "quiz", quizPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *GeminiProvider) GenerateFlashcards(ctx context.Context, content string) (*FlashcardsPayload, error) {
	var out FlashcardsPayload
	if err := p.generateStructured(ctx, "flashcards", flashcardsPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *GeminiProvider) GenerateDeck(ctx context.Context, content string) (*DeckPayload, error) {
	var out DeckPayload
	if err := p.generateStructured(ctx, "deck", deckPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *GeminiProvider) GenerateMindMap(ctx context.Context, content string) (*MindMapPayload, error) {
	var out MindMapPayload
	if err := p.generateStructured(ctx, "mindMap", mindMapPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *GeminiProvider) GeneratePodcastScript(ctx context.Context, content string) (*PodcastScriptPayload, error) {
	var out PodcastScriptPayload
	if err := p.generateStructured(ctx, "podcast", podcastPrompt(content), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *GeminiProvider) Chat(ctx context.Context, system string, history []ChatTurn) (string, error) {
	contents := make([]geminiContent, 0, len(history))
	for _, turn := range history {
		contents = append(contents, geminiContent{
			Parts: []geminiPart{{Text: turn.Text}},
			Role:  turn.Role,
		})
	}

	payload := geminiRequest{Contents: contents}
	if system != "" {
		payload.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: system}},
		}
	}

	res, err := p.call(ctx, p.textModel, payload)
	if err != nil {
		return "", newGenerationError("chat", "request failed", err)
	}
	text := firstText(res)
	if text == "" {
		return "", newGenerationError("chat", "service returned empty payload", nil)
	}
	return text, nil
}

func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	res, err := p.call(ctx, p.imageModel, geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}, Role: "user"},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	})
	if err != nil {
		return nil, newGenerationError("infographic", "request failed", err)
	}

	return decodeInline(res, "infographic")
}

func (p *GeminiProvider) GenerateSpeech(ctx context.Context, script string) ([]byte, error) {
	res, err := p.call(ctx, p.speechModel, geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: script}}, Role: "user"},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
	})
	if err != nil {
		return nil, newGenerationError("podcast", "request failed", err)
	}

	return decodeInline(res, "podcast")
}

func decodeInline(res *geminiResponse, kind string) ([]byte, error) {
	inline := firstInlineData(res)
	if inline == nil {
		return nil, newGenerationError(kind, "service returned empty payload", nil)
	}
	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, newGenerationError(kind, "undecodable media payload", err)
	}
	if len(data) == 0 {
		return nil, newGenerationError(kind, "service returned empty payload", nil)
	}
	return data, nil
}
