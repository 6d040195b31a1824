package genai

import (
	"context"
	"fmt"
)

// NoteRequest is the input for note generation. It is a closed variant type:
// a note is produced either from a topic+level pair or from user-supplied
// source material, never from a mix of optional fields.
type NoteRequest interface {
	noteRequest()
}

// ByTopic asks for notes written from scratch on a topic at a study level.
type ByTopic struct {
	Topic string
	Level string
}

func (ByTopic) noteRequest() {}

// BySources asks for notes distilled from supplied source excerpts.
type BySources struct {
	Sources []string
	Level   string
}

func (BySources) noteRequest() {}

// ChatTurn is one message in a coaching conversation.
type ChatTurn struct {
	Role string // "user" or "model"
	Text string
}

// FlowProvider produces the structured study artifacts. Every method either
// returns a payload that passed schema validation or a *GenerationError.
type FlowProvider interface {
	GenerateNotes(ctx context.Context, req NoteRequest) (*NotesPayload, error)
	GenerateQuiz(ctx context.Context, content string) (*QuizPayload, error)
	GenerateFlashcards(ctx context.Context, content string) (*FlashcardsPayload, error)
	GenerateDeck(ctx context.Context, content string) (*DeckPayload, error)
	GenerateMindMap(ctx context.Context, content string) (*MindMapPayload, error)
	GeneratePodcastScript(ctx context.Context, content string) (*PodcastScriptPayload, error)
	Chat(ctx context.Context, system string, history []ChatTurn) (string, error)
}

// MediaProvider produces binary media payloads. Returned bytes are raw
// (already base64-decoded); empty output is a *GenerationError, never an
// empty slice.
type MediaProvider interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	GenerateSpeech(ctx context.Context, script string) ([]byte, error)
}

// GenerationError means the generation service returned no usable output for
// a content kind: empty payload, schema-invalid output, or a transport/API
// failure. It is surfaced once and not retried.
type GenerationError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed for %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed for %s: %s", e.Kind, e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(kind, reason string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Reason: reason, Err: err}
}
