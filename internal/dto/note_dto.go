package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateNoteRequest carries exactly one of Topic or Sources. The service
// rejects requests that set both or neither; validator tags alone cannot
// express the exclusivity.
type CreateNoteRequest struct {
	Topic   string   `json:"topic" validate:"omitempty,max=200"`
	Sources []string `json:"sources" validate:"omitempty,max=10,dive,min=1"`
	Level   string   `json:"level" validate:"required,oneof=elementary middle_school high_school undergraduate postgraduate professional"`
}

type ListNotesRequest struct {
	Query  string `query:"q"`
	Status string `query:"status" validate:"omitempty,oneof='Not Started' 'In Progress' Completed"`
	Page   int    `query:"page" validate:"omitempty,gte=1"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

type NoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Topic     string     `json:"topic"`
	Level     string     `json:"level"`
	Progress  int        `json:"progress"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type NoteDetailResponse struct {
	NoteResponse
	Content             string                     `json:"content"`
	Pages               []string                   `json:"pages"`
	GeneratedContent    map[string]json.RawMessage `json:"generatedContent"`
	InteractionProgress map[string]float64         `json:"interactionProgress"`
}

type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type SemanticSearchRequest struct {
	Query string `json:"query" validate:"required,min=2,max=500"`
	Limit int    `json:"limit" validate:"omitempty,gte=1,lte=20"`
}

type SemanticSearchResult struct {
	NoteId     uuid.UUID `json:"noteId"`
	Topic      string    `json:"topic"`
	Snippet    string    `json:"snippet"`
	Similarity float64   `json:"similarity"`
}

// PublishEmbedNoteMessage is the payload carried on the embed-note topic.
type PublishEmbedNoteMessage struct {
	NoteId uuid.UUID `json:"noteId"`
	UserId uuid.UUID `json:"userId"`
}
