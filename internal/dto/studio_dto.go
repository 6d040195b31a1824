package dto

import "encoding/json"

type GenerateContentRequest struct {
	Kind string `json:"kind" validate:"required,oneof=flashcards quiz deck infographic podcast mindMap"`
}

type GeneratedContentResponse struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}
