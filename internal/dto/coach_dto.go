package dto

type CoachTurn struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required"`
}

type CoachChatRequest struct {
	Message string      `json:"message" validate:"required,max=2000"`
	History []CoachTurn `json:"history" validate:"omitempty,max=40,dive"`
}

type CoachChatResponse struct {
	Reply string `json:"reply"`
}
