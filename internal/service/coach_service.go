package service

import (
	"context"

	"prepezia-be/internal/constant"
	"prepezia-be/internal/dto"
	"prepezia-be/pkg/genai"
)

type ICoachService interface {
	Chat(ctx context.Context, req *dto.CoachChatRequest) (*dto.CoachChatResponse, error)
}

type coachService struct {
	flowProvider genai.FlowProvider
}

func NewCoachService(flowProvider genai.FlowProvider) ICoachService {
	return &coachService{flowProvider: flowProvider}
}

func (s *coachService) Chat(ctx context.Context, req *dto.CoachChatRequest) (*dto.CoachChatResponse, error) {
	history := req.History
	if len(history) > constant.CoachMaxHistoryTurns {
		history = history[len(history)-constant.CoachMaxHistoryTurns:]
	}

	turns := make([]genai.ChatTurn, 0, len(history)+1)
	for _, t := range history {
		turns = append(turns, genai.ChatTurn{Role: t.Role, Text: t.Text})
	}
	turns = append(turns, genai.ChatTurn{Role: constant.ChatMessageRoleUser, Text: req.Message})

	reply, err := s.flowProvider.Chat(ctx, constant.CoachSystemPromptV1, turns)
	if err != nil {
		return nil, err
	}

	return &dto.CoachChatResponse{Reply: reply}, nil
}
