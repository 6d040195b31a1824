package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepezia-be/internal/constant"
	"prepezia-be/internal/dto"
)

func TestCoachChatForwardsSystemPromptAndMessage(t *testing.T) {
	flow := &fakeFlowProvider{chatReply: "Look into computer science programs."}
	svc := NewCoachService(flow)

	res, err := svc.Chat(context.Background(), &dto.CoachChatRequest{
		Message: "What should I study to work in AI?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Look into computer science programs.", res.Reply)
	assert.Equal(t, constant.CoachSystemPromptV1, flow.lastSystem)
	require.Len(t, flow.lastHistory, 1)
	assert.Equal(t, "user", flow.lastHistory[0].Role)
	assert.Equal(t, "What should I study to work in AI?", flow.lastHistory[0].Text)
}

func TestCoachChatCapsRollingHistory(t *testing.T) {
	flow := &fakeFlowProvider{chatReply: "ok"}
	svc := NewCoachService(flow)

	history := make([]dto.CoachTurn, 0, constant.CoachMaxHistoryTurns+10)
	for i := 0; i < constant.CoachMaxHistoryTurns+10; i++ {
		role := "user"
		if i%2 == 1 {
			role = "model"
		}
		history = append(history, dto.CoachTurn{Role: role, Text: "turn"})
	}
	history[len(history)-1].Text = "most recent turn"

	_, err := svc.Chat(context.Background(), &dto.CoachChatRequest{
		Message: "next question",
		History: history,
	})
	require.NoError(t, err)

	// Capped history plus the new message; oldest turns dropped first.
	require.Len(t, flow.lastHistory, constant.CoachMaxHistoryTurns+1)
	assert.Equal(t, "most recent turn", flow.lastHistory[constant.CoachMaxHistoryTurns-1].Text)
	assert.Equal(t, "next question", flow.lastHistory[constant.CoachMaxHistoryTurns].Text)
}
