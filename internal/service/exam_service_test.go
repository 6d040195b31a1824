package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/entity"
	"prepezia-be/internal/repository/memory"
	"prepezia-be/pkg/genai"
	"prepezia-be/pkg/progress"
)

func quizRaw(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(genai.QuizPayload{
		Questions: []genai.QuizQuestion{
			{Question: "2+2?", Options: []string{"3", "4"}, AnswerIndex: 1},
			{Question: "Capital of France?", Options: []string{"Paris", "Lyon"}, AnswerIndex: 0},
			{Question: "H2O is?", Options: []string{"Water", "Salt"}, AnswerIndex: 0},
			{Question: "Largest planet?", Options: []string{"Mars", "Jupiter"}, AnswerIndex: 1},
		},
	})
	require.NoError(t, err)
	return raw
}

func newTestExamService(repo *fakeNoteRepository) (IExamService, *memory.ExamSessionRepository) {
	sessions := memory.NewExamSessionRepository()
	progressSvc := newTestProgressService(repo)
	return NewExamService(newFakeRepositoryFactory(repo), sessions, progressSvc), sessions
}

func TestExamStartHidesAnswers(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	note.GeneratedContent[entity.ContentKindQuiz] = quizRaw(t)
	repo := newFakeNoteRepository(note)
	svc, _ := newTestExamService(repo)

	res, err := svc.Start(context.Background(), userId, note.Id)
	require.NoError(t, err)

	assert.Len(t, res.Questions, 4)
	assert.True(t, res.Deadline.After(time.Now()))
	for _, q := range res.Questions {
		assert.NotEmpty(t, q.Prompt)
		assert.Len(t, q.Options, 2)
	}

	// The serialized response carries no answer indices.
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "answer")
}

func TestExamStartWithoutQuizFails(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	repo := newFakeNoteRepository(note)
	svc, _ := newTestExamService(repo)

	_, err := svc.Start(context.Background(), userId, note.Id)
	assert.ErrorIs(t, err, ErrQuizNotGenerated)
}

func TestExamSubmitScoresAndRecordsSignal(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	note.GeneratedContent[entity.ContentKindQuiz] = quizRaw(t)
	repo := newFakeNoteRepository(note)
	svc, _ := newTestExamService(repo)

	started, err := svc.Start(context.Background(), userId, note.Id)
	require.NoError(t, err)

	// 3 of 4 correct.
	res, err := svc.Submit(context.Background(), userId, &dto.SubmitExamRequest{
		SessionId: started.SessionId,
		Answers:   []int{1, 0, 0, 0},
	})
	require.NoError(t, err)

	assert.Equal(t, 75, res.Score)
	assert.Equal(t, 3, res.Correct)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 75.0, repo.lastSignals[progress.SignalQuizCompleted])
	assert.Equal(t, 30, res.Progress) // 75% of the 40-point weight
}

func TestExamSubmitIsSingleUse(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	note.GeneratedContent[entity.ContentKindQuiz] = quizRaw(t)
	repo := newFakeNoteRepository(note)
	svc, _ := newTestExamService(repo)

	started, err := svc.Start(context.Background(), userId, note.Id)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), userId, &dto.SubmitExamRequest{
		SessionId: started.SessionId,
		Answers:   []int{1, 0, 0, 1},
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), userId, &dto.SubmitExamRequest{
		SessionId: started.SessionId,
		Answers:   []int{1, 0, 0, 1},
	})
	assert.ErrorIs(t, err, ErrExamSessionNotFound)
}

func TestExamSubmitAfterDeadlineFails(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	note.GeneratedContent[entity.ContentKindQuiz] = quizRaw(t)
	repo := newFakeNoteRepository(note)
	svc, sessions := newTestExamService(repo)

	started, err := svc.Start(context.Background(), userId, note.Id)
	require.NoError(t, err)

	// Force the deadline into the past.
	session, ok := sessions.Get(started.SessionId)
	require.True(t, ok)
	session.Deadline = time.Now().Add(-time.Second)
	sessions.Save(session)

	_, err = svc.Submit(context.Background(), userId, &dto.SubmitExamRequest{
		SessionId: started.SessionId,
		Answers:   []int{1, 0, 0, 1},
	})
	assert.ErrorIs(t, err, ErrExamDeadlinePassed)
}

func TestExamSubmitWrongUserFails(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	note.GeneratedContent[entity.ContentKindQuiz] = quizRaw(t)
	repo := newFakeNoteRepository(note)
	svc, _ := newTestExamService(repo)

	started, err := svc.Start(context.Background(), userId, note.Id)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), uuid.New(), &dto.SubmitExamRequest{
		SessionId: started.SessionId,
		Answers:   []int{1, 0, 0, 1},
	})
	assert.ErrorIs(t, err, ErrExamSessionNotFound)
}
