package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/repository/memory"
	"prepezia-be/pkg/progress"
)

func newTestProgressService(repo *fakeNoteRepository) IProgressService {
	return NewProgressService(
		newFakeRepositoryFactory(repo),
		memory.NewReaderSessionRepository(),
		nil,
		nil,
		nopLogger{},
	)
}

func TestRecordSignalPersistsMergedState(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	repo := newFakeNoteRepository(note)
	svc := newTestProgressService(repo)

	res, err := svc.RecordSignal(context.Background(), userId, note.Id, &dto.RecordSignalRequest{
		Signal: string(progress.SignalQuizCompleted),
		Value:  100,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, res.Progress)
	assert.Equal(t, string(progress.StatusInProgress), res.Status)
	assert.Equal(t, 1, repo.patchCalls)
	assert.Equal(t, 100.0, repo.lastSignals[progress.SignalQuizCompleted])
}

func TestRecordSignalSkipsPersistenceWhenUnchanged(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	note.InteractionProgress = progress.SignalMap{progress.SignalDeckViewed: 1}
	note.Progress = 10
	note.Status = progress.StatusInProgress
	repo := newFakeNoteRepository(note)
	svc := newTestProgressService(repo)

	res, err := svc.RecordSignal(context.Background(), userId, note.Id, &dto.RecordSignalRequest{
		Signal: string(progress.SignalDeckViewed),
		Value:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, res.Progress)
	assert.Equal(t, 0, repo.patchCalls, "no write when the merged map did not change")
}

func TestRecordSignalNeverRegresses(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	note.InteractionProgress = progress.SignalMap{progress.SignalQuizCompleted: 80}
	repo := newFakeNoteRepository(note)
	svc := newTestProgressService(repo)

	res, err := svc.RecordSignal(context.Background(), userId, note.Id, &dto.RecordSignalRequest{
		Signal: string(progress.SignalQuizCompleted),
		Value:  20,
	})
	require.NoError(t, err)

	assert.Equal(t, 80.0, res.Signals[string(progress.SignalQuizCompleted)])
	assert.Equal(t, 0, repo.patchCalls)
}

func TestRecordSignalRejectsUnknownSignal(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	svc := newTestProgressService(newFakeNoteRepository(note))

	_, err := svc.RecordSignal(context.Background(), userId, note.Id, &dto.RecordSignalRequest{
		Signal: "somethingElse",
		Value:  1,
	})
	assert.Error(t, err)
}

func TestReaderFlowFeedsNotesViewedSignal(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId) // two pages
	repo := newFakeNoteRepository(note)
	svc := newTestProgressService(repo)

	opened, err := svc.OpenReader(context.Background(), userId, note.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, opened.Total)

	// Below the dwell threshold: nothing counted, nothing persisted.
	res, err := svc.TurnPage(context.Background(), userId, &dto.TurnPageRequest{
		SessionId: opened.SessionId,
		Page:      0,
		DwellMs:   9999,
	})
	require.NoError(t, err)
	assert.False(t, res.Viewed)
	assert.Equal(t, 0, res.ViewedCount)
	assert.Equal(t, 0, repo.patchCalls)

	// At the threshold the page counts and half the pages are read.
	res, err = svc.TurnPage(context.Background(), userId, &dto.TurnPageRequest{
		SessionId: opened.SessionId,
		Page:      0,
		DwellMs:   10000,
	})
	require.NoError(t, err)
	assert.True(t, res.Viewed)
	assert.Equal(t, 1, res.ViewedCount)
	assert.Equal(t, 50.0, repo.lastSignals[progress.SignalNotesViewed])
	assert.Equal(t, 10, res.Progress) // 50% of the 20-point weight

	// Second page completes the signal.
	res, err = svc.TurnPage(context.Background(), userId, &dto.TurnPageRequest{
		SessionId: opened.SessionId,
		Page:      1,
		DwellMs:   12000,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ViewedCount)
	assert.Equal(t, 100.0, repo.lastSignals[progress.SignalNotesViewed])
	assert.Equal(t, 20, res.Progress)
}

func TestTurnPageUnknownSessionFails(t *testing.T) {
	svc := newTestProgressService(newFakeNoteRepository())

	_, err := svc.TurnPage(context.Background(), uuid.New(), &dto.TurnPageRequest{
		SessionId: uuid.New().String(),
		Page:      0,
		DwellMs:   10000,
	})
	assert.ErrorIs(t, err, ErrReaderSessionNotFound)
}
