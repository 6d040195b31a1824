package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"prepezia-be/internal/entity"
	"prepezia-be/pkg/progress"
)

func TestNoteMapperRoundTrip(t *testing.T) {
	m := NewNoteMapper()
	updated := time.Now().Truncate(time.Second)

	src := &entity.Note{
		Id:      uuid.New(),
		UserId:  uuid.New(),
		Topic:   "Photosynthesis",
		Level:   entity.StudyLevelHighSchool,
		Content: "Light reactions.\n---\nCalvin cycle.",
		GeneratedContent: map[entity.ContentKind]json.RawMessage{
			entity.ContentKindFlashcards: json.RawMessage(`{"cards":[{"front":"ATP","back":"energy carrier"}]}`),
			entity.ContentKindPodcast:    json.RawMessage(`{"title":"Ep 1","script":"HOST: hi","audioUrl":"https://cdn.test/a.mp3"}`),
		},
		InteractionProgress: progress.SignalMap{
			progress.SignalNotesViewed: 50,
			progress.SignalDeckViewed:  1,
		},
		Progress:  20,
		Status:    progress.StatusInProgress,
		CreatedAt: time.Now().Truncate(time.Second),
		UpdatedAt: &updated,
	}

	got := m.ToEntity(m.ToModel(src))
	require.NotNil(t, got)

	assert.Equal(t, src.Id, got.Id)
	assert.Equal(t, src.UserId, got.UserId)
	assert.Equal(t, src.Topic, got.Topic)
	assert.Equal(t, src.Level, got.Level)
	assert.Equal(t, src.Content, got.Content)
	assert.Equal(t, src.Progress, got.Progress)
	assert.Equal(t, src.Status, got.Status)
	assert.Equal(t, src.InteractionProgress, got.InteractionProgress)
	assert.False(t, got.IsDeleted)

	require.Len(t, got.GeneratedContent, 2)
	assert.JSONEq(t,
		string(src.GeneratedContent[entity.ContentKindFlashcards]),
		string(got.GeneratedContent[entity.ContentKindFlashcards]))
	assert.JSONEq(t,
		string(src.GeneratedContent[entity.ContentKindPodcast]),
		string(got.GeneratedContent[entity.ContentKindPodcast]))
}

func TestNoteMapperSkipsCorruptSignalValues(t *testing.T) {
	out := signalsToEntity(datatypes.JSONMap{
		"notesViewed": 50.0,
		"deckViewed":  "yes", // corrupt, not a number
	})

	assert.Equal(t, progress.SignalMap{progress.SignalNotesViewed: 50}, out)
}

func TestNoteMapperSoftDelete(t *testing.T) {
	m := NewNoteMapper()

	deleted := time.Now()
	src := &entity.Note{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Topic:     "t",
		DeletedAt: &deleted,
	}

	got := m.ToEntity(m.ToModel(src))
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedAt)
}

func TestNoteMapperNilPassthrough(t *testing.T) {
	m := NewNoteMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}
