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
	"prepezia-be/internal/repository/contract"
	"prepezia-be/pkg/genai"
	"prepezia-be/pkg/storage"
)

func newTestNoteService(
	factory *fakeRepositoryFactory,
	flow *fakeFlowProvider,
	pub *fakePublisherService,
	embed *fakeEmbeddingProvider,
	store *fakeObjectStore,
) INoteService {
	return NewNoteService(factory, flow, pub, embed, nil, store, nopLogger{})
}

func TestNoteCreateRequiresTopicOrSources(t *testing.T) {
	repo := newFakeNoteRepository()
	svc := newTestNoteService(newFakeRepositoryFactory(repo), &fakeFlowProvider{}, &fakePublisherService{}, &fakeEmbeddingProvider{}, newFakeObjectStore())

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{
		Level: "undergraduate",
	})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{
		Topic:   "Photosynthesis",
		Sources: []string{"some excerpt"},
		Level:   "undergraduate",
	})
	assert.Error(t, err)
	assert.Empty(t, repo.notes)
}

func TestNoteCreateByTopicPersistsAndQueuesEmbedding(t *testing.T) {
	repo := newFakeNoteRepository()
	pub := &fakePublisherService{}
	flow := &fakeFlowProvider{notes: &genai.NotesPayload{
		Title:   "Photosynthesis Basics",
		Content: "Light reactions.\n---\nCalvin cycle.",
	}}
	svc := newTestNoteService(newFakeRepositoryFactory(repo), flow, pub, &fakeEmbeddingProvider{}, newFakeObjectStore())

	userId := uuid.New()
	res, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{
		Topic: "Photosynthesis",
		Level: "undergraduate",
	})
	require.NoError(t, err)

	// Requested topic wins over the generated title.
	assert.Equal(t, "Photosynthesis", res.Topic)
	assert.Equal(t, 0, res.Progress)
	assert.Equal(t, "Not Started", res.Status)

	stored, ok := repo.notes[res.Id]
	require.True(t, ok)
	assert.Equal(t, flow.notes.Content, stored.Content)
	assert.Empty(t, stored.GeneratedContent)

	require.Len(t, pub.published, 1)
	var msg dto.PublishEmbedNoteMessage
	require.NoError(t, json.Unmarshal(pub.published[0], &msg))
	assert.Equal(t, res.Id, msg.NoteId)
	assert.Equal(t, userId, msg.UserId)
}

func TestNoteCreateFromSourcesUsesGeneratedTitle(t *testing.T) {
	repo := newFakeNoteRepository()
	flow := &fakeFlowProvider{notes: &genai.NotesPayload{
		Title:   "Cell Respiration Overview",
		Content: "Glycolysis.",
	}}
	svc := newTestNoteService(newFakeRepositoryFactory(repo), flow, &fakePublisherService{}, &fakeEmbeddingProvider{}, newFakeObjectStore())

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{
		Sources: []string{"lecture transcript excerpt"},
		Level:   "high_school",
	})
	require.NoError(t, err)
	assert.Equal(t, "Cell Respiration Overview", res.Topic)
}

func TestNoteShowSplitsPages(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	svc := newTestNoteService(newFakeRepositoryFactory(newFakeNoteRepository(note)), &fakeFlowProvider{}, &fakePublisherService{}, &fakeEmbeddingProvider{}, newFakeObjectStore())

	res, err := svc.Show(context.Background(), userId, note.Id)
	require.NoError(t, err)
	assert.Equal(t, note.Content, res.Content)
	assert.Equal(t, []string{"Light reactions.", "Calvin cycle."}, res.Pages)
}

func TestNoteShowForeignNoteIsNotFound(t *testing.T) {
	note := testNote(uuid.New())
	svc := newTestNoteService(newFakeRepositoryFactory(newFakeNoteRepository(note)), &fakeFlowProvider{}, &fakePublisherService{}, &fakeEmbeddingProvider{}, newFakeObjectStore())

	_, err := svc.Show(context.Background(), uuid.New(), note.Id)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteDeleteRemovesEmbeddingsAndMedia(t *testing.T) {
	userId := uuid.New()
	note := testNote(userId)
	repo := newFakeNoteRepository(note)
	factory := newFakeRepositoryFactory(repo)
	store := newFakeObjectStore()
	svc := newTestNoteService(factory, &fakeFlowProvider{}, &fakePublisherService{}, &fakeEmbeddingProvider{}, store)

	err := svc.Delete(context.Background(), userId, note.Id)
	require.NoError(t, err)

	assert.Empty(t, repo.notes)
	assert.Equal(t, []uuid.UUID{note.Id}, factory.uow.embedRepo.deletedNoteIds)

	prefix := storage.MediaPrefix(userId.String(), note.Id.String())
	assert.Eventually(t, func() bool {
		for _, k := range store.deletedKeys() {
			if k == prefix {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestNoteSemanticSearchDedupesChunksPerNote(t *testing.T) {
	userId := uuid.New()
	noteA := testNote(userId)
	noteA.Topic = "Photosynthesis"
	noteB := testNote(userId)
	noteB.Topic = "Cell Respiration"
	staleId := uuid.New() // indexed chunk whose note was deleted

	repo := newFakeNoteRepository(noteA, noteB)
	factory := newFakeRepositoryFactory(repo)
	embedProv := &fakeEmbeddingProvider{}
	factory.uow.embedRepo.scored = []*contract.ScoredNoteEmbedding{
		{Embedding: &entity.NoteEmbedding{NoteId: noteA.Id, Document: "Light reactions."}, Similarity: 0.91},
		{Embedding: &entity.NoteEmbedding{NoteId: noteA.Id, Document: "Calvin cycle."}, Similarity: 0.82},
		{Embedding: &entity.NoteEmbedding{NoteId: noteB.Id, Document: "Glycolysis."}, Similarity: 0.63},
		{Embedding: &entity.NoteEmbedding{NoteId: staleId, Document: "Orphaned."}, Similarity: 0.55},
	}
	svc := newTestNoteService(factory, &fakeFlowProvider{}, &fakePublisherService{}, embedProv, newFakeObjectStore())

	results, err := svc.SemanticSearch(context.Background(), userId, &dto.SemanticSearchRequest{
		Query: "how do plants make energy",
	})
	require.NoError(t, err)

	// Best chunk per note, relevance order kept, stale entries dropped.
	require.Len(t, results, 2)
	assert.Equal(t, noteA.Id, results[0].NoteId)
	assert.Equal(t, "Photosynthesis", results[0].Topic)
	assert.Equal(t, "Light reactions.", results[0].Snippet)
	assert.Equal(t, 0.91, results[0].Similarity)
	assert.Equal(t, noteB.Id, results[1].NoteId)

	assert.Equal(t, []string{"RETRIEVAL_QUERY"}, embedProv.taskTypes)
}
