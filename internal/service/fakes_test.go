package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"prepezia-be/internal/entity"
	"prepezia-be/internal/repository/contract"
	"prepezia-be/internal/repository/specification"
	"prepezia-be/internal/repository/unitofwork"
	"prepezia-be/pkg/embedding"
	"prepezia-be/pkg/genai"
	"prepezia-be/pkg/progress"
)

// Shared in-memory fakes for service tests.

type fakeNoteRepository struct {
	notes map[uuid.UUID]*entity.Note

	patchedContent map[entity.ContentKind]json.RawMessage
	removedKinds   []entity.ContentKind
	lastSignals    progress.SignalMap
	lastPct        int
	lastStatus     progress.Status
	patchCalls     int

	failPatch error
}

func newFakeNoteRepository(notes ...*entity.Note) *fakeNoteRepository {
	m := make(map[uuid.UUID]*entity.Note, len(notes))
	for _, n := range notes {
		m[n.Id] = n
	}
	return &fakeNoteRepository{
		notes:          m,
		patchedContent: make(map[entity.ContentKind]json.RawMessage),
	}
}

func (r *fakeNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	r.notes[note.Id] = note
	return nil
}

func (r *fakeNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	r.notes[note.Id] = note
	return nil
}

func (r *fakeNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.notes, id)
	return nil
}

// FindOne honors ByID and UserOwnedBy, which is all the services use.
func (r *fakeNoteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var id *uuid.UUID
	var owner *uuid.UUID
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			v := sp.ID
			id = &v
		case specification.UserOwnedBy:
			v := sp.UserID
			owner = &v
		}
	}
	if id == nil {
		return nil, errors.New("fake: FindOne needs ByID")
	}
	note, ok := r.notes[*id]
	if !ok {
		return nil, nil
	}
	if owner != nil && note.UserId != *owner {
		return nil, nil
	}
	return note, nil
}

func (r *fakeNoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	out := make([]*entity.Note, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNoteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.notes)), nil
}

func (r *fakeNoteRepository) PatchGeneratedContent(ctx context.Context, id uuid.UUID, kind entity.ContentKind, payload json.RawMessage) error {
	if r.failPatch != nil {
		return r.failPatch
	}
	r.patchedContent[kind] = payload
	if note, ok := r.notes[id]; ok {
		if note.GeneratedContent == nil {
			note.GeneratedContent = make(map[entity.ContentKind]json.RawMessage)
		}
		note.GeneratedContent[kind] = payload
	}
	return nil
}

func (r *fakeNoteRepository) RemoveContentKind(ctx context.Context, id uuid.UUID, kind entity.ContentKind, signals progress.SignalMap, pct int, status progress.Status) error {
	r.removedKinds = append(r.removedKinds, kind)
	r.lastSignals = signals
	r.lastPct = pct
	r.lastStatus = status
	if note, ok := r.notes[id]; ok {
		delete(note.GeneratedContent, kind)
		note.InteractionProgress = signals
		note.Progress = pct
		note.Status = status
	}
	return nil
}

func (r *fakeNoteRepository) PatchProgress(ctx context.Context, id uuid.UUID, signals progress.SignalMap, pct int, status progress.Status) error {
	r.patchCalls++
	r.lastSignals = signals
	r.lastPct = pct
	r.lastStatus = status
	if note, ok := r.notes[id]; ok {
		note.InteractionProgress = signals
		note.Progress = pct
		note.Status = status
	}
	return nil
}

type fakeNoteEmbeddingRepository struct {
	scored         []*contract.ScoredNoteEmbedding
	deletedNoteIds []uuid.UUID
}

func (r *fakeNoteEmbeddingRepository) Create(ctx context.Context, embedding *entity.NoteEmbedding) error {
	return nil
}

func (r *fakeNoteEmbeddingRepository) CreateBulk(ctx context.Context, embeddings []*entity.NoteEmbedding) error {
	return nil
}

func (r *fakeNoteEmbeddingRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	r.deletedNoteIds = append(r.deletedNoteIds, noteId)
	return nil
}

func (r *fakeNoteEmbeddingRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEmbedding, error) {
	return nil, nil
}

func (r *fakeNoteEmbeddingRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeNoteEmbeddingRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredNoteEmbedding, error) {
	return r.scored, nil
}

type fakeUnitOfWork struct {
	noteRepo  *fakeNoteRepository
	embedRepo *fakeNoteEmbeddingRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return nil }
func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository { return u.noteRepo }
func (u *fakeUnitOfWork) NoteEmbeddingRepository() contract.NoteEmbeddingRepository {
	return u.embedRepo
}

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func newFakeRepositoryFactory(noteRepo *fakeNoteRepository) *fakeRepositoryFactory {
	return &fakeRepositoryFactory{uow: &fakeUnitOfWork{
		noteRepo:  noteRepo,
		embedRepo: &fakeNoteEmbeddingRepository{},
	}}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakePublisherService struct {
	published [][]byte
	err       error
}

func (p *fakePublisherService) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, payload)
	return nil
}

type fakeEmbeddingProvider struct {
	taskTypes []string
	err       error
}

func (p *fakeEmbeddingProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.taskTypes = append(p.taskTypes, taskType)
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeFlowProvider struct {
	flashcards *genai.FlashcardsPayload
	quiz       *genai.QuizPayload
	deck       *genai.DeckPayload
	mindMap    *genai.MindMapPayload
	podcast    *genai.PodcastScriptPayload
	notes      *genai.NotesPayload
	chatReply  string
	err        error

	lastSystem  string
	lastHistory []genai.ChatTurn
}

func (p *fakeFlowProvider) GenerateNotes(ctx context.Context, req genai.NoteRequest) (*genai.NotesPayload, error) {
	return p.notes, p.err
}
func (p *fakeFlowProvider) GenerateQuiz(ctx context.Context, content string) (*genai.QuizPayload, error) {
	return p.quiz, p.err
}
func (p *fakeFlowProvider) GenerateFlashcards(ctx context.Context, content string) (*genai.FlashcardsPayload, error) {
	return p.flashcards, p.err
}
func (p *fakeFlowProvider) GenerateDeck(ctx context.Context, content string) (*genai.DeckPayload, error) {
	return p.deck, p.err
}
func (p *fakeFlowProvider) GenerateMindMap(ctx context.Context, content string) (*genai.MindMapPayload, error) {
	return p.mindMap, p.err
}
func (p *fakeFlowProvider) GeneratePodcastScript(ctx context.Context, content string) (*genai.PodcastScriptPayload, error) {
	return p.podcast, p.err
}
func (p *fakeFlowProvider) Chat(ctx context.Context, system string, history []genai.ChatTurn) (string, error) {
	p.lastSystem = system
	p.lastHistory = history
	return p.chatReply, p.err
}

type fakeMediaProvider struct {
	image []byte
	audio []byte
	err   error
}

func (p *fakeMediaProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return p.image, p.err
}
func (p *fakeMediaProvider) GenerateSpeech(ctx context.Context, script string) ([]byte, error) {
	return p.audio, p.err
}

type fakeObjectStore struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: make(map[string][]byte)}
}

func (s *fakeObjectStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[key] = data
	return "https://cdn.test/" + key, nil
}

func (s *fakeObjectStore) DeletePrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, prefix)
	return nil
}

func (s *fakeObjectStore) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.deleted))
	copy(out, s.deleted)
	return out
}

func (s *fakeObjectStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
