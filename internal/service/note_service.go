package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/entity"
	"prepezia-be/internal/pkg/logger"
	"prepezia-be/internal/repository/specification"
	"prepezia-be/internal/repository/unitofwork"
	"prepezia-be/pkg/embedding"
	"prepezia-be/pkg/events"
	"prepezia-be/pkg/genai"
	pktNats "prepezia-be/pkg/nats"
	"prepezia-be/pkg/pager"
	"prepezia-be/pkg/progress"
	"prepezia-be/pkg/storage"
)

// semanticSearchThreshold is the minimum cosine similarity for a chunk to
// count as a match.
const semanticSearchThreshold = 0.35

var ErrNoteNotFound = errors.New("note not found")

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteDetailResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) (*dto.NoteListResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	SemanticSearch(ctx context.Context, userId uuid.UUID, req *dto.SemanticSearchRequest) ([]*dto.SemanticSearchResult, error)
}

type noteService struct {
	uowFactory        unitofwork.RepositoryFactory
	flowProvider      genai.FlowProvider
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	objectStore       storage.ObjectStore
	logger            logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	flowProvider genai.FlowProvider,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	objectStore storage.ObjectStore,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:        uowFactory,
		flowProvider:      flowProvider,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		objectStore:       objectStore,
		logger:            log,
	}
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	hasTopic := req.Topic != ""
	hasSources := len(req.Sources) > 0
	if hasTopic == hasSources {
		return nil, errors.New("provide exactly one of topic or sources")
	}

	var genReq genai.NoteRequest
	if hasTopic {
		genReq = genai.ByTopic{Topic: req.Topic, Level: req.Level}
	} else {
		genReq = genai.BySources{Sources: req.Sources, Level: req.Level}
	}

	payload, err := s.flowProvider.GenerateNotes(ctx, genReq)
	if err != nil {
		return nil, err
	}

	topic := req.Topic
	if topic == "" {
		topic = payload.Title
	}

	note := entity.Note{
		Id:                  uuid.New(),
		UserId:              userId,
		Topic:               topic,
		Level:               entity.StudyLevel(req.Level),
		Content:             payload.Content,
		GeneratedContent:    map[entity.ContentKind]json.RawMessage{},
		InteractionProgress: progress.SignalMap{},
		Progress:            0,
		Status:              progress.StatusNotStarted,
		CreatedAt:           time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	msgJson, err := json.Marshal(dto.PublishEmbedNoteMessage{NoteId: note.Id, UserId: userId})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TypeNoteCreated, map[string]interface{}{
		"note_id": note.Id,
		"user_id": userId,
		"topic":   note.Topic,
	})

	return &dto.NoteResponse{
		Id:        note.Id,
		Topic:     note.Topic,
		Level:     string(note.Level),
		Progress:  note.Progress,
		Status:    string(note.Status),
		CreatedAt: note.CreatedAt,
	}, nil
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	generated := make(map[string]json.RawMessage, len(note.GeneratedContent))
	for kind, raw := range note.GeneratedContent {
		generated[string(kind)] = raw
	}
	signals := make(map[string]float64, len(note.InteractionProgress))
	for sig, val := range note.InteractionProgress {
		signals[string(sig)] = val
	}

	return &dto.NoteDetailResponse{
		NoteResponse: dto.NoteResponse{
			Id:        note.Id,
			Topic:     note.Topic,
			Level:     string(note.Level),
			Progress:  note.Progress,
			Status:    string(note.Status),
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
		},
		Content:             note.Content,
		Pages:               pager.Split(note.Content),
		GeneratedContent:    generated,
		InteractionProgress: signals,
	}, nil
}

func (s *noteService) List(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) (*dto.NoteListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}

	filterSpecs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if req.Query != "" {
		filterSpecs = append(filterSpecs, specification.NoteSearchQuery{Query: req.Query})
	}
	if req.Status != "" {
		filterSpecs = append(filterSpecs, specification.ByStatus{Status: progress.Status(req.Status)})
	}

	total, err := uow.NoteRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(filterSpecs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	notes, err := uow.NoteRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		items = append(items, dto.NoteResponse{
			Id:        note.Id,
			Topic:     note.Topic,
			Level:     string(note.Level),
			Progress:  note.Progress,
			Status:    string(note.Status),
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
		})
	}

	return &dto.NoteListResponse{
		Notes: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// Object cleanup is best-effort; orphaned media never blocks deletion.
	go func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		prefix := storage.MediaPrefix(userId.String(), id.String())
		if err := s.objectStore.DeletePrefix(cleanupCtx, prefix); err != nil {
			s.logger.Warn("NoteService", "media cleanup failed", map[string]interface{}{
				"note_id": id,
				"error":   err.Error(),
			})
		}
	}()

	return nil
}

func (s *noteService) SemanticSearch(ctx context.Context, userId uuid.UUID, req *dto.SemanticSearchRequest) ([]*dto.SemanticSearchResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit < 1 {
		limit = 10
	}

	embeddingRes, err := s.embeddingProvider.Generate(req.Query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	scored, err := uow.NoteEmbeddingRepository().SearchSimilarWithScore(
		ctx, embeddingRes.Embedding.Values, limit, userId, semanticSearchThreshold,
	)
	if err != nil {
		return nil, err
	}
	if len(scored) == 0 {
		return []*dto.SemanticSearchResult{}, nil
	}

	// Keep the best-scoring chunk per note, preserving relevance order.
	ids := make([]uuid.UUID, 0, len(scored))
	best := make(map[uuid.UUID]*dto.SemanticSearchResult, len(scored))
	for _, sr := range scored {
		if _, seen := best[sr.Embedding.NoteId]; seen {
			continue
		}
		ids = append(ids, sr.Embedding.NoteId)
		best[sr.Embedding.NoteId] = &dto.SemanticSearchResult{
			NoteId:     sr.Embedding.NoteId,
			Snippet:    snippet(sr.Embedding.Document, 200),
			Similarity: sr.Similarity,
		}
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	topics := make(map[uuid.UUID]string, len(notes))
	for _, note := range notes {
		topics[note.Id] = note.Topic
	}

	results := make([]*dto.SemanticSearchResult, 0, len(ids))
	for _, id := range ids {
		topic, ok := topics[id]
		if !ok {
			continue // stale index entry for a removed note
		}
		res := best[id]
		res.Topic = topic
		results = append(results, res)
	}

	return results, nil
}

func (s *noteService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("NoteService", "event publish failed", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
