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
	"prepezia-be/internal/websocket"
	"prepezia-be/pkg/events"
	"prepezia-be/pkg/genai"
	pktNats "prepezia-be/pkg/nats"
	"prepezia-be/pkg/progress"
	"prepezia-be/pkg/storage"
)

// IStudioService generates and removes the derived study materials of a note.
type IStudioService interface {
	Generate(ctx context.Context, userId, noteId uuid.UUID, kind entity.ContentKind) (*dto.GeneratedContentResponse, error)
	Delete(ctx context.Context, userId, noteId uuid.UUID, kind entity.ContentKind) error
}

type studioService struct {
	uowFactory     unitofwork.RepositoryFactory
	flowProvider   genai.FlowProvider
	mediaProvider  genai.MediaProvider
	objectStore    storage.ObjectStore
	eventPublisher *pktNats.Publisher
	wsHub          *websocket.Hub
	logger         logger.ILogger
}

func NewStudioService(
	uowFactory unitofwork.RepositoryFactory,
	flowProvider genai.FlowProvider,
	mediaProvider genai.MediaProvider,
	objectStore storage.ObjectStore,
	eventPublisher *pktNats.Publisher,
	wsHub *websocket.Hub,
	log logger.ILogger,
) IStudioService {
	return &studioService{
		uowFactory:     uowFactory,
		flowProvider:   flowProvider,
		mediaProvider:  mediaProvider,
		objectStore:    objectStore,
		eventPublisher: eventPublisher,
		wsHub:          wsHub,
		logger:         log,
	}
}

// Persisted shapes of the media kinds. Binary data never lands in the row;
// only the download URL does.
type podcastContent struct {
	Title    string `json:"title"`
	Script   string `json:"script"`
	AudioUrl string `json:"audioUrl"`
}

type infographicContent struct {
	ImageUrl string `json:"imageUrl"`
}

func (s *studioService) Generate(ctx context.Context, userId, noteId uuid.UUID, kind entity.ContentKind) (*dto.GeneratedContentResponse, error) {
	if !kind.Valid() {
		return nil, errors.New("unknown content kind")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	payload, err := s.buildPayload(ctx, note, kind)
	if err != nil {
		return nil, err
	}

	if err := uow.NoteRepository().PatchGeneratedContent(ctx, noteId, kind, payload); err != nil {
		return nil, err
	}

	s.notify(ctx, userId, events.TypeContentGenerated, map[string]interface{}{
		"note_id": noteId,
		"user_id": userId,
		"kind":    string(kind),
	})

	return &dto.GeneratedContentResponse{
		Kind:    string(kind),
		Payload: payload,
	}, nil
}

// buildPayload produces the JSON that will be stored for the kind. Media
// kinds are uploaded first; a failed upload aborts before anything is
// persisted, leaving the kind absent.
func (s *studioService) buildPayload(ctx context.Context, note *entity.Note, kind entity.ContentKind) (json.RawMessage, error) {
	switch kind {
	case entity.ContentKindFlashcards:
		p, err := s.flowProvider.GenerateFlashcards(ctx, note.Content)
		if err != nil {
			return nil, err
		}
		return json.Marshal(p)

	case entity.ContentKindQuiz:
		p, err := s.flowProvider.GenerateQuiz(ctx, note.Content)
		if err != nil {
			return nil, err
		}
		return json.Marshal(p)

	case entity.ContentKindDeck:
		p, err := s.flowProvider.GenerateDeck(ctx, note.Content)
		if err != nil {
			return nil, err
		}
		return json.Marshal(p)

	case entity.ContentKindMindMap:
		p, err := s.flowProvider.GenerateMindMap(ctx, note.Content)
		if err != nil {
			return nil, err
		}
		return json.Marshal(p)

	case entity.ContentKindPodcast:
		script, err := s.flowProvider.GeneratePodcastScript(ctx, note.Content)
		if err != nil {
			return nil, err
		}
		audio, err := s.mediaProvider.GenerateSpeech(ctx, script.Script)
		if err != nil {
			return nil, err
		}
		key := storage.MediaKey(note.UserId.String(), note.Id.String(), string(kind), "mp3")
		url, err := s.objectStore.Upload(ctx, key, audio, "audio/mpeg")
		if err != nil {
			return nil, err
		}
		return json.Marshal(podcastContent{
			Title:    script.Title,
			Script:   script.Script,
			AudioUrl: url,
		})

	case entity.ContentKindInfographic:
		image, err := s.mediaProvider.GenerateImage(ctx, genai.InfographicPrompt(note.Content))
		if err != nil {
			return nil, err
		}
		key := storage.MediaKey(note.UserId.String(), note.Id.String(), string(kind), "png")
		url, err := s.objectStore.Upload(ctx, key, image, "image/png")
		if err != nil {
			return nil, err
		}
		return json.Marshal(infographicContent{ImageUrl: url})
	}

	return nil, errors.New("unknown content kind")
}

func (s *studioService) Delete(ctx context.Context, userId, noteId uuid.UUID, kind entity.ContentKind) error {
	if !kind.Valid() {
		return errors.New("unknown content kind")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}
	if !note.HasContent(kind) {
		// Deleting an absent kind is a no-op, not an error.
		return nil
	}

	signals := make(progress.SignalMap, len(note.InteractionProgress))
	for sig, val := range note.InteractionProgress {
		signals[sig] = val
	}
	for _, sig := range kind.Signals() {
		delete(signals, sig)
	}
	pct, status := progress.Compute(signals)

	if err := uow.NoteRepository().RemoveContentKind(ctx, noteId, kind, signals, pct, status); err != nil {
		return err
	}

	if kind.IsMedia() {
		go s.cleanupMedia(note.UserId, noteId, kind)
	}

	s.notify(ctx, userId, events.TypeContentDeleted, map[string]interface{}{
		"note_id":  noteId,
		"user_id":  userId,
		"kind":     string(kind),
		"progress": pct,
		"status":   string(status),
	})

	return nil
}

// cleanupMedia removes the stored object behind a deleted media kind. The row
// update already succeeded; a leftover object is tolerable, a blocked delete
// is not.
func (s *studioService) cleanupMedia(userId, noteId uuid.UUID, kind entity.ContentKind) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ext := "png"
	if kind == entity.ContentKindPodcast {
		ext = "mp3"
	}
	key := storage.MediaKey(userId.String(), noteId.String(), string(kind), ext)
	if err := s.objectStore.DeletePrefix(ctx, key); err != nil {
		s.logger.Warn("StudioService", "media object cleanup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *studioService) notify(ctx context.Context, userId uuid.UUID, eventType string, data map[string]interface{}) {
	if s.wsHub != nil {
		s.wsHub.Send(userId, eventType, data)
	}
	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type:       eventType,
			Data:       data,
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("StudioService", "event publish failed", map[string]interface{}{
				"type":  eventType,
				"error": err.Error(),
			})
		}
	}
}
