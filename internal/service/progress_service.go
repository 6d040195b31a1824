package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/entity"
	"prepezia-be/internal/pkg/logger"
	"prepezia-be/internal/repository/memory"
	"prepezia-be/internal/repository/specification"
	"prepezia-be/internal/repository/unitofwork"
	"prepezia-be/internal/websocket"
	"prepezia-be/pkg/events"
	pktNats "prepezia-be/pkg/nats"
	"prepezia-be/pkg/pager"
	"prepezia-be/pkg/progress"
)

var ErrReaderSessionNotFound = errors.New("reader session not found or expired")

// IProgressService owns the interaction signals of a note and the reading
// sessions that feed the notesViewed signal.
type IProgressService interface {
	RecordSignal(ctx context.Context, userId, noteId uuid.UUID, req *dto.RecordSignalRequest) (*dto.ProgressResponse, error)
	GetProgress(ctx context.Context, userId, noteId uuid.UUID) (*dto.ProgressResponse, error)
	OpenReader(ctx context.Context, userId, noteId uuid.UUID) (*dto.OpenReaderResponse, error)
	TurnPage(ctx context.Context, userId uuid.UUID, req *dto.TurnPageRequest) (*dto.TurnPageResponse, error)
}

type progressService struct {
	uowFactory     unitofwork.RepositoryFactory
	readerSessions *memory.ReaderSessionRepository
	eventPublisher *pktNats.Publisher
	wsHub          *websocket.Hub
	logger         logger.ILogger
}

func NewProgressService(
	uowFactory unitofwork.RepositoryFactory,
	readerSessions *memory.ReaderSessionRepository,
	eventPublisher *pktNats.Publisher,
	wsHub *websocket.Hub,
	log logger.ILogger,
) IProgressService {
	return &progressService{
		uowFactory:     uowFactory,
		readerSessions: readerSessions,
		eventPublisher: eventPublisher,
		wsHub:          wsHub,
		logger:         log,
	}
}

func (s *progressService) RecordSignal(ctx context.Context, userId, noteId uuid.UUID, req *dto.RecordSignalRequest) (*dto.ProgressResponse, error) {
	sig := progress.Signal(req.Signal)
	if !progress.IsValid(sig) {
		return nil, errors.New("unknown signal")
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

	return s.applySignals(ctx, uow, note, progress.SignalMap{sig: req.Value})
}

// applySignals merges incoming values into a note's signal map and persists
// the derived pair when anything moved. Signals only ever ratchet upward.
func (s *progressService) applySignals(ctx context.Context, uow unitofwork.UnitOfWork, note *entity.Note, incoming progress.SignalMap) (*dto.ProgressResponse, error) {
	merged, changed := progress.Merge(note.InteractionProgress, incoming)
	pct, status := progress.Compute(merged)

	if changed {
		if err := uow.NoteRepository().PatchProgress(ctx, note.Id, merged, pct, status); err != nil {
			return nil, err
		}

		if status == progress.StatusCompleted && note.Status != progress.StatusCompleted {
			s.announceCompletion(ctx, note.UserId, note.Id, note.Topic)
		}
	}

	return toProgressResponse(merged, pct, status), nil
}

func (s *progressService) GetProgress(ctx context.Context, userId, noteId uuid.UUID) (*dto.ProgressResponse, error) {
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

	return toProgressResponse(note.InteractionProgress, note.Progress, note.Status), nil
}

func (s *progressService) OpenReader(ctx context.Context, userId, noteId uuid.UUID) (*dto.OpenReaderResponse, error) {
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

	session := &memory.ReaderSession{
		ID:      uuid.New().String(),
		UserID:  userId,
		NoteID:  noteId,
		Tracker: pager.NewTracker(note.Content),
	}
	s.readerSessions.Save(session)

	pages := pager.Split(note.Content)
	return &dto.OpenReaderResponse{
		SessionId: session.ID,
		Pages:     pages,
		Total:     len(pages),
	}, nil
}

func (s *progressService) TurnPage(ctx context.Context, userId uuid.UUID, req *dto.TurnPageRequest) (*dto.TurnPageResponse, error) {
	session, ok := s.readerSessions.Get(req.SessionId)
	if !ok || session.UserID != userId {
		return nil, ErrReaderSessionNotFound
	}

	dwell := time.Duration(req.DwellMs) * time.Millisecond
	viewed := session.Tracker.View(req.Page, dwell)
	s.readerSessions.Save(session) // refresh TTL

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: session.NoteID},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	res, err := s.applySignals(ctx, uow, note, progress.SignalMap{
		progress.SignalNotesViewed: session.Tracker.Percent(),
	})
	if err != nil {
		return nil, err
	}

	return &dto.TurnPageResponse{
		Viewed:      viewed,
		ViewedCount: session.Tracker.ViewedCount(),
		Total:       session.Tracker.Total(),
		Progress:    res.Progress,
		Status:      res.Status,
	}, nil
}

func (s *progressService) announceCompletion(ctx context.Context, userId, noteId uuid.UUID, topic string) {
	data := map[string]interface{}{
		"note_id": noteId,
		"user_id": userId,
		"topic":   topic,
	}
	if s.wsHub != nil {
		s.wsHub.Send(userId, events.TypeNoteCompleted, data)
	}
	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type:       events.TypeNoteCompleted,
			Data:       data,
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ProgressService", "completion event publish failed", map[string]interface{}{
				"note_id": noteId,
				"error":   err.Error(),
			})
		}
	}
}

func toProgressResponse(signals progress.SignalMap, pct int, status progress.Status) *dto.ProgressResponse {
	out := make(map[string]float64, len(signals))
	for sig, val := range signals {
		out[string(sig)] = val
	}
	return &dto.ProgressResponse{
		Progress: pct,
		Status:   string(status),
		Signals:  out,
	}
}
