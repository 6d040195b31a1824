package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/entity"
	"prepezia-be/internal/pkg/logger"
	"prepezia-be/internal/repository/specification"
	"prepezia-be/internal/repository/unitofwork"
	"prepezia-be/pkg/embedding"
	"prepezia-be/pkg/pager"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService runs the note embedding pipeline: each page of a created
// note becomes one embedded chunk, replacing whatever was indexed before.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "unmarshal failed, dropping message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads would never succeed on retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: payload.NoteId})
	if err != nil {
		cs.logger.Error("Consumer", "note fetch failed", map[string]interface{}{"note_id": payload.NoteId, "error": err.Error()})
		msg.Nack()
		return
	}
	if note == nil {
		// Deleted before the pipeline ran; nothing to index.
		msg.Ack()
		return
	}

	pages := pager.Split(note.Content)
	newEmbeddings := make([]*entity.NoteEmbedding, 0, len(pages))

	for i, page := range pages {
		if page == "" {
			continue
		}
		res, err := cs.embeddingProvider.Generate(page, "RETRIEVAL_DOCUMENT")
		if err != nil {
			cs.logger.Error("Consumer", "embedding generation failed", map[string]interface{}{
				"note_id": payload.NoteId,
				"chunk":   i,
				"error":   err.Error(),
			})
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.NoteEmbedding{
			Id:             uuid.New(),
			Document:       page,
			EmbeddingValue: res.Embedding.Values,
			NoteId:         note.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, note.Id); err != nil {
		cs.logger.Error("Consumer", "stale embedding delete failed", map[string]interface{}{"note_id": note.Id, "error": err.Error()})
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.NoteEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			cs.logger.Error("Consumer", "bulk embedding insert failed", map[string]interface{}{"note_id": note.Id, "error": err.Error()})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		msg.Nack()
		return
	}

	cs.logger.Info("Consumer", "note indexed", map[string]interface{}{
		"note_id": note.Id,
		"chunks":  len(newEmbeddings),
	})
	msg.Ack()
}
