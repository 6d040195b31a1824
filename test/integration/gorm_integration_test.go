package integration

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"

	"prepezia-be/internal/entity"
	"prepezia-be/internal/repository/specification"
	"prepezia-be/internal/repository/unitofwork"
	"prepezia-be/pkg/database"
	"prepezia-be/pkg/progress"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.NoteRepository())
	assert.NotNil(t, uow.NoteEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Note Repository", func(t *testing.T) {
		count, err := uow.NoteRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Note count: %d", count)
	})

	t.Run("Check Note JSONB Patch Round Trip", func(t *testing.T) {
		ctx := context.Background()

		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     entity.UserRoleUser,
			Status:   entity.UserStatusActive,
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		note := &entity.Note{
			Id:                  uuid.New(),
			UserId:              userId,
			Topic:               "Integration Topic",
			Level:               entity.StudyLevelUndergraduate,
			Content:             "page one\n---\npage two",
			GeneratedContent:    map[entity.ContentKind]json.RawMessage{},
			InteractionProgress: progress.SignalMap{},
			Status:              progress.StatusNotStarted,
		}
		err = uow.NoteRepository().Create(ctx, note)
		assert.NoError(t, err)

		// Key-level patch, then read back through the specification chain.
		payload := json.RawMessage(`{"cards":[{"front":"a","back":"b"}]}`)
		err = uow.NoteRepository().PatchGeneratedContent(ctx, note.Id, entity.ContentKindFlashcards, payload)
		assert.NoError(t, err)

		found, err := uow.NoteRepository().FindOne(ctx,
			specification.ByID{ID: note.Id},
			specification.UserOwnedBy{UserID: userId},
		)
		assert.NoError(t, err)
		assert.NotNil(t, found)
		assert.JSONEq(t, string(payload), string(found.GeneratedContent[entity.ContentKindFlashcards]))

		// Removing the kind also writes the recomputed progress pair.
		err = uow.NoteRepository().RemoveContentKind(ctx, note.Id, entity.ContentKindFlashcards,
			progress.SignalMap{}, 0, progress.StatusNotStarted)
		assert.NoError(t, err)

		found, err = uow.NoteRepository().FindOne(ctx, specification.ByID{ID: note.Id})
		assert.NoError(t, err)
		assert.False(t, found.HasContent(entity.ContentKindFlashcards))

		// Cleanup
		err = uow.NoteRepository().Delete(ctx, note.Id)
		assert.NoError(t, err)
	})

	t.Run("Check Transactional Embedding Rewrite", func(t *testing.T) {
		ctx := context.Background()

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		count, err := uow.NoteEmbeddingRepository().Count(ctx)
		assert.NoError(t, err)
		t.Logf("NoteEmbedding count inside tx: %d", count)

		err = uow.Commit()
		assert.NoError(t, err)
	})
}
