package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"prepezia-be/internal/entity"
	"prepezia-be/internal/mapper"
	"prepezia-be/internal/model"
	"prepezia-be/internal/repository/contract"
	"prepezia-be/internal/repository/specification"
)

type NoteEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteEmbeddingMapper
}

func NewNoteEmbeddingRepository(db *gorm.DB) contract.NoteEmbeddingRepository {
	return &NoteEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteEmbeddingMapper(),
	}
}

func (r *NoteEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.NoteEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return contract.Wrap("note_embedding.create", err)
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.NoteEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.NoteEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}
	return contract.Wrap("note_embedding.create_bulk", r.db.WithContext(ctx).Create(&models).Error)
}

func (r *NoteEmbeddingRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	err := r.db.WithContext(ctx).Unscoped().
		Where("note_id = ?", noteId).
		Delete(&model.NoteEmbedding{}).Error
	return contract.Wrap("note_embedding.delete_by_note", err)
}

func (r *NoteEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEmbedding, error) {
	var models []*model.NoteEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, contract.Wrap("note_embedding.find_all", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.NoteEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, contract.Wrap("note_embedding.count", err)
	}
	return count, nil
}

func (r *NoteEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredNoteEmbedding, error) {
	vec := pgvector.NewVector(embedding)

	type row struct {
		model.NoteEmbedding
		Similarity float64
	}

	var rows []row
	// Cosine distance: similarity = 1 - (embedding <=> query).
	err := r.db.WithContext(ctx).
		Table("note_embeddings").
		Select("note_embeddings.*, 1 - (embedding_value <=> ?) AS similarity", vec).
		Joins("JOIN notes ON notes.id = note_embeddings.note_id").
		Where("notes.user_id = ?", userId).
		Where("notes.deleted_at IS NULL").
		Where("note_embeddings.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", vec, threshold).
		Order("similarity DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, contract.Wrap("note_embedding.search_similar", err)
	}

	results := make([]*contract.ScoredNoteEmbedding, len(rows))
	for i, rw := range rows {
		emb := rw.NoteEmbedding
		results[i] = &contract.ScoredNoteEmbedding{
			Embedding:  r.mapper.ToEntity(&emb),
			Similarity: rw.Similarity,
		}
	}
	return results, nil
}
