package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepezia-be/internal/entity"
	"prepezia-be/internal/mapper"
	"prepezia-be/internal/model"
	"prepezia-be/internal/repository/contract"
	"prepezia-be/internal/repository/specification"
	"prepezia-be/pkg/progress"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return contract.Wrap("note.create", err)
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return contract.Wrap("note.update", err)
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return contract.Wrap("note.delete", r.db.WithContext(ctx).Delete(&model.Note{}, id).Error)
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, contract.Wrap("note.find_one", err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, contract.Wrap("note.find_all", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, contract.Wrap("note.count", err)
	}
	return count, nil
}

func (r *NoteRepositoryImpl) PatchGeneratedContent(ctx context.Context, id uuid.UUID, kind entity.ContentKind, payload json.RawMessage) error {
	err := r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"generated_content": gorm.Expr(
				"jsonb_set(COALESCE(generated_content, '{}'::jsonb), ?, ?::jsonb, true)",
				fmt.Sprintf("{%s}", kind),
				string(payload),
			),
			"updated_at": time.Now(),
		}).Error
	return contract.Wrap("note.patch_generated_content", err)
}

func (r *NoteRepositoryImpl) RemoveContentKind(ctx context.Context, id uuid.UUID, kind entity.ContentKind, signals progress.SignalMap, pct int, status progress.Status) error {
	sigJSON, err := json.Marshal(signals)
	if err != nil {
		return contract.Wrap("note.remove_content_kind", err)
	}

	// Single UPDATE so the payload key and its signals cannot diverge.
	err = r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"generated_content":    gorm.Expr("COALESCE(generated_content, '{}'::jsonb) - ?", string(kind)),
			"interaction_progress": gorm.Expr("?::jsonb", string(sigJSON)),
			"progress":             pct,
			"status":               string(status),
			"updated_at":           time.Now(),
		}).Error
	return contract.Wrap("note.remove_content_kind", err)
}

func (r *NoteRepositoryImpl) PatchProgress(ctx context.Context, id uuid.UUID, signals progress.SignalMap, pct int, status progress.Status) error {
	sigJSON, err := json.Marshal(signals)
	if err != nil {
		return contract.Wrap("note.patch_progress", err)
	}

	err = r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"interaction_progress": gorm.Expr("?::jsonb", string(sigJSON)),
			"progress":             pct,
			"status":               string(status),
			"updated_at":           time.Now(),
		}).Error
	return contract.Wrap("note.patch_progress", err)
}
