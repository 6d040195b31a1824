package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"prepezia-be/internal/entity"
	"prepezia-be/internal/model"
	"prepezia-be/pkg/progress"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:                  n.Id,
		UserId:              n.UserId,
		Topic:               n.Topic,
		Level:               entity.StudyLevel(n.Level),
		Content:             n.Content,
		GeneratedContent:    contentToEntity(n.GeneratedContent),
		InteractionProgress: signalsToEntity(n.InteractionProgress),
		Progress:            n.Progress,
		Status:              progress.Status(n.Status),
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
		IsDeleted:           n.DeletedAt.Valid,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:                  n.Id,
		UserId:              n.UserId,
		Topic:               n.Topic,
		Level:               string(n.Level),
		Content:             n.Content,
		GeneratedContent:    contentToModel(n.GeneratedContent),
		InteractionProgress: signalsToModel(n.InteractionProgress),
		Progress:            n.Progress,
		Status:              string(n.Status),
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func contentToEntity(jm datatypes.JSONMap) map[entity.ContentKind]json.RawMessage {
	out := make(map[entity.ContentKind]json.RawMessage, len(jm))
	for k, v := range jm {
		raw, err := json.Marshal(v)
		if err != nil {
			continue
		}
		out[entity.ContentKind(k)] = raw
	}
	return out
}

func contentToModel(content map[entity.ContentKind]json.RawMessage) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(content))
	for k, raw := range content {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out[string(k)] = v
	}
	return out
}

func signalsToEntity(jm datatypes.JSONMap) progress.SignalMap {
	out := make(progress.SignalMap, len(jm))
	for k, v := range jm {
		// JSONB numbers decode as float64; anything else is a corrupt row
		// and is skipped rather than poisoning the whole map.
		if f, ok := v.(float64); ok {
			out[progress.Signal(k)] = f
		}
	}
	return out
}

func signalsToModel(signals progress.SignalMap) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(signals))
	for k, v := range signals {
		out[string(k)] = v
	}
	return out
}
