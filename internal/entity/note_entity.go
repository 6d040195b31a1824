package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"prepezia-be/pkg/progress"
)

// StudyLevel is the academic/professional level a note is pitched at.
type StudyLevel string

const (
	StudyLevelElementary    StudyLevel = "elementary"
	StudyLevelMiddleSchool  StudyLevel = "middle_school"
	StudyLevelHighSchool    StudyLevel = "high_school"
	StudyLevelUndergraduate StudyLevel = "undergraduate"
	StudyLevelPostgraduate  StudyLevel = "postgraduate"
	StudyLevelProfessional  StudyLevel = "professional"
)

func (l StudyLevel) Valid() bool {
	switch l {
	case StudyLevelElementary, StudyLevelMiddleSchool, StudyLevelHighSchool,
		StudyLevelUndergraduate, StudyLevelPostgraduate, StudyLevelProfessional:
		return true
	}
	return false
}

// Note is one AI-generated study note plus its derived materials and progress
// state. GeneratedContent holds any subset of the six kinds keyed by kind;
// InteractionProgress holds the raw signals Progress and Status derive from.
// A kind's payload is present iff it was generated and not since deleted.
type Note struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	Topic               string
	Level               StudyLevel
	Content             string
	GeneratedContent    map[ContentKind]json.RawMessage
	InteractionProgress progress.SignalMap
	Progress            int
	Status              progress.Status
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	DeletedAt           *time.Time
	IsDeleted           bool
}

// HasContent reports whether the kind was generated and not since deleted.
func (n *Note) HasContent(kind ContentKind) bool {
	_, ok := n.GeneratedContent[kind]
	return ok
}

type NoteEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	NoteId         uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
}
