package specification

import (
	"gorm.io/gorm"

	"prepezia-be/pkg/progress"
)

// NoteSearchQuery matches topic or content case-insensitively.
type NoteSearchQuery struct {
	Query string
}

func (s NoteSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	like := "%" + s.Query + "%"
	return db.Where("topic ILIKE ? OR content ILIKE ?", like, like)
}

// ByStatus filters notes by derived completion status.
type ByStatus struct {
	Status progress.Status
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// ByEmail filters users by email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByNoteId filters embeddings by their parent note.
type ByNoteId struct {
	NoteID interface{}
}

func (s ByNoteId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note_id = ?", s.NoteID)
}
