package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ExamQuestion is one multiple-choice question held server-side so the
// correct answer never travels to the client during a timed attempt.
type ExamQuestion struct {
	Prompt  string
	Options []string
	Answer  int
}

// ExamSession is one timed attempt over a note's generated quiz.
type ExamSession struct {
	ID        string
	UserID    uuid.UUID
	NoteID    uuid.UUID
	Questions []ExamQuestion
	StartedAt time.Time
	Deadline  time.Time
}

type ExamSessionRepository struct {
	cache *cache.Cache
}

func NewExamSessionRepository() *ExamSessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ExamSessionRepository{
		cache: c,
	}
}

func (r *ExamSessionRepository) Save(session *ExamSession) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *ExamSessionRepository) Get(sessionID string) (*ExamSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*ExamSession), true
	}
	return nil, false
}

func (r *ExamSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
