package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"prepezia-be/pkg/pager"
)

// ReaderSession is the server-side state of one reading pass over a note's
// pages. It lives only in memory; the durable outcome is the notesViewed
// signal patched onto the note.
type ReaderSession struct {
	ID      string
	UserID  uuid.UUID
	NoteID  uuid.UUID
	Tracker *pager.Tracker
}

type ReaderSessionRepository struct {
	cache *cache.Cache
}

func NewReaderSessionRepository() *ReaderSessionRepository {
	// Sessions expire after an hour of inactivity, purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ReaderSessionRepository{
		cache: c,
	}
}

func (r *ReaderSessionRepository) Save(session *ReaderSession) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *ReaderSessionRepository) Get(sessionID string) (*ReaderSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*ReaderSession), true
	}
	return nil, false
}

func (r *ReaderSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
