package entity

import "prepezia-be/pkg/progress"

// ContentKind enumerates the six study materials derivable from a note.
type ContentKind string

const (
	ContentKindFlashcards  ContentKind = "flashcards"
	ContentKindQuiz        ContentKind = "quiz"
	ContentKindDeck        ContentKind = "deck"
	ContentKindInfographic ContentKind = "infographic"
	ContentKindPodcast     ContentKind = "podcast"
	ContentKindMindMap     ContentKind = "mindMap"
)

// AllContentKinds returns the fixed enumeration in a stable order.
func AllContentKinds() []ContentKind {
	return []ContentKind{
		ContentKindFlashcards,
		ContentKindQuiz,
		ContentKindDeck,
		ContentKindInfographic,
		ContentKindPodcast,
		ContentKindMindMap,
	}
}

// Valid reports whether k is one of the six kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindFlashcards, ContentKindQuiz, ContentKindDeck,
		ContentKindInfographic, ContentKindPodcast, ContentKindMindMap:
		return true
	}
	return false
}

// IsMedia reports whether the kind's payload is binary media that must go
// through object storage (only a download URL is ever persisted for these).
func (k ContentKind) IsMedia() bool {
	return k == ContentKindInfographic || k == ContentKindPodcast
}

// Signals returns the interaction signals tied to this kind. Deleting the
// kind must clear these in the same update that removes the payload.
func (k ContentKind) Signals() []progress.Signal {
	switch k {
	case ContentKindFlashcards:
		return []progress.Signal{progress.SignalFlashcardsFlipped}
	case ContentKindQuiz:
		return []progress.Signal{progress.SignalQuizCompleted}
	case ContentKindDeck:
		return []progress.Signal{progress.SignalDeckViewed}
	case ContentKindInfographic:
		return []progress.Signal{progress.SignalInfographicViewed}
	case ContentKindPodcast:
		return []progress.Signal{progress.SignalPodcastListened}
	case ContentKindMindMap:
		return []progress.Signal{progress.SignalMindmapViewed}
	}
	return nil
}
