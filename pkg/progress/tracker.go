package progress

import "math"

// Signal identifies one tracked interaction measure on a note.
type Signal string

const (
	SignalNotesViewed       Signal = "notesViewed"
	SignalQuizCompleted     Signal = "quizCompleted"
	SignalFlashcardsFlipped Signal = "flashcardsFlipped"
	SignalDeckViewed        Signal = "deckViewed"
	SignalInfographicViewed Signal = "infographicViewed"
	SignalMindmapViewed     Signal = "mindmapViewed"
	SignalPodcastListened   Signal = "podcastListened"
)

// Status is the derived completion state of a note.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// SignalMap holds current signal values. Fractional signals are 0-100.
// Boolean signals are stored as 0 or 1 so the whole map serializes uniformly.
type SignalMap map[Signal]float64

type weightSpec struct {
	weight     float64
	fractional bool
}

// Weights sum to 100 across the tracked signals. podcastListened is tracked
// for completeness but carries no weight.
var weights = map[Signal]weightSpec{
	SignalNotesViewed:       {weight: 20, fractional: true},
	SignalQuizCompleted:     {weight: 40, fractional: true},
	SignalFlashcardsFlipped: {weight: 15, fractional: true},
	SignalDeckViewed:        {weight: 10},
	SignalInfographicViewed: {weight: 5},
	SignalMindmapViewed:     {weight: 10},
	SignalPodcastListened:   {weight: 0},
}

// IsValid reports whether s is a known signal.
func IsValid(s Signal) bool {
	_, ok := weights[s]
	return ok
}

// IsFractional reports whether s is a 0-100 scale signal (as opposed to boolean).
func IsFractional(s Signal) bool {
	return weights[s].fractional
}

// Compute reduces a signal map to the weighted completion percentage and its
// status. Absent signals count as zero. The function is pure: it never mutates
// its input and the same map always yields the same pair.
func Compute(m SignalMap) (int, Status) {
	var total float64
	for sig, spec := range weights {
		val, ok := m[sig]
		if !ok {
			continue
		}
		if spec.fractional {
			total += clamp(val, 0, 100) / 100 * spec.weight
		} else if val > 0 {
			total += spec.weight
		}
	}

	pct := int(math.Round(total))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return pct, StatusFor(pct)
}

// StatusFor derives the status enum from a progress percentage.
func StatusFor(pct int) Status {
	switch {
	case pct >= 100:
		return StatusCompleted
	case pct > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// Merge folds incoming signal values into existing ones, keeping the maximum
// per signal. Signals only ever move toward completion; regressions in the
// incoming map are ignored. Returns the merged map and whether anything
// actually changed (callers skip persistence when it didn't).
func Merge(existing, incoming SignalMap) (SignalMap, bool) {
	merged := make(SignalMap, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}

	changed := false
	for k, v := range incoming {
		if !IsValid(k) {
			continue
		}
		if IsFractional(k) {
			v = clamp(v, 0, 100)
		} else if v > 0 {
			v = 1
		} else {
			v = 0
		}
		cur, ok := merged[k]
		if !ok && v == 0 {
			// Absent already counts as zero; writing it would be a phantom change.
			continue
		}
		if !ok || v > cur {
			merged[k] = v
			changed = true
		}
	}

	return merged, changed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
