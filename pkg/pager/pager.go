package pager

import (
	"strings"
	"time"
)

// Delimiter is the literal page break: a line of exactly three hyphens with a
// newline on either side.
const Delimiter = "\n---\n"

// DwellThreshold is the minimum continuous time a reader must spend on a page
// before it counts as viewed.
const DwellThreshold = 10 * time.Second

// Split cuts note content into pages on the page-break delimiter. Segments
// keep their original order. Empty content yields a single empty page.
func Split(content string) []string {
	return strings.Split(content, Delimiter)
}

// Join is the inverse of Split.
func Join(pages []string) string {
	return strings.Join(pages, Delimiter)
}

// Tracker accumulates which pages of a note have been read past the dwell
// threshold. Once a page is counted it stays counted; navigating away early
// never removes earned progress.
type Tracker struct {
	total  int
	viewed map[int]bool
}

// NewTracker builds a tracker over the pages of the given content.
func NewTracker(content string) *Tracker {
	return &Tracker{
		total:  len(Split(content)),
		viewed: make(map[int]bool),
	}
}

// View records a visit to the page at index page that lasted dwell. The page
// is marked viewed only when dwell meets the threshold. Returns true if the
// page is counted as viewed after this call.
func (t *Tracker) View(page int, dwell time.Duration) bool {
	if page < 0 || page >= t.total {
		return false
	}
	if t.viewed[page] {
		return true
	}
	if dwell < DwellThreshold {
		return false
	}
	t.viewed[page] = true
	return true
}

// ViewedCount returns how many distinct pages have been read.
func (t *Tracker) ViewedCount() int {
	return len(t.viewed)
}

// Total returns the page count.
func (t *Tracker) Total() int {
	return t.total
}

// Percent returns the notesViewed signal value: distinct viewed pages over
// total pages, on a 0-100 scale.
func (t *Tracker) Percent() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(len(t.viewed)) / float64(t.total) * 100
}

// ViewedPages returns the sorted set of counted page indices.
func (t *Tracker) ViewedPages() []int {
	pages := make([]int, 0, len(t.viewed))
	for p := range t.viewed {
		pages = append(pages, p)
	}
	for i := 1; i < len(pages); i++ {
		for j := i; j > 0 && pages[j] < pages[j-1]; j-- {
			pages[j], pages[j-1] = pages[j-1], pages[j]
		}
	}
	return pages
}
