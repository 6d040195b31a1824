package pager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pages   int
	}{
		{"single page", "just one page", 1},
		{"two pages", "first\n---\nsecond", 2},
		{"empty content is one empty page", "", 1},
		{"trailing delimiter yields empty last page", "a\n---\n", 2},
		{"inline dashes are not a break", "a --- b", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := Split(tt.content)
			assert.Len(t, pages, tt.pages)
			assert.Equal(t, tt.content, Join(pages))
		})
	}
}

func TestViewRequiresDwellThreshold(t *testing.T) {
	tr := NewTracker("a\n---\nb")

	assert.False(t, tr.View(0, 9999*time.Millisecond))
	assert.Equal(t, 0, tr.ViewedCount())

	assert.True(t, tr.View(0, 10*time.Second))
	assert.Equal(t, 1, tr.ViewedCount())
}

func TestViewedPagesStayCounted(t *testing.T) {
	tr := NewTracker("a\n---\nb")

	assert.True(t, tr.View(0, 15*time.Second))
	// A later short revisit never un-counts the page.
	assert.True(t, tr.View(0, time.Second))
	assert.Equal(t, 1, tr.ViewedCount())
}

func TestViewOutOfRangePage(t *testing.T) {
	tr := NewTracker("a\n---\nb")

	assert.False(t, tr.View(-1, time.Minute))
	assert.False(t, tr.View(2, time.Minute))
	assert.Equal(t, 0, tr.ViewedCount())
}

func TestPercent(t *testing.T) {
	tr := NewTracker("a\n---\nb\n---\nc\n---\nd")
	assert.Equal(t, 0.0, tr.Percent())

	tr.View(0, time.Minute)
	assert.Equal(t, 25.0, tr.Percent())

	tr.View(2, time.Minute)
	assert.Equal(t, 50.0, tr.Percent())
}

func TestEmptyContentIsFullyReadAfterOneView(t *testing.T) {
	tr := NewTracker("")
	assert.Equal(t, 1, tr.Total())

	assert.True(t, tr.View(0, 10*time.Second))
	assert.Equal(t, 100.0, tr.Percent())
}

func TestViewedPagesSorted(t *testing.T) {
	tr := NewTracker("a\n---\nb\n---\nc")
	tr.View(2, time.Minute)
	tr.View(0, time.Minute)

	assert.Equal(t, []int{0, 2}, tr.ViewedPages())
}
