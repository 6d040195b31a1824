package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuizPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload QuizPayload
		wantErr string
	}{
		{
			name: "valid quiz",
			payload: QuizPayload{Questions: []QuizQuestion{
				{Question: "2+2?", Options: []string{"3", "4"}, AnswerIndex: 1},
			}},
		},
		{
			name:    "no questions",
			payload: QuizPayload{},
			wantErr: "no questions",
		},
		{
			name: "empty question text",
			payload: QuizPayload{Questions: []QuizQuestion{
				{Options: []string{"a", "b"}},
			}},
			wantErr: "question 0 is empty",
		},
		{
			name: "single option",
			payload: QuizPayload{Questions: []QuizQuestion{
				{Question: "q", Options: []string{"only"}},
			}},
			wantErr: "fewer than 2 options",
		},
		{
			name: "answer index past the options",
			payload: QuizPayload{Questions: []QuizQuestion{
				{Question: "q", Options: []string{"a", "b"}, AnswerIndex: 2},
			}},
			wantErr: "answer index out of range",
		},
		{
			name: "negative answer index",
			payload: QuizPayload{Questions: []QuizQuestion{
				{Question: "q", Options: []string{"a", "b"}, AnswerIndex: -1},
			}},
			wantErr: "answer index out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestFlashcardsPayloadValidate(t *testing.T) {
	valid := FlashcardsPayload{Cards: []Flashcard{{Front: "ATP", Back: "energy carrier"}}}
	assert.NoError(t, valid.Validate())

	empty := FlashcardsPayload{}
	assert.ErrorContains(t, empty.Validate(), "no cards")

	halfCard := FlashcardsPayload{Cards: []Flashcard{{Front: "ATP"}}}
	assert.ErrorContains(t, halfCard.Validate(), "empty side")
}

func TestDeckPayloadValidate(t *testing.T) {
	valid := DeckPayload{Slides: []DeckSlide{{Title: "Intro", Bullets: []string{"one"}}}}
	assert.NoError(t, valid.Validate())

	empty := DeckPayload{}
	assert.ErrorContains(t, empty.Validate(), "no slides")

	untitled := DeckPayload{Slides: []DeckSlide{{Bullets: []string{"one"}}}}
	assert.ErrorContains(t, untitled.Validate(), "no title")
}

func TestMindMapPayloadValidate(t *testing.T) {
	valid := MindMapPayload{Root: MindMapNode{
		Label:    "Photosynthesis",
		Children: []MindMapNode{{Label: "Light reactions"}, {Label: "Calvin cycle"}},
	}}
	assert.NoError(t, valid.Validate())

	noRoot := MindMapPayload{}
	assert.ErrorContains(t, noRoot.Validate(), "root node has no label")

	blankChild := MindMapPayload{Root: MindMapNode{
		Label:    "Root",
		Children: []MindMapNode{{Label: ""}},
	}}
	assert.ErrorContains(t, blankChild.Validate(), "has no label")

	deep := MindMapNode{Label: "leaf"}
	for i := 0; i < 12; i++ {
		deep = MindMapNode{Label: "n", Children: []MindMapNode{deep}}
	}
	tooDeep := MindMapPayload{Root: deep}
	assert.ErrorContains(t, tooDeep.Validate(), "deeper than 10 levels")
}

func TestNotesPayloadValidate(t *testing.T) {
	valid := NotesPayload{Title: "Photosynthesis", Content: "page one\n---\npage two"}
	assert.NoError(t, valid.Validate())

	assert.ErrorContains(t, (&NotesPayload{Content: "x"}).Validate(), "missing title")
	assert.ErrorContains(t, (&NotesPayload{Title: "x"}).Validate(), "missing content")
}

func TestPodcastScriptPayloadValidate(t *testing.T) {
	valid := PodcastScriptPayload{Title: "Ep 1", Script: "HOST: welcome"}
	assert.NoError(t, valid.Validate())

	assert.ErrorContains(t, (&PodcastScriptPayload{Title: "Ep 1"}).Validate(), "missing script")
}
