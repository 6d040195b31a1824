package genai

import (
	"fmt"
	"strings"
)

// A flow pairs the prompt template for one content kind with the response
// schema the provider must enforce. Flows are built once at provider
// construction and reused for every request.
type flow struct {
	kind   string
	schema map[string]interface{}
}

func buildFlows() map[string]flow {
	obj := func(props map[string]interface{}, required ...string) map[string]interface{} {
		return map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   required,
		}
	}
	arr := func(items map[string]interface{}) map[string]interface{} {
		return map[string]interface{}{"type": "array", "items": items}
	}
	str := map[string]interface{}{"type": "string"}
	integer := map[string]interface{}{"type": "integer"}

	return map[string]flow{
		"notes": {
			kind: "notes",
			schema: obj(map[string]interface{}{
				"title":   str,
				"content": str,
			}, "title", "content"),
		},
		"flashcards": {
			kind: "flashcards",
			schema: obj(map[string]interface{}{
				"cards": arr(obj(map[string]interface{}{
					"front": str,
					"back":  str,
				}, "front", "back")),
			}, "cards"),
		},
		"quiz": {
			kind: "quiz",
			schema: obj(map[string]interface{}{
				"questions": arr(obj(map[string]interface{}{
					"question":     str,
					"options":      arr(str),
					"answer_index": integer,
					"explanation":  str,
				}, "question", "options", "answer_index")),
			}, "questions"),
		},
		"deck": {
			kind: "deck",
			schema: obj(map[string]interface{}{
				"slides": arr(obj(map[string]interface{}{
					"title":   str,
					"bullets": arr(str),
				}, "title")),
			}, "slides"),
		},
		"mindMap": {
			kind: "mindMap",
			// Gemini response schemas cannot recurse, so children are typed
			// three levels down and validated properly after unmarshal.
			schema: obj(map[string]interface{}{
				"root": obj(map[string]interface{}{
					"label": str,
					"children": arr(obj(map[string]interface{}{
						"label": str,
						"children": arr(obj(map[string]interface{}{
							"label": str,
						}, "label")),
					}, "label")),
				}, "label"),
			}, "root"),
		},
		"podcast": {
			kind: "podcast",
			schema: obj(map[string]interface{}{
				"title":  str,
				"script": str,
			}, "script"),
		},
	}
}

// Prompt builders. The page-break convention in the notes prompt must match
// the pager delimiter: a line of exactly three hyphens.

func notesPrompt(req NoteRequest) string {
	switch r := req.(type) {
	case ByTopic:
		return fmt.Sprintf(
			"Write comprehensive study notes on the topic %q for a student at the %s level. "+
				"Structure the notes into 3-6 logical pages. Separate pages with a line containing exactly three hyphens (---). "+
				"Use clear headings and short paragraphs.",
			r.Topic, r.Level)
	case BySources:
		return fmt.Sprintf(
			"Distill the following source material into study notes for a student at the %s level. "+
				"Structure the notes into 3-6 logical pages. Separate pages with a line containing exactly three hyphens (---).\n\nSOURCES:\n%s",
			r.Level, strings.Join(r.Sources, "\n\n===\n\n"))
	}
	return ""
}

func quizPrompt(content string) string {
	return fmt.Sprintf(
		"Create a multiple-choice quiz of 8-12 questions testing understanding of these study notes. "+
			"Each question has 4 options and exactly one correct answer (answer_index is 0-based). "+
			"Add a one-sentence explanation per question.\n\nNOTES:\n%s", content)
}

func flashcardsPrompt(content string) string {
	return fmt.Sprintf(
		"Create 10-20 flashcards from these study notes. Front is a term or question, back is a concise answer.\n\nNOTES:\n%s",
		content)
}

func deckPrompt(content string) string {
	return fmt.Sprintf(
		"Create a presentation deck of 6-10 slides summarizing these study notes. "+
			"Each slide has a title and 2-5 bullet points.\n\nNOTES:\n%s", content)
}

func mindMapPrompt(content string) string {
	return fmt.Sprintf(
		"Create a mind map of these study notes. The root is the central concept; "+
			"branch into main themes, each with its key sub-points.\n\nNOTES:\n%s", content)
}

func podcastPrompt(content string) string {
	return fmt.Sprintf(
		"Write a conversational two-host podcast script (about 3 minutes when read aloud) "+
			"explaining these study notes to a student. Keep it engaging and accurate.\n\nNOTES:\n%s", content)
}

// InfographicPrompt builds the image prompt for a note's infographic.
func InfographicPrompt(content string) string {
	return fmt.Sprintf(
		"A clean, modern educational infographic summarizing the key ideas of these study notes. "+
			"Flat design, clear iconography, readable labels:\n\n%s", summarizeForPrompt(content, 1500))
}

// summarizeForPrompt truncates content so media prompts stay within limits.
func summarizeForPrompt(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max])
}
