package genai

import "fmt"

// Payload types for the structured content kinds. Each validates itself after
// unmarshalling; a payload that fails validation is treated the same as no
// payload at all.

type NotesPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"` // pages separated by the pager delimiter
}

func (p *NotesPayload) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("missing title")
	}
	if p.Content == "" {
		return fmt.Errorf("missing content")
	}
	return nil
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardsPayload struct {
	Cards []Flashcard `json:"cards"`
}

func (p *FlashcardsPayload) Validate() error {
	if len(p.Cards) == 0 {
		return fmt.Errorf("no cards")
	}
	for i, c := range p.Cards {
		if c.Front == "" || c.Back == "" {
			return fmt.Errorf("card %d has an empty side", i)
		}
	}
	return nil
}

type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}

type QuizPayload struct {
	Questions []QuizQuestion `json:"questions"`
}

func (p *QuizPayload) Validate() error {
	if len(p.Questions) == 0 {
		return fmt.Errorf("no questions")
	}
	for i, q := range p.Questions {
		if q.Question == "" {
			return fmt.Errorf("question %d is empty", i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d has fewer than 2 options", i)
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			return fmt.Errorf("question %d answer index out of range", i)
		}
	}
	return nil
}

type DeckSlide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

type DeckPayload struct {
	Slides []DeckSlide `json:"slides"`
}

func (p *DeckPayload) Validate() error {
	if len(p.Slides) == 0 {
		return fmt.Errorf("no slides")
	}
	for i, s := range p.Slides {
		if s.Title == "" {
			return fmt.Errorf("slide %d has no title", i)
		}
	}
	return nil
}

type MindMapNode struct {
	Label    string        `json:"label"`
	Children []MindMapNode `json:"children,omitempty"`
}

type MindMapPayload struct {
	Root MindMapNode `json:"root"`
}

func (p *MindMapPayload) Validate() error {
	if p.Root.Label == "" {
		return fmt.Errorf("root node has no label")
	}
	return validateNode(p.Root, 0)
}

func validateNode(n MindMapNode, depth int) error {
	if depth > 10 {
		return fmt.Errorf("mind map deeper than 10 levels")
	}
	for _, c := range n.Children {
		if c.Label == "" {
			return fmt.Errorf("node under %q has no label", n.Label)
		}
		if err := validateNode(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

type PodcastScriptPayload struct {
	Title  string `json:"title"`
	Script string `json:"script"`
}

func (p *PodcastScriptPayload) Validate() error {
	if p.Script == "" {
		return fmt.Errorf("missing script")
	}
	return nil
}
