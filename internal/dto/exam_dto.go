package dto

import "time"

// ExamQuestionView is a question as shown to the student. The answer index
// stays server-side for the duration of the attempt.
type ExamQuestionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type StartExamResponse struct {
	SessionId string             `json:"sessionId"`
	Questions []ExamQuestionView `json:"questions"`
	Deadline  time.Time          `json:"deadline"`
}

type SubmitExamRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Answers   []int  `json:"answers" validate:"required"`
}

type ExamResultResponse struct {
	Score    int    `json:"score"` // percent correct
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}
