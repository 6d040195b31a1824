package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"prepezia-be/internal/dto"
	"prepezia-be/internal/entity"
	"prepezia-be/internal/repository/memory"
	"prepezia-be/internal/repository/specification"
	"prepezia-be/internal/repository/unitofwork"
	"prepezia-be/pkg/genai"
	"prepezia-be/pkg/progress"
)

// examTimePerQuestion sizes the attempt deadline from the question count.
const examTimePerQuestion = time.Minute

var (
	ErrExamSessionNotFound = errors.New("exam session not found or expired")
	ErrExamDeadlinePassed  = errors.New("exam deadline passed")
	ErrQuizNotGenerated    = errors.New("no quiz generated for this note")
)

// IExamService runs timed quiz attempts. Questions are served without their
// answers; scoring happens server-side and feeds the quizCompleted signal.
type IExamService interface {
	Start(ctx context.Context, userId, noteId uuid.UUID) (*dto.StartExamResponse, error)
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitExamRequest) (*dto.ExamResultResponse, error)
}

type examService struct {
	uowFactory      unitofwork.RepositoryFactory
	examSessions    *memory.ExamSessionRepository
	progressService IProgressService
}

func NewExamService(
	uowFactory unitofwork.RepositoryFactory,
	examSessions *memory.ExamSessionRepository,
	progressService IProgressService,
) IExamService {
	return &examService{
		uowFactory:      uowFactory,
		examSessions:    examSessions,
		progressService: progressService,
	}
}

func (s *examService) Start(ctx context.Context, userId, noteId uuid.UUID) (*dto.StartExamResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	raw, ok := note.GeneratedContent[entity.ContentKindQuiz]
	if !ok {
		return nil, ErrQuizNotGenerated
	}

	var quiz genai.QuizPayload
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, errors.New("stored quiz payload is corrupt")
	}
	if err := quiz.Validate(); err != nil {
		return nil, errors.New("stored quiz payload is corrupt")
	}

	questions := make([]memory.ExamQuestion, 0, len(quiz.Questions))
	views := make([]dto.ExamQuestionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, memory.ExamQuestion{
			Prompt:  q.Question,
			Options: q.Options,
			Answer:  q.AnswerIndex,
		})
		views = append(views, dto.ExamQuestionView{
			Prompt:  q.Question,
			Options: q.Options,
		})
	}

	now := time.Now()
	session := &memory.ExamSession{
		ID:        uuid.New().String(),
		UserID:    userId,
		NoteID:    noteId,
		Questions: questions,
		StartedAt: now,
		Deadline:  now.Add(time.Duration(len(questions)) * examTimePerQuestion),
	}
	s.examSessions.Save(session)

	return &dto.StartExamResponse{
		SessionId: session.ID,
		Questions: views,
		Deadline:  session.Deadline,
	}, nil
}

func (s *examService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitExamRequest) (*dto.ExamResultResponse, error) {
	session, ok := s.examSessions.Get(req.SessionId)
	if !ok || session.UserID != userId {
		return nil, ErrExamSessionNotFound
	}

	// One shot per session either way.
	s.examSessions.Delete(session.ID)

	if time.Now().After(session.Deadline) {
		return nil, ErrExamDeadlinePassed
	}

	correct := 0
	for i, q := range session.Questions {
		if i < len(req.Answers) && req.Answers[i] == q.Answer {
			correct++
		}
	}
	total := len(session.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	res, err := s.progressService.RecordSignal(ctx, userId, session.NoteID, &dto.RecordSignalRequest{
		Signal: string(progress.SignalQuizCompleted),
		Value:  float64(score),
	})
	if err != nil {
		return nil, err
	}

	return &dto.ExamResultResponse{
		Score:    score,
		Correct:  correct,
		Total:    total,
		Progress: res.Progress,
		Status:   res.Status,
	}, nil
}
