package dto

import (
	"time"

	"github.com/yourusername/examine-api/internal/domain/entity"
	"github.com/yourusername/examine-api/internal/handler/helper"
	"github.com/yourusername/examine-api/internal/service/attempt"
	"github.com/yourusername/examine-api/internal/service/scoring"
)

// SubjectResponse представляет предмет в формате для ответа клиенту
type SubjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// QuizSetResponse представляет запись набора вопросов без вопросов
type QuizSetResponse struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// CorrectAnswer и Explanation заполняются только после завершения попытки.
type QuestionResponse struct {
	ID            string                  `json:"id"`
	Number        int                     `json:"number"`
	Text          string                  `json:"text"`
	ImageURL      string                  `json:"image_url,omitempty"`
	Options       []helper.QuestionOption `json:"options"`
	CorrectAnswer *int                    `json:"correct_answer,omitempty"`
	Explanation   *string                 `json:"explanation,omitempty"`
}

// QuizResponse представляет набор вопросов в формате для ответа клиенту
type QuizResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	SubjectID     string             `json:"subject_id"`
	QuestionCount int                `json:"question_count"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
}

// AttemptResponse — состояние попытки в сессии
type AttemptResponse struct {
	State          entity.AttemptState `json:"state"`
	QuizID         string              `json:"quiz_id,omitempty"`
	Answers        map[string]int      `json:"answers"`
	Marked         []string            `json:"marked"`
	StartTime      *time.Time          `json:"start_time,omitempty"`
	EndTime        *time.Time          `json:"end_time,omitempty"`
	AspirantName   string              `json:"aspirant_name,omitempty"`
	ElapsedSeconds int64               `json:"elapsed_seconds"`
	Quiz           *QuizResponse       `json:"quiz,omitempty"`
}

// ScoreResponse — итоги завершенной попытки
type ScoreResponse struct {
	scoring.Result
	TimeTaken      string `json:"time_taken"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}

// NewSubjectResponse создает DTO для предмета
func NewSubjectResponse(s entity.Subject) SubjectResponse {
	return SubjectResponse{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt}
}

// NewListSubjectResponse создает DTO для списка предметов
func NewListSubjectResponse(subjects []entity.Subject) []SubjectResponse {
	result := make([]SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		result = append(result, NewSubjectResponse(s))
	}
	return result
}

// NewListQuizSetResponse создает DTO для списка наборов
func NewListQuizSetResponse(sets []entity.QuizSet) []QuizSetResponse {
	result := make([]QuizSetResponse, 0, len(sets))
	for _, s := range sets {
		result = append(result, QuizSetResponse{ID: s.ID, SubjectID: s.SubjectID, Name: s.Name, CreatedAt: s.CreatedAt})
	}
	return result
}

// NewQuestionResponse создает DTO для вопроса.
// revealAnswers открывает правильный ответ и пояснение.
func NewQuestionResponse(q *entity.Question, number int, revealAnswers bool) QuestionResponse {
	resp := QuestionResponse{
		ID:       q.ID,
		Number:   number,
		Text:     q.Text,
		ImageURL: q.ImageURL,
		Options:  helper.ConvertOptionsToObjects(q.Options),
	}
	if revealAnswers {
		correct := q.CorrectAnswer
		explanation := q.Explanation
		resp.CorrectAnswer = &correct
		resp.Explanation = &explanation
	}
	return resp
}

// NewQuizResponse создает DTO для набора вопросов
func NewQuizResponse(quiz *entity.Quiz, includeQuestions, revealAnswers bool) *QuizResponse {
	resp := &QuizResponse{
		ID:            quiz.ID,
		Name:          quiz.Name,
		SubjectID:     quiz.SubjectID,
		QuestionCount: quiz.QuestionCount(),
	}
	if includeQuestions {
		resp.Questions = make([]QuestionResponse, 0, len(quiz.Questions))
		for i := range quiz.Questions {
			resp.Questions = append(resp.Questions, NewQuestionResponse(&quiz.Questions[i], i+1, revealAnswers))
		}
	}
	return resp
}

// NewListQuizResponse создает DTO для каталога (ответы скрыты)
func NewListQuizResponse(quizzes []entity.Quiz) []*QuizResponse {
	result := make([]*QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		result = append(result, NewQuizResponse(&quizzes[i], true, false))
	}
	return result
}

// NewAttemptResponse создает DTO из снимка сессии.
// Правильные ответы видны только у завершенной попытки.
func NewAttemptResponse(snap attempt.Snapshot) *AttemptResponse {
	resp := &AttemptResponse{
		State:          snap.State,
		Answers:        map[string]int{},
		Marked:         []string{},
		ElapsedSeconds: int64(snap.Elapsed.Seconds()),
	}
	if snap.Attempt == nil {
		return resp
	}

	a := snap.Attempt
	start := a.StartTime
	resp.QuizID = a.QuizID
	resp.Answers = a.Answers
	resp.Marked = a.MarkedIDs()
	resp.StartTime = &start
	resp.EndTime = a.EndTime
	resp.AspirantName = a.AspirantName
	if snap.Quiz != nil {
		resp.Quiz = NewQuizResponse(snap.Quiz, true, snap.State == entity.AttemptEnded)
	}
	return resp
}

// NewScoreResponse создает DTO итогов
func NewScoreResponse(result scoring.Result, elapsed time.Duration) *ScoreResponse {
	return &ScoreResponse{
		Result:         result,
		TimeTaken:      scoring.FormatDuration(elapsed),
		ElapsedSeconds: int64(elapsed.Seconds()),
	}
}
