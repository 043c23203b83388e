package entity

import (
	"fmt"
	"strings"
	"time"
)

// Subject — предмет, группирующий наборы вопросов
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// QuizSet — запись набора вопросов без самих вопросов (строка таблицы quiz_sets)
type QuizSet struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Quiz представляет набор вопросов (question paper) вместе с вопросами.
// Порядок Questions значим: это порядок показа и нумерации.
type Quiz struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	SubjectID string     `json:"subject_id"`
	Questions []Question `json:"questions"`
}

// QuestionCount возвращает количество вопросов
func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}

// QuestionByID ищет вопрос по ID
func (q *Quiz) QuestionByID(id string) (*Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i], true
		}
	}
	return nil, false
}

// Validate проверяет викторину, созданную через админку, перед сохранением.
// Возвращает описание первой найденной проблемы.
func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return fmt.Errorf("quiz name is required")
	}
	if strings.TrimSpace(q.SubjectID) == "" {
		return fmt.Errorf("subject is required")
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz must contain at least one question")
	}

	for i, question := range q.Questions {
		if strings.TrimSpace(question.Text) == "" {
			return fmt.Errorf("question #%d: text is required", i+1)
		}
		if len(question.Options) != OptionsPerQuestion {
			return fmt.Errorf("question #%d: expected %d options, got %d", i+1, OptionsPerQuestion, len(question.Options))
		}
		for j, opt := range question.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("question #%d: option %s is empty", i+1, OptionLabel(j))
			}
		}
		if !question.IsValidOption(question.CorrectAnswer) {
			return fmt.Errorf("question #%d: invalid correct answer index %d", i+1, question.CorrectAnswer)
		}
	}
	return nil
}
