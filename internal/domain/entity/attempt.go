package entity

import (
	"sort"
	"time"
)

// AttemptState — состояние попытки прохождения
type AttemptState string

const (
	AttemptNotStarted AttemptState = "not_started"
	AttemptInProgress AttemptState = "in_progress"
	AttemptEnded      AttemptState = "ended"
)

// Attempt — одна попытка прохождения набора вопросов.
// Answers: questionID → индекс выбранного варианта (отсутствие ключа = нет ответа).
// Marked: множество вопросов, отмеченных «на проверку».
type Attempt struct {
	QuizID       string
	Answers      map[string]int
	Marked       map[string]struct{}
	StartTime    time.Time
	EndTime      *time.Time
	AspirantName string
}

// NewAttempt создает попытку в состоянии InProgress
func NewAttempt(quizID string, startTime time.Time) *Attempt {
	return &Attempt{
		QuizID:    quizID,
		Answers:   make(map[string]int),
		Marked:    make(map[string]struct{}),
		StartTime: startTime,
	}
}

// State возвращает текущее состояние. nil-попытка считается NotStarted.
func (a *Attempt) State() AttemptState {
	switch {
	case a == nil:
		return AttemptNotStarted
	case a.EndTime != nil:
		return AttemptEnded
	default:
		return AttemptInProgress
	}
}

// IsEnded проверяет, завершена ли попытка
func (a *Attempt) IsEnded() bool {
	return a.State() == AttemptEnded
}

// Answer возвращает выбранный вариант для вопроса
func (a *Attempt) Answer(questionID string) (int, bool) {
	opt, ok := a.Answers[questionID]
	return opt, ok
}

// IsMarked проверяет, отмечен ли вопрос на проверку
func (a *Attempt) IsMarked(questionID string) bool {
	_, ok := a.Marked[questionID]
	return ok
}

// MarkedIDs возвращает отмеченные вопросы в отсортированном виде (для стабильного вывода)
func (a *Attempt) MarkedIDs() []string {
	ids := make([]string, 0, len(a.Marked))
	for id := range a.Marked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Elapsed возвращает затраченное время. Для незавершенной попытки — 0,
// как в отчете: время фиксируется только после завершения.
func (a *Attempt) Elapsed() time.Duration {
	if a == nil || a.EndTime == nil {
		return 0
	}
	return a.EndTime.Sub(a.StartTime)
}

// ElapsedAt возвращает время с начала попытки на момент now (для таймера в UI)
func (a *Attempt) ElapsedAt(now time.Time) time.Duration {
	if a.EndTime != nil {
		return a.Elapsed()
	}
	return now.Sub(a.StartTime)
}

// Clone возвращает глубокую копию попытки
func (a *Attempt) Clone() *Attempt {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Answers = make(map[string]int, len(a.Answers))
	for k, v := range a.Answers {
		cp.Answers[k] = v
	}
	cp.Marked = make(map[string]struct{}, len(a.Marked))
	for k := range a.Marked {
		cp.Marked[k] = struct{}{}
	}
	if a.EndTime != nil {
		end := *a.EndTime
		cp.EndTime = &end
	}
	return &cp
}
