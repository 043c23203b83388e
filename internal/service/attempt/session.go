// Package attempt содержит конечный автомат попытки прохождения
// (NotStarted → InProgress → Ended) и реестр клиентских сессий.
package attempt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/examine-api/internal/domain/entity"
	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

// MaxAspirantNameLength ограничивает длину имени в отчете
const MaxAspirantNameLength = 100

// Clock возвращает текущее время. Подменяется в тестах.
type Clock func() time.Time

// Snapshot — согласованный срез состояния сессии
type Snapshot struct {
	State   entity.AttemptState
	Attempt *entity.Attempt
	Quiz    *entity.Quiz
	// Elapsed: для идущей попытки считается на момент снимка
	Elapsed time.Duration
}

// Session — контейнер состояния одной клиентской сессии:
// снимок каталога и не более одной попытки.
type Session struct {
	id    string
	clock Clock

	mu         sync.RWMutex
	catalog    map[string]*entity.Quiz
	quiz       *entity.Quiz
	attempt    *entity.Attempt
	lastActive time.Time
}

// NewSession создает пустую сессию. clock == nil означает time.Now.
func NewSession(id string, clock Clock) *Session {
	if clock == nil {
		clock = time.Now
	}
	return &Session{
		id:         id,
		clock:      clock,
		catalog:    make(map[string]*entity.Quiz),
		lastActive: clock(),
	}
}

// ID возвращает идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// LastActive возвращает время последнего обращения
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// SetCatalog заменяет снимок каталога. Текущая попытка сохраняет свой набор.
func (s *Session) SetCatalog(quizzes []entity.Quiz) {
	catalog := make(map[string]*entity.Quiz, len(quizzes))
	for i := range quizzes {
		q := quizzes[i]
		catalog[q.ID] = &q
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
	s.lastActive = s.clock()
}

// HasQuiz проверяет, есть ли набор в снимке каталога
func (s *Session) HasQuiz(quizID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.catalog[quizID]
	return ok
}

// Start начинает новую попытку. Существующая попытка (идущая или завершенная) отбрасывается.
func (s *Session) Start(quizID string) (*entity.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.catalog[quizID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown quiz %q", apperrors.ErrValidation, quizID)
	}

	now := s.clock()
	s.quiz = quiz
	s.attempt = entity.NewAttempt(quizID, now)
	s.lastActive = now
	return s.attempt.Clone(), nil
}

// RecordAnswer записывает (или перезаписывает) ответ на вопрос
func (s *Session) RecordAnswer(questionID string, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionInProgress(questionID)
	if err != nil {
		return err
	}
	if !q.IsValidOption(option) {
		return fmt.Errorf("%w: option %d is out of range for question %q (0..%d)",
			apperrors.ErrValidation, option, questionID, q.OptionsCount()-1)
	}

	s.attempt.Answers[questionID] = option
	s.lastActive = s.clock()
	return nil
}

// ToggleMark переключает отметку «на проверку» и возвращает новое значение
func (s *Session) ToggleMark(questionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.questionInProgress(questionID); err != nil {
		return false, err
	}

	s.lastActive = s.clock()
	if s.attempt.IsMarked(questionID) {
		delete(s.attempt.Marked, questionID)
		return false, nil
	}
	s.attempt.Marked[questionID] = struct{}{}
	return true, nil
}

// End завершает попытку. at == nil означает текущее время.
// Повторное завершение возвращает ErrInvalidState и не меняет время окончания.
func (s *Session) End(at *time.Time) (*entity.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state := s.attempt.State(); state != entity.AttemptInProgress {
		return nil, fmt.Errorf("%w: cannot end attempt in state %s", apperrors.ErrInvalidState, state)
	}

	end := s.clock()
	if at != nil {
		end = *at
	}
	if end.Before(s.attempt.StartTime) {
		return nil, fmt.Errorf("%w: end time %s is before start time %s",
			apperrors.ErrValidation, end.Format(time.RFC3339), s.attempt.StartTime.Format(time.RFC3339))
	}

	s.attempt.EndTime = &end
	s.lastActive = s.clock()
	return s.attempt.Clone(), nil
}

// SetAspirantName задает имя для отчета. Допустимо в любой момент после старта.
func (s *Session) SetAspirantName(name string) error {
	name = strings.TrimSpace(name)
	if len([]rune(name)) > MaxAspirantNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", apperrors.ErrValidation, MaxAspirantNameLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt == nil {
		return fmt.Errorf("%w: no attempt has been started", apperrors.ErrInvalidState)
	}
	s.attempt.AspirantName = name
	s.lastActive = s.clock()
	return nil
}

// Snapshot возвращает копию состояния, безопасную для чтения вне блокировки
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{State: s.attempt.State(), Quiz: s.quiz}
	if s.attempt != nil {
		snap.Attempt = s.attempt.Clone()
		snap.Elapsed = s.attempt.ElapsedAt(s.clock())
	}
	return snap
}

// Ended возвращает завершенную попытку и ее набор (для подсчета и отчета)
func (s *Session) Ended() (*entity.Quiz, *entity.Attempt, error) {
	snap := s.Snapshot()
	if snap.State != entity.AttemptEnded {
		return nil, nil, fmt.Errorf("%w: attempt is %s, end it first", apperrors.ErrInvalidState, snap.State)
	}
	return snap.Quiz, snap.Attempt, nil
}

// questionInProgress проверяет состояние и принадлежность вопроса набору.
// Вызывается под s.mu.
func (s *Session) questionInProgress(questionID string) (*entity.Question, error) {
	if state := s.attempt.State(); state != entity.AttemptInProgress {
		return nil, fmt.Errorf("%w: attempt is %s", apperrors.ErrInvalidState, state)
	}
	q, ok := s.quiz.QuestionByID(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: question %q does not belong to quiz %q", apperrors.ErrValidation, questionID, s.quiz.ID)
	}
	return q, nil
}
