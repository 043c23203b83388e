package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/examine-api/internal/domain/entity"
	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

// QuestionBank — банк вопросов в памяти. Используется в режиме database.driver=memory
// (локальный запуск без Postgres) и в тестах сервисов и хендлеров.
type QuestionBank struct {
	mu       sync.RWMutex
	subjects []entity.Subject
	sets     []entity.QuizSet
	quizzes  map[string]entity.Quiz
	failures *Failures
}

// Failures — отказы хранилища по шагам. Ненулевая ошибка возвращается
// вместо результата шага; поля можно менять между вызовами.
type Failures struct {
	List            error
	CreateSet       error
	CreateQuestions error
}

// Option настраивает QuestionBank
type Option func(*QuestionBank)

// WithFailures подключает имитацию отказов хранилища
func WithFailures(f *Failures) Option {
	return func(b *QuestionBank) {
		b.failures = f
	}
}

// NewQuestionBank создает пустой банк вопросов
func NewQuestionBank(opts ...Option) *QuestionBank {
	b := &QuestionBank{quizzes: make(map[string]entity.Quiz)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// failure возвращает текущие отказы; вызывается под b.mu
func (b *QuestionBank) failure() Failures {
	if b.failures == nil {
		return Failures{}
	}
	return *b.failures
}

// ListSubjects возвращает предметы, отсортированные по имени
func (b *QuestionBank) ListSubjects(ctx context.Context) ([]entity.Subject, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.failure().List; err != nil {
		return nil, apperrors.NewStoreError("list subjects", "Failed to load subjects", err)
	}

	subjects := append([]entity.Subject(nil), b.subjects...)
	sort.SliceStable(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

// CreateSubject добавляет предмет; имя уникально без учета регистра
func (b *QuestionBank) CreateSubject(ctx context.Context, name string) (*entity.Subject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subjects {
		if strings.EqualFold(s.Name, name) {
			return nil, apperrors.NewStoreError("create subject", "Failed to create subject", apperrors.ErrConflict)
		}
	}

	subject := entity.Subject{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	b.subjects = append(b.subjects, subject)
	return &subject, nil
}

// ListQuizSets возвращает наборы предмета в порядке создания
func (b *QuestionBank) ListQuizSets(ctx context.Context, subjectID string) ([]entity.QuizSet, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.failure().List; err != nil {
		return nil, apperrors.NewStoreError("list quiz sets", "Failed to load quiz sets", err)
	}

	sets := make([]entity.QuizSet, 0)
	for _, s := range b.sets {
		if s.SubjectID == subjectID {
			sets = append(sets, s)
		}
	}
	return sets, nil
}

// ListQuizzesWithQuestions возвращает наборы с вопросами в порядке создания
func (b *QuestionBank) ListQuizzesWithQuestions(ctx context.Context) ([]entity.Quiz, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.failure().List; err != nil {
		return nil, apperrors.NewStoreError("list quizzes", "Failed to load quiz data", err)
	}

	quizzes := make([]entity.Quiz, 0, len(b.sets))
	for _, s := range b.sets {
		q := b.quizzes[s.ID]
		q.Questions = append([]entity.Question(nil), q.Questions...)
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

// CreateQuiz повторяет двухшаговую семантику хранилища: при отказе второго шага
// набор остается без вопросов и возвращается ConsistencyWarning
func (b *QuestionBank) CreateQuiz(ctx context.Context, quiz *entity.Quiz) (*entity.Quiz, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failure().CreateSet; err != nil {
		return nil, apperrors.NewStoreError("create quiz set", "Failed to create quiz set", err)
	}
	if !b.hasSubject(quiz.SubjectID) {
		return nil, apperrors.NewStoreError("create quiz set", "Failed to create quiz set",
			fmt.Errorf("%w: referenced record does not exist: subject %q", apperrors.ErrValidation, quiz.SubjectID))
	}

	set := entity.QuizSet{ID: uuid.NewString(), SubjectID: quiz.SubjectID, Name: quiz.Name, CreatedAt: time.Now().UTC()}
	b.sets = append(b.sets, set)
	b.quizzes[set.ID] = entity.Quiz{ID: set.ID, Name: set.Name, SubjectID: set.SubjectID}

	if err := b.failure().CreateQuestions; err != nil {
		return nil, &apperrors.ConsistencyWarning{
			OrphanID: set.ID,
			Message:  "quiz set was created but its questions were not saved",
			Err:      apperrors.NewStoreError("create questions", "Failed to create questions", err),
		}
	}

	created := entity.Quiz{ID: set.ID, Name: set.Name, SubjectID: set.SubjectID}
	for _, q := range quiz.Questions {
		q.ID = uuid.NewString()
		q.Options = append(entity.StringArray(nil), q.Options...)
		created.Questions = append(created.Questions, q)
	}
	b.quizzes[set.ID] = created
	return &created, nil
}

// Seed добавляет предмет и наборы напрямую (демо-данные и тесты).
// ID, заданные в quizzes, сохраняются.
func (b *QuestionBank) Seed(subject entity.Subject, quizzes ...entity.Quiz) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subjects = append(b.subjects, subject)
	for _, q := range quizzes {
		q.SubjectID = subject.ID
		b.sets = append(b.sets, entity.QuizSet{ID: q.ID, SubjectID: subject.ID, Name: q.Name, CreatedAt: subject.CreatedAt})
		b.quizzes[q.ID] = q
	}
}

// hasSubject вызывается под b.mu
func (b *QuestionBank) hasSubject(id string) bool {
	for _, s := range b.subjects {
		if s.ID == id {
			return true
		}
	}
	return false
}
