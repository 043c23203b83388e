package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/examine-api/internal/domain/entity"
	"github.com/yourusername/examine-api/internal/domain/repository"
	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

// CatalogQuizzesKey — ключ кеша списка наборов с вопросами
const CatalogQuizzesKey = "catalog:quizzes"

// MaxSubjectNameLength ограничивает длину названия предмета
const MaxSubjectNameLength = 100

// CatalogService предоставляет предметы и наборы вопросов
type CatalogService struct {
	bank      repository.QuestionBank
	cacheRepo repository.CacheRepository
	ttl       time.Duration
}

// NewCatalogService создает сервис каталога. cacheRepo может быть nil (кеш выключен).
func NewCatalogService(bank repository.QuestionBank, cacheRepo repository.CacheRepository, ttl time.Duration) *CatalogService {
	return &CatalogService{
		bank:      bank,
		cacheRepo: cacheRepo,
		ttl:       ttl,
	}
}

// ListSubjects возвращает предметы
func (s *CatalogService) ListSubjects(ctx context.Context) ([]entity.Subject, error) {
	return s.bank.ListSubjects(ctx)
}

// CreateSubject создает предмет
func (s *CatalogService) CreateSubject(ctx context.Context, name string) (*entity.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: subject name is required", apperrors.ErrValidation)
	}
	if len([]rune(name)) > MaxSubjectNameLength {
		return nil, fmt.Errorf("%w: subject name must be at most %d characters", apperrors.ErrValidation, MaxSubjectNameLength)
	}

	subject, err := s.bank.CreateSubject(ctx, name)
	if err != nil {
		return nil, err
	}
	log.Printf("[CatalogService] Создан предмет %s (%s)", subject.ID, subject.Name)
	return subject, nil
}

// ListQuizSets возвращает наборы предмета без вопросов
func (s *CatalogService) ListQuizSets(ctx context.Context, subjectID string) ([]entity.QuizSet, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, fmt.Errorf("%w: subject id is required", apperrors.ErrValidation)
	}
	return s.bank.ListQuizSets(ctx, subjectID)
}

// ListQuizzes возвращает все наборы с вопросами. Сначала смотрит в кеш;
// ошибки кеша логируются и не мешают чтению из хранилища.
func (s *CatalogService) ListQuizzes(ctx context.Context) ([]entity.Quiz, error) {
	if s.cacheRepo != nil {
		var cached []entity.Quiz
		err := s.cacheRepo.Load(ctx, CatalogQuizzesKey, &cached)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, apperrors.ErrNotFound):
			log.Printf("[CatalogService] Ошибка чтения кеша %s: %v", CatalogQuizzesKey, err)
		}
	}

	quizzes, err := s.bank.ListQuizzesWithQuestions(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.Store(ctx, CatalogQuizzesKey, quizzes, s.ttl); err != nil {
			log.Printf("[CatalogService] Ошибка записи кеша %s: %v", CatalogQuizzesKey, err)
		}
	}
	return quizzes, nil
}

// CreateQuiz проверяет и сохраняет набор с вопросами.
// При частичном сохранении возвращается *ConsistencyWarning, кеш все равно сбрасывается:
// созданный набор уже виден в хранилище.
func (s *CatalogService) CreateQuiz(ctx context.Context, quiz *entity.Quiz) (*entity.Quiz, error) {
	normalizeQuiz(quiz)
	if err := quiz.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	created, err := s.bank.CreateQuiz(ctx, quiz)
	if err != nil {
		if _, partial := apperrors.AsConsistencyWarning(err); partial {
			s.invalidate(ctx)
		}
		return nil, err
	}
	s.invalidate(ctx)

	log.Printf("[CatalogService] Создан набор %s (%s), вопросов: %d", created.ID, created.Name, len(created.Questions))
	return created, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Invalidate(ctx, CatalogQuizzesKey); err != nil {
		log.Printf("[CatalogService] Ошибка сброса кеша %s: %v", CatalogQuizzesKey, err)
	}
}

// normalizeQuiz убирает пробелы по краям пользовательских строк
func normalizeQuiz(quiz *entity.Quiz) {
	quiz.Name = strings.TrimSpace(quiz.Name)
	quiz.SubjectID = strings.TrimSpace(quiz.SubjectID)
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		q.ImageURL = strings.TrimSpace(q.ImageURL)
		q.Explanation = strings.TrimSpace(q.Explanation)
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
	}
}
