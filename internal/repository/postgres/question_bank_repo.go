package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/examine-api/internal/domain/entity"
	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

// Коды ошибок Postgres, которые переводим в доменные ошибки
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// QuestionBankRepo реализует repository.QuestionBank поверх Postgres (GORM)
type QuestionBankRepo struct {
	db *gorm.DB
}

// NewQuestionBankRepo создает новый репозиторий банка вопросов
func NewQuestionBankRepo(db *gorm.DB) *QuestionBankRepo {
	return &QuestionBankRepo{db: db}
}

// ListSubjects возвращает все предметы, отсортированные по имени
func (r *QuestionBankRepo) ListSubjects(ctx context.Context) ([]entity.Subject, error) {
	var records []SubjectRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, storeError("list subjects", "Failed to load subjects", err)
	}

	subjects := make([]entity.Subject, 0, len(records))
	for _, rec := range records {
		subjects = append(subjects, toSubject(rec))
	}
	return subjects, nil
}

// CreateSubject создает новый предмет
func (r *QuestionBankRepo) CreateSubject(ctx context.Context, name string) (*entity.Subject, error) {
	rec := SubjectRecord{ID: uuid.NewString(), Name: name}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, storeError("create subject", "Failed to create subject", err)
	}
	subject := toSubject(rec)
	return &subject, nil
}

// ListQuizSets возвращает наборы вопросов предмета (без самих вопросов)
func (r *QuestionBankRepo) ListQuizSets(ctx context.Context, subjectID string) ([]entity.QuizSet, error) {
	var records []QuizSetRecord
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, storeError("list quiz sets", "Failed to load quiz sets", err)
	}

	sets := make([]entity.QuizSet, 0, len(records))
	for _, rec := range records {
		sets = append(sets, toQuizSet(rec))
	}
	return sets, nil
}

// ListQuizzesWithQuestions возвращает все наборы вместе с вопросами (eager join через Preload)
func (r *QuestionBankRepo) ListQuizzesWithQuestions(ctx context.Context) ([]entity.Quiz, error) {
	var records []QuizSetRecord
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, id")
		}).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, storeError("list quizzes", "Failed to load quiz data", err)
	}

	quizzes := make([]entity.Quiz, 0, len(records))
	for _, rec := range records {
		quizzes = append(quizzes, toQuiz(rec))
	}
	return quizzes, nil
}

// CreateQuiz сохраняет набор и его вопросы в два шага БЕЗ общей транзакции.
// Если вставка вопросов упала после успешной вставки набора, набор остается
// в хранилище без вопросов и возвращается *ConsistencyWarning с его ID.
func (r *QuestionBankRepo) CreateQuiz(ctx context.Context, quiz *entity.Quiz) (*entity.Quiz, error) {
	// Шаг 1: запись набора
	set := QuizSetRecord{
		ID:        uuid.NewString(),
		SubjectID: quiz.SubjectID,
		Name:      quiz.Name,
	}
	if err := r.db.WithContext(ctx).Omit("Questions").Create(&set).Error; err != nil {
		return nil, storeError("create quiz set", "Failed to create quiz set", err)
	}
	log.Printf("[QuestionBankRepo] Набор %s создан (предмет %s)", set.ID, set.SubjectID)

	// Шаг 2: пакетная вставка вопросов
	records := make([]QuestionRecord, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		rec := fromQuestion(set.ID, i, q)
		rec.ID = uuid.NewString()
		records = append(records, rec)
	}

	if len(records) > 0 {
		if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
			log.Printf("[QuestionBankRepo] ВНИМАНИЕ: вопросы для набора %s не сохранены, набор остался без вопросов: %v", set.ID, err)
			return nil, &apperrors.ConsistencyWarning{
				OrphanID: set.ID,
				Message:  "quiz set was created but its questions were not saved",
				Err:      storeError("create questions", "Failed to create questions", err),
			}
		}
	}

	set.Questions = records
	created := toQuiz(set)
	return &created, nil
}

// storeError переводит ошибку драйвера в StoreError, сохраняя доменный смысл
// нарушений ограничений (уникальность → ErrConflict, внешний ключ → ErrValidation)
func storeError(op, message string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewStoreError(op, message, err)
	case hasPgCode(err, pgUniqueViolation):
		return apperrors.NewStoreError(op, message, fmt.Errorf("%w: %v", apperrors.ErrConflict, err))
	case hasPgCode(err, pgForeignKeyViolation):
		return apperrors.NewStoreError(op, message, fmt.Errorf("%w: referenced record does not exist: %v", apperrors.ErrValidation, err))
	default:
		return apperrors.NewStoreError(op, message, err)
	}
}

// hasPgCode проверяет код ошибки Postgres для pgconn и lib/pq драйверов
func hasPgCode(err error, code string) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == code {
		return true
	}
	return false
}
