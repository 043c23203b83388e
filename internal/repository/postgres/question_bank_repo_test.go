package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/examine-api/internal/domain/entity"
	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
)

// newDryRunRepo строит репозиторий на gorm в режиме DryRun: SQL собирается,
// но не выполняется. Вставка в таблицу failTable завершается ошибкой failErr.
func newDryRunRepo(t *testing.T, failTable string, failErr error) *QuestionBankRepo {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=examine dbname=examine sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	if failTable != "" {
		err = db.Callback().Create().Before("gorm:create").Register("examine:fail_insert", func(tx *gorm.DB) {
			if tx.Statement.Table == failTable {
				tx.AddError(failErr)
			}
		})
		require.NoError(t, err)
	}
	return NewQuestionBankRepo(db)
}

func newQuizInput() *entity.Quiz {
	return &entity.Quiz{
		Name:      "Оптика",
		SubjectID: "subj-1",
		Questions: []entity.Question{
			{Text: "Свет?", Options: entity.StringArray{"волна", "частица", "оба", "ничего"}, CorrectAnswer: 2, Explanation: "Дуализм"},
			{Text: "Линза?", Options: entity.StringArray{"a", "b", "c", "d"}, CorrectAnswer: 0},
		},
	}
}

func TestQuestionBankRepo_CreateQuiz(t *testing.T) {
	repo := newDryRunRepo(t, "", nil)

	created, err := repo.CreateQuiz(context.Background(), newQuizInput())

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "subj-1", created.SubjectID)
	require.Len(t, created.Questions, 2)
	assert.NotEmpty(t, created.Questions[0].ID)
	assert.Equal(t, 2, created.Questions[0].CorrectAnswer)
	assert.Equal(t, "Линза?", created.Questions[1].Text, "порядок вопросов сохраняется")
}

func TestQuestionBankRepo_CreateQuiz_QuestionsStepFails(t *testing.T) {
	// Arrange: набор записывается, пакетная вставка вопросов падает
	repo := newDryRunRepo(t, "questions", errors.New("connection reset by peer"))

	// Act
	created, err := repo.CreateQuiz(context.Background(), newQuizInput())

	// Assert
	assert.Nil(t, created)
	warning, ok := apperrors.AsConsistencyWarning(err)
	require.True(t, ok, "ожидается предупреждение о частичной записи")
	assert.NotEmpty(t, warning.OrphanID)
	assert.True(t, apperrors.IsStoreError(err))
}

func TestQuestionBankRepo_CreateQuiz_SetStepFails(t *testing.T) {
	repo := newDryRunRepo(t, "quiz_sets", &pgconn.PgError{Code: pgForeignKeyViolation})

	created, err := repo.CreateQuiz(context.Background(), newQuizInput())

	assert.Nil(t, created)
	_, partial := apperrors.AsConsistencyWarning(err)
	assert.False(t, partial, "ничего не записано, предупреждения нет")
	assert.True(t, apperrors.IsStoreError(err))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
