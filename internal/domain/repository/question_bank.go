package repository

import (
	"context"

	"github.com/yourusername/examine-api/internal/domain/entity"
)

// QuestionBank — узкий интерфейс к удаленному хранилищу предметов, наборов и вопросов.
// Все ошибки хранилища возвращаются как *errors.StoreError.
type QuestionBank interface {
	ListSubjects(ctx context.Context) ([]entity.Subject, error)
	CreateSubject(ctx context.Context, name string) (*entity.Subject, error)
	ListQuizSets(ctx context.Context, subjectID string) ([]entity.QuizSet, error)
	// ListQuizzesWithQuestions загружает наборы сразу с вложенными вопросами
	ListQuizzesWithQuestions(ctx context.Context) ([]entity.Quiz, error)
	// CreateQuiz выполняет два шага: вставка набора, затем пакетная вставка вопросов.
	// Если второй шаг упал, набор остается в хранилище и возвращается *errors.ConsistencyWarning.
	CreateQuiz(ctx context.Context, quiz *entity.Quiz) (*entity.Quiz, error)
}
