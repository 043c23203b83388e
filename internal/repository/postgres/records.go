package postgres

import (
	"time"

	"github.com/yourusername/examine-api/internal/domain/entity"
)

// Записи хранилища в том виде, в каком они лежат в таблицах (snake_case колонки).
// Преобразование в доменные сущности выполняется только через to*/from* функции ниже.

// SubjectRecord — строка таблицы subjects
type SubjectRecord struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName определяет имя таблицы для GORM
func (SubjectRecord) TableName() string {
	return "subjects"
}

// QuizSetRecord — строка таблицы quiz_sets
type QuizSetRecord struct {
	ID        string           `gorm:"type:uuid;primaryKey"`
	SubjectID string           `gorm:"column:subject_id;type:uuid;not null;index"`
	Name      string           `gorm:"size:200;not null"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	Questions []QuestionRecord `gorm:"foreignKey:QuizSetID"`
}

// TableName определяет имя таблицы для GORM
func (QuizSetRecord) TableName() string {
	return "quiz_sets"
}

// QuestionRecord — строка таблицы questions
type QuestionRecord struct {
	ID            string             `gorm:"type:uuid;primaryKey"`
	QuizSetID     string             `gorm:"column:quiz_set_id;type:uuid;not null;index"`
	Position      int                `gorm:"not null;default:0"`
	Text          string             `gorm:"not null"`
	ImageURL      *string            `gorm:"column:image_url"`
	Options       entity.StringArray `gorm:"type:jsonb;not null"`
	CorrectAnswer int                `gorm:"column:correct_answer;not null"`
	Explanation   string             `gorm:"not null;default:''"`
	CreatedAt     time.Time          `gorm:"column:created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuestionRecord) TableName() string {
	return "questions"
}

func toSubject(r SubjectRecord) entity.Subject {
	return entity.Subject{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}

func toQuizSet(r QuizSetRecord) entity.QuizSet {
	return entity.QuizSet{
		ID:        r.ID,
		SubjectID: r.SubjectID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}

func toQuestion(r QuestionRecord) entity.Question {
	q := entity.Question{
		ID:            r.ID,
		Text:          r.Text,
		Options:       append(entity.StringArray(nil), r.Options...),
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
	}
	if r.ImageURL != nil {
		q.ImageURL = *r.ImageURL
	}
	return q
}

func toQuiz(r QuizSetRecord) entity.Quiz {
	questions := make([]entity.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, toQuestion(q))
	}
	return entity.Quiz{
		ID:        r.ID,
		Name:      r.Name,
		SubjectID: r.SubjectID,
		Questions: questions,
	}
}

// fromQuestion готовит запись вопроса к вставке; position сохраняет порядок из админки
func fromQuestion(quizSetID string, position int, q entity.Question) QuestionRecord {
	rec := QuestionRecord{
		ID:            q.ID,
		QuizSetID:     quizSetID,
		Position:      position,
		Text:          q.Text,
		Options:       append(entity.StringArray(nil), q.Options...),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
	if q.ImageURL != "" {
		url := q.ImageURL
		rec.ImageURL = &url
	}
	return rec
}
