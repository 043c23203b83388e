package helper

import (
	"github.com/yourusername/examine-api/internal/domain/entity"
)

// QuestionOption представляет вариант ответа для фронтенда
type QuestionOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// ConvertOptionsToObjects преобразует массив строк в массив объектов с id, меткой и текстом.
// ID использует 0-based индексацию, как индекс ответа в попытке.
func ConvertOptionsToObjects(options entity.StringArray) []QuestionOption {
	converted := make([]QuestionOption, len(options))
	for i, opt := range options {
		if opt == "" {
			opt = "(пустой вариант)"
		}
		converted[i] = QuestionOption{ID: i, Label: entity.OptionLabel(i), Text: opt}
	}
	return converted
}

// ConvertObjectsToOptions собирает тексты вариантов обратно в порядке ID
func ConvertObjectsToOptions(objects []QuestionOption) entity.StringArray {
	options := make(entity.StringArray, len(objects))
	for i, obj := range objects {
		options[i] = obj.Text
	}
	return options
}
