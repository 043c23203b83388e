package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// OptionsPerQuestion — количество вариантов ответа в вопросе, создаваемом через админку
const OptionsPerQuestion = 4

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		// pgx возвращает jsonb строкой при simple protocol
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB value: expected []byte or string")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос в наборе. Неизменяем после создания.
type Question struct {
	ID            string      `json:"id"`
	Text          string      `json:"text"`
	ImageURL      string      `json:"image_url,omitempty"`
	Options       StringArray `json:"options"`
	CorrectAnswer int         `json:"correct_answer"`
	Explanation   string      `json:"explanation"`
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.CorrectAnswer
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidOption проверяет, является ли выбранный вариант допустимым
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.Options)
}

// HasImage сообщает, есть ли у вопроса ссылка на изображение
func (q *Question) HasImage() bool {
	return strings.TrimSpace(q.ImageURL) != ""
}

// OptionLabel возвращает буквенную метку варианта: 0 → "A", 1 → "B", ...
func OptionLabel(index int) string {
	return string(rune('A' + index))
}
