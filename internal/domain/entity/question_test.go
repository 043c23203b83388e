package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_IsCorrect_CorrectAnswer(t *testing.T) {
	// Arrange
	question := &Question{
		ID:            "q-1",
		Text:          "Какой язык используется в Go?",
		Options:       StringArray{"Python", "Go", "Java", "Rust"},
		CorrectAnswer: 1, // "Go" — индекс 1
		Explanation:   "Очевидно",
	}

	// Act & Assert
	assert.True(t, question.IsCorrect(1), "IsCorrect должен вернуть true для правильного ответа")
}

func TestQuestion_IsCorrect_IncorrectAnswer(t *testing.T) {
	question := &Question{ID: "q-1", CorrectAnswer: 2}

	assert.False(t, question.IsCorrect(0))
	assert.False(t, question.IsCorrect(1))
	assert.False(t, question.IsCorrect(3))
}

func TestQuestion_IsValidOption(t *testing.T) {
	// Arrange
	question := &Question{
		Options: StringArray{"A", "B", "C", "D"},
	}

	// Act & Assert: валидные опции
	for i := 0; i < 4; i++ {
		assert.True(t, question.IsValidOption(i), "Индекс %d должен быть валидным", i)
	}

	// Assert: невалидные опции
	assert.False(t, question.IsValidOption(-1), "Отрицательный индекс должен быть невалидным")
	assert.False(t, question.IsValidOption(4), "Индекс вне диапазона должен быть невалидным")
	assert.False(t, question.IsValidOption(100), "Индекс далеко за пределами должен быть невалидным")
}

func TestQuestion_OptionsCount(t *testing.T) {
	testCases := []struct {
		name     string
		options  StringArray
		expected int
	}{
		{"4 варианта", StringArray{"A", "B", "C", "D"}, 4},
		{"2 варианта", StringArray{"Да", "Нет"}, 2},
		{"0 вариантов", StringArray{}, 0},
		{"nil варианты", nil, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			question := &Question{Options: tc.options}
			assert.Equal(t, tc.expected, question.OptionsCount())
		})
	}
}

func TestQuestion_HasImage(t *testing.T) {
	assert.False(t, (&Question{}).HasImage())
	assert.False(t, (&Question{ImageURL: "   "}).HasImage())
	assert.True(t, (&Question{ImageURL: "https://example.com/a.png"}).HasImage())
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", OptionLabel(0))
	assert.Equal(t, "B", OptionLabel(1))
	assert.Equal(t, "D", OptionLabel(3))
	assert.Equal(t, "Z", OptionLabel(25))
}

// Тесты для StringArray (JSONB сериализация)

func TestStringArray_Scan_ValidJSON(t *testing.T) {
	// Arrange
	jsonBytes := []byte(`["Option 1", "Option 2", "Option 3"]`)
	var arr StringArray

	// Act
	err := arr.Scan(jsonBytes)

	// Assert
	require.NoError(t, err, "Scan не должен возвращать ошибку для валидного JSON")
	assert.Equal(t, StringArray{"Option 1", "Option 2", "Option 3"}, arr)
}

func TestStringArray_Scan_StringValue(t *testing.T) {
	var arr StringArray

	err := arr.Scan(`["A","B"]`)

	require.NoError(t, err)
	assert.Equal(t, StringArray{"A", "B"}, arr)
}

func TestStringArray_Scan_NullValue(t *testing.T) {
	var arr StringArray

	err := arr.Scan(nil)

	require.NoError(t, err, "Scan не должен возвращать ошибку для nil")
	assert.Len(t, arr, 0, "Для nil должен вернуться пустой массив")
}

func TestStringArray_Scan_EmptyBytes(t *testing.T) {
	var arr StringArray

	err := arr.Scan([]byte{})

	require.NoError(t, err, "Scan не должен возвращать ошибку для пустого массива байт")
	assert.Len(t, arr, 0, "Для пустых байт должен вернуться пустой массив")
}

func TestStringArray_Scan_InvalidType(t *testing.T) {
	var arr StringArray

	// Act: передаём неподдерживаемый тип
	err := arr.Scan(42)

	assert.Error(t, err, "Scan должен возвращать ошибку для неподдерживаемого типа")
}

func TestStringArray_Value(t *testing.T) {
	testCases := []struct {
		name     string
		arr      StringArray
		expected string
	}{
		{"непустой", StringArray{"A", "B", "C"}, `["A","B","C"]`},
		{"пустой", StringArray{}, "[]"},
		{"nil", nil, "[]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := tc.arr.Value()
			require.NoError(t, err)

			bytes, ok := val.([]byte)
			require.True(t, ok, "Value должен возвращать []byte")
			assert.Equal(t, tc.expected, string(bytes))
		})
	}
}
