package report

import (
	"strings"
	"unicode"
)

// Форматы выгрузки
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// ContentType возвращает MIME-тип формата
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Filename возвращает имя файла вида "<quiz-name>-result.<ext>".
// Все, кроме букв и цифр, заменяется дефисом.
func Filename(quizName, ext string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(quizName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "quiz"
	}
	return name + "-result." + ext
}
