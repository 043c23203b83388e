package report

import (
	"strings"
	"unicode/utf8"
)

// TextMeasurer измеряет и переносит текст для раскладки
type TextMeasurer interface {
	Width(text string, font Font) float64
}

// FixedMeasurer считает каждый символ одинаковой ширины независимо от шрифта
type FixedMeasurer struct {
	CharWidth float64
}

// Width возвращает ширину строки в мм
func (m FixedMeasurer) Width(text string, _ Font) float64 {
	return float64(utf8.RuneCountInString(text)) * m.CharWidth
}

// Wrap разбивает текст на строки шириной не более maxWidth.
// Слова длиннее строки режутся по символам. Пустой текст дает одну пустую строку.
func Wrap(m TextMeasurer, text string, font Font, maxWidth float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(m, paragraph, font, maxWidth)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func wrapParagraph(m TextMeasurer, text string, font Font, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.Width(candidate, font) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		// слово само не влезает
		for m.Width(word, font) > maxWidth {
			head, tail := splitRunes(m, word, font, maxWidth)
			lines = append(lines, head)
			word = tail
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// splitRunes отрезает максимальный префикс, влезающий в maxWidth (минимум один символ)
func splitRunes(m TextMeasurer, word string, font Font, maxWidth float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && m.Width(string(runes[:n+1]), font) <= maxWidth {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
