package report

import "github.com/yourusername/examine-api/internal/domain/entity"

// OptionTreatment — как выделяется вариант ответа в отчете
type OptionTreatment int

const (
	TreatmentNeutral OptionTreatment = iota
	TreatmentSelectedCorrect
	TreatmentSelectedWrong
	TreatmentCorrectNotSelected
)

// Treat определяет выделение варианта idx.
// Правильный вариант выделяется всегда, даже если ответа нет.
func Treat(q *entity.Question, selected int, answered bool, idx int) OptionTreatment {
	isSelected := answered && selected == idx
	isCorrect := q.CorrectAnswer == idx

	switch {
	case isSelected && isCorrect:
		return TreatmentSelectedCorrect
	case isSelected:
		return TreatmentSelectedWrong
	case isCorrect:
		return TreatmentCorrectNotSelected
	default:
		return TreatmentNeutral
	}
}

// Selected: вариант выбран пользователем (печатается жирным)
func (t OptionTreatment) Selected() bool {
	return t == TreatmentSelectedCorrect || t == TreatmentSelectedWrong
}

// Color возвращает цвет текста варианта
func (t OptionTreatment) Color() Color {
	switch t {
	case TreatmentSelectedCorrect, TreatmentCorrectNotSelected:
		return ColorSuccess
	case TreatmentSelectedWrong:
		return ColorError
	default:
		return ColorBlack
	}
}

// Glyph возвращает значок варианта
func (t OptionTreatment) Glyph() GlyphKind {
	switch t {
	case TreatmentSelectedCorrect, TreatmentCorrectNotSelected:
		return GlyphCheck
	case TreatmentSelectedWrong:
		return GlyphCross
	default:
		return GlyphNone
	}
}

// String возвращает машинное имя (используется в XLSX и JSON)
func (t OptionTreatment) String() string {
	switch t {
	case TreatmentSelectedCorrect:
		return "selected_correct"
	case TreatmentSelectedWrong:
		return "selected_wrong"
	case TreatmentCorrectNotSelected:
		return "correct_not_selected"
	default:
		return "neutral"
	}
}
