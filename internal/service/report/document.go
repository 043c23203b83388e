// Package report раскладывает итоги попытки в многостраничный документ
// и записывает его в PDF или XLSX.
package report

import (
	"github.com/yourusername/examine-api/internal/service/scoring"
)

// ElementKind — тип элемента страницы
type ElementKind int

const (
	ElementText ElementKind = iota
	ElementLine
	ElementBox
	ElementGlyph
)

// FontStyle совпадает с обозначениями стилей fpdf ("", "B", "I")
type FontStyle string

const (
	StyleRegular FontStyle = ""
	StyleBold    FontStyle = "B"
	StyleItalic  FontStyle = "I"
)

// Align — горизонтальное выравнивание текста относительно X
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// GlyphKind — значок рядом с вариантом ответа
type GlyphKind int

const (
	GlyphNone GlyphKind = iota
	GlyphCheck
	GlyphCross
)

// Color — цвет в RGB
type Color struct {
	R, G, B int
}

// Палитра документа
var (
	ColorBlack      = Color{0, 0, 0}
	ColorSuccess    = Color{0, 128, 0}
	ColorError      = Color{255, 0, 0}
	ColorAccent     = Color{70, 70, 200}
	ColorMuted      = Color{128, 128, 128}
	ColorSummaryBg  = Color{240, 240, 255}
	ColorQuestionFg = Color{200, 200, 200}
	ColorQuestionBg = Color{250, 250, 250}
)

// Font — кегль и стиль
type Font struct {
	Size  float64
	Style FontStyle
}

// Element — позиционированный элемент страницы (координаты в мм).
// Text: X,Y — базовая линия с учетом Align.
// Line: из (X,Y) в (X2,Y2).
// Box: прямоугольник X,Y,W,H со скруглением Radius, рамка Color, заливка Fill.
// Glyph: значок шириной W на базовой линии Y.
type Element struct {
	Kind   ElementKind
	X, Y   float64
	X2, Y2 float64
	W, H   float64
	Radius float64
	Text   string
	Font   Font
	Align  Align
	Color  Color
	Fill   Color
	Glyph  GlyphKind
}

// Page — одна страница документа
type Page struct {
	Number   int
	Elements []Element
}

// Placement фиксирует, где оказался вопрос (для проверки пагинации и XLSX)
type Placement struct {
	Index      int
	QuestionID string
	Page       int
	Top        float64
	Height     float64
	Treatments []OptionTreatment
	// ExplanationLines: число строк пояснения после переноса
	ExplanationLines int
}

// Bottom возвращает нижнюю границу рамки вопроса
func (p Placement) Bottom() float64 {
	return p.Top + p.Height
}

// Document — результат раскладки
type Document struct {
	Layout     Layout
	Title      string
	Pages      []Page
	Placements []Placement
	Result     scoring.Result
	TimeTaken  string
	// Font — шрифт, которым измерялся текст; WritePDF рисует им же
	Font PDFFont
}

// PageCount возвращает число страниц
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Texts возвращает тексты страницы по порядку (удобно для проверок)
func (p Page) Texts() []string {
	var out []string
	for _, el := range p.Elements {
		if el.Kind == ElementText {
			out = append(out, el.Text)
		}
	}
	return out
}
