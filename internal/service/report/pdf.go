package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFontFamily  = "Helvetica"
	utf8FontFamily = "ReportUTF8"
)

// PDFFont — шрифт отчета. Пустой Path означает встроенный Helvetica:
// текст переводится в cp1252, символы вне этой кодировки не печатаются.
// Path указывает на TTF с нужными алфавитами (деванагари, кириллица, CJK),
// он подключается через AddUTF8Font для всех стилей.
type PDFFont struct {
	Path string
}

// apply регистрирует шрифт в pdf и возвращает семейство и перевод текста.
// Ошибку чтения TTF fpdf сохраняет в pdf.Error().
func (f PDFFont) apply(pdf *fpdf.Fpdf) (string, func(string) string) {
	if f.Path == "" {
		return pdfFontFamily, pdf.UnicodeTranslatorFromDescriptor("")
	}
	for _, style := range []FontStyle{StyleRegular, StyleBold, StyleItalic} {
		pdf.AddUTF8Font(utf8FontFamily, string(style), f.Path)
	}
	return utf8FontFamily, func(s string) string { return s }
}

// PDFMeasurer измеряет текст метриками шрифта fpdf,
// поэтому переносы в раскладке совпадают с итоговым PDF.
// Держит изменяемое состояние fpdf: один экземпляр на один отчет.
type PDFMeasurer struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

// NewPDFMeasurer создает измеритель на отдельном экземпляре fpdf
func NewPDFMeasurer(font PDFFont) (*PDFMeasurer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	family, tr := font.apply(pdf)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font %q: %w", font.Path, err)
	}
	return &PDFMeasurer{pdf: pdf, family: family, tr: tr}, nil
}

// Width возвращает ширину строки в мм
func (m *PDFMeasurer) Width(text string, font Font) float64 {
	m.pdf.SetFont(m.family, string(font.Style), font.Size)
	return m.pdf.GetStringWidth(m.tr(text))
}

// WritePDF рисует разложенный документ шрифтом doc.Font и пишет PDF в w
func WritePDF(doc *Document, w io.Writer) error {
	l := doc.Layout
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	// страницы переносит раскладка, не fpdf
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("examine-api", false)
	family, tr := doc.Font.apply(pdf)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load pdf font %q: %w", doc.Font.Path, err)
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, el := range page.Elements {
			drawElement(pdf, family, tr, el)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawElement(pdf *fpdf.Fpdf, family string, tr func(string) string, el Element) {
	switch el.Kind {
	case ElementText:
		pdf.SetFont(family, string(el.Font.Style), el.Font.Size)
		pdf.SetTextColor(el.Color.R, el.Color.G, el.Color.B)
		text := tr(el.Text)
		x := el.X
		switch el.Align {
		case AlignCenter:
			x -= pdf.GetStringWidth(text) / 2
		case AlignRight:
			x -= pdf.GetStringWidth(text)
		}
		pdf.Text(x, el.Y, text)

	case ElementLine:
		pdf.SetLineWidth(0.2)
		pdf.SetDrawColor(el.Color.R, el.Color.G, el.Color.B)
		pdf.Line(el.X, el.Y, el.X2, el.Y2)

	case ElementBox:
		pdf.SetLineWidth(0.2)
		pdf.SetDrawColor(el.Color.R, el.Color.G, el.Color.B)
		pdf.SetFillColor(el.Fill.R, el.Fill.G, el.Fill.B)
		pdf.RoundedRect(el.X, el.Y, el.W, el.H, el.Radius, "1234", "FD")

	case ElementGlyph:
		drawGlyph(pdf, el)
	}
}

// drawGlyph рисует галочку или крестик линиями: встроенные шрифты их не содержат
func drawGlyph(pdf *fpdf.Fpdf, el Element) {
	pdf.SetLineWidth(0.4)
	pdf.SetDrawColor(el.Color.R, el.Color.G, el.Color.B)
	x, y, s := el.X, el.Y, el.W

	switch el.Glyph {
	case GlyphCheck:
		pdf.Line(x, y-s*0.45, x+s*0.35, y)
		pdf.Line(x+s*0.35, y, x+s, y-s)
	case GlyphCross:
		pdf.Line(x, y-s, x+s, y)
		pdf.Line(x, y, x+s, y-s)
	}
}
