package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/examine-api/internal/domain/entity"
	apperrors "github.com/yourusername/examine-api/internal/pkg/errors"
	"github.com/yourusername/examine-api/internal/service/scoring"
)

// Layout — геометрия документа в мм (A4, книжная)
type Layout struct {
	PageWidth  float64
	PageHeight float64
	MarginX    float64

	HeaderY     float64
	HeaderRuleY float64
	TitleY      float64
	CreditsY    float64
	CreditsStep float64
	NameY       float64
	QuizNameY   float64
	SummaryY    float64
	// NameOffset: сдвиг вниз всего, что ниже строки имени, если имя задано
	NameOffset    float64
	SummaryHeight float64

	// QuestionsOffset: от верха блока итогов до верха первого вопроса
	QuestionsOffset float64
	TopMargin       float64
	BottomMargin    float64
	FooterOffset    float64

	QuestionInsetX     float64
	OptionInsetX       float64
	QuestionBase       float64
	ImageHeight        float64
	OptionHeight       float64
	ExplanationPadding float64
	ExplanationLine    float64
	PromptLine         float64
	QuestionGap        float64
}

// DefaultLayout возвращает стандартную геометрию отчета
func DefaultLayout() Layout {
	return Layout{
		PageWidth:  210,
		PageHeight: 297,
		MarginX:    20,

		HeaderY:       10,
		HeaderRuleY:   12,
		TitleY:        30,
		CreditsY:      40,
		CreditsStep:   5,
		NameY:         55,
		QuizNameY:     60,
		SummaryY:      70,
		NameOffset:    5,
		SummaryHeight: 40,

		QuestionsOffset: 55,
		TopMargin:       25,
		BottomMargin:    40,
		FooterOffset:    10,

		QuestionInsetX:     15,
		OptionInsetX:       25,
		QuestionBase:       10,
		ImageHeight:        10,
		OptionHeight:       6,
		ExplanationPadding: 20,
		ExplanationLine:    5,
		PromptLine:         6,
		QuestionGap:        5,
	}
}

// PrintableHeight — нижняя граница, ниже которой вопрос не размещается
func (l Layout) PrintableHeight() float64 {
	return l.PageHeight - l.BottomMargin
}

// ContentWidth — ширина между полями
func (l Layout) ContentWidth() float64 {
	return l.PageWidth - 2*l.MarginX
}

// explanationWidth — ширина переноса пояснения
func (l Layout) explanationWidth() float64 {
	return l.PageWidth - 2*l.OptionInsetX
}

// QuestionHeight возвращает высоту рамки вопроса
func (l Layout) QuestionHeight(hasImage bool, options, promptLines, explanationLines int) float64 {
	h := l.QuestionBase + float64(options)*l.OptionHeight + l.ExplanationPadding
	if hasImage {
		h += l.ImageHeight
	}
	if promptLines > 1 {
		h += float64(promptLines-1) * l.PromptLine
	}
	if explanationLines > 1 {
		h += float64(explanationLines-1) * l.ExplanationLine
	}
	return h
}

// Шрифты документа
var (
	fontHeader      = Font{Size: 8}
	fontTitle       = Font{Size: 24, Style: StyleBold}
	fontCredits     = Font{Size: 10}
	fontName        = Font{Size: 14, Style: StyleBold}
	fontQuizName    = Font{Size: 18, Style: StyleBold}
	fontSummaryHead = Font{Size: 12}
	fontSummary     = Font{Size: 10}
	fontQuestionNo  = Font{Size: 11, Style: StyleBold}
	fontPrompt      = Font{Size: 11}
	fontImage       = Font{Size: 9, Style: StyleItalic}
	fontExplanation = Font{Size: 9, Style: StyleItalic}
	fontFooter      = Font{Size: 8}
)

// Options — параметры построения отчета
type Options struct {
	ProductName string
	Tagline     string
	Credits     []string
	// GeneratedAt: момент генерации для шапки и подвала
	GeneratedAt time.Time
	Measurer    TextMeasurer
	// Font попадает в Document; Measurer должен быть построен на том же шрифте
	Font PDFFont
	// Layout: нулевое значение означает DefaultLayout()
	Layout Layout
}

func (o Options) withDefaults() Options {
	if o.ProductName == "" {
		o.ProductName = "AspireExamine"
	}
	if o.Measurer == nil {
		o.Measurer = FixedMeasurer{CharWidth: 2}
	}
	if o.Layout == (Layout{}) {
		o.Layout = DefaultLayout()
	}
	if o.GeneratedAt.IsZero() {
		o.GeneratedAt = time.Now()
	}
	return o
}

// builder накапливает страницы
type builder struct {
	opts  Options
	l     Layout
	doc   *Document
	page  *Page
	quiz  *entity.Quiz
	at    *entity.Attempt
	fresh bool
}

// Build раскладывает отчет по попытке. Функция чистая: результат зависит только от аргументов.
func Build(quiz *entity.Quiz, attempt *entity.Attempt, opts Options) (*Document, error) {
	if quiz == nil || attempt == nil {
		return nil, fmt.Errorf("%w: quiz and attempt are required", apperrors.ErrValidation)
	}
	if attempt.QuizID != quiz.ID {
		return nil, fmt.Errorf("%w: attempt belongs to quiz %q, not %q", apperrors.ErrValidation, attempt.QuizID, quiz.ID)
	}

	opts = opts.withDefaults()
	b := &builder{
		opts: opts,
		l:    opts.Layout,
		quiz: quiz,
		at:   attempt,
		doc: &Document{
			Layout:    opts.Layout,
			Title:     quiz.Name,
			Result:    scoring.Score(quiz, attempt),
			TimeTaken: scoring.FormatDuration(attempt.Elapsed()),
			Font:      opts.Font,
		},
	}

	b.newPage()
	summaryY := b.firstPage()

	cursor := summaryY + b.l.QuestionsOffset
	for i := range quiz.Questions {
		cursor = b.question(i, cursor)
	}

	b.footer()
	return b.doc, nil
}

func (b *builder) newPage() {
	b.doc.Pages = append(b.doc.Pages, Page{Number: len(b.doc.Pages) + 1})
	b.page = &b.doc.Pages[len(b.doc.Pages)-1]
	b.header()
}

func (b *builder) add(el Element) {
	b.page.Elements = append(b.page.Elements, el)
}

func (b *builder) text(x, y float64, text string, font Font, align Align, color Color) {
	b.add(Element{Kind: ElementText, X: x, Y: y, Text: text, Font: font, Align: align, Color: color})
}

// header повторяется на каждой странице: продукт, дата, разделитель
func (b *builder) header() {
	l := b.l
	title := b.opts.ProductName
	if b.opts.Tagline != "" {
		title += " - " + b.opts.Tagline
	}
	b.text(l.MarginX, l.HeaderY, title, fontHeader, AlignLeft, ColorBlack)
	b.text(l.PageWidth-l.MarginX, l.HeaderY, b.opts.GeneratedAt.Format("1/2/2006"), fontHeader, AlignRight, ColorBlack)
	b.add(Element{Kind: ElementLine, X: l.MarginX, Y: l.HeaderRuleY, X2: l.PageWidth - l.MarginX, Y2: l.HeaderRuleY, Color: ColorBlack})
}

// firstPage выводит титул и блок итогов, возвращает верх блока итогов
func (b *builder) firstPage() float64 {
	l := b.l
	center := l.PageWidth / 2

	b.text(center, l.TitleY, b.opts.ProductName, fontTitle, AlignCenter, ColorBlack)
	for i, line := range b.opts.Credits {
		b.text(center, l.CreditsY+float64(i)*l.CreditsStep, line, fontCredits, AlignCenter, ColorBlack)
	}

	offset := 0.0
	if name := strings.TrimSpace(b.at.AspirantName); name != "" {
		b.text(l.MarginX, l.NameY, "Name: "+name, fontName, AlignLeft, ColorBlack)
		offset = l.NameOffset
	}
	b.text(l.MarginX, l.QuizNameY+offset, b.quiz.Name, fontQuizName, AlignLeft, ColorBlack)

	y := l.SummaryY + offset
	res := b.doc.Result
	b.add(Element{
		Kind: ElementBox, X: l.MarginX, Y: y, W: l.ContentWidth(), H: l.SummaryHeight, Radius: 3,
		Color: ColorAccent, Fill: ColorSummaryBg,
	})
	b.text(center, y+10, "RESULT SUMMARY", fontSummaryHead, AlignCenter, ColorBlack)
	b.text(l.MarginX+10, y+20, "Time Taken: "+b.doc.TimeTaken, fontSummary, AlignLeft, ColorBlack)
	b.text(l.PageWidth-l.MarginX-10, y+20, fmt.Sprintf("Score: %d%%", res.Percentage), fontSummary, AlignRight, ColorBlack)
	b.text(l.MarginX+10, y+30, fmt.Sprintf("Total Questions: %d | Attempted: %d | Correct: %d | Wrong: %d",
		res.Total, res.Attempted, res.Correct, res.Wrong), fontSummary, AlignLeft, ColorBlack)
	return y
}

// question размещает вопрос i с верхней границей не выше cursor и возвращает новый cursor.
// Вопрос целиком переносится на новую страницу, если не влезает.
// Вопрос выше пустой страницы ставится в начало новой страницы и выходит за поле.
func (b *builder) question(i int, cursor float64) float64 {
	l := b.l
	q := &b.quiz.Questions[i]
	m := b.opts.Measurer

	promptLines := Wrap(m, q.Text, fontPrompt, l.ContentWidth())
	explanation := Wrap(m, "Explanation: "+q.Explanation, fontExplanation, l.explanationWidth())
	height := l.QuestionHeight(q.HasImage(), q.OptionsCount(), len(promptLines), len(explanation))

	if cursor+height > l.PrintableHeight() && !b.fresh {
		b.newPage()
		cursor = l.TopMargin
		b.fresh = true
	}

	top := cursor
	placement := Placement{
		Index:            i,
		QuestionID:       q.ID,
		Page:             b.page.Number,
		Top:              top,
		Height:           height,
		ExplanationLines: len(explanation),
	}

	b.add(Element{
		Kind: ElementBox, X: l.QuestionInsetX, Y: top, W: l.PageWidth - 2*l.QuestionInsetX, H: height, Radius: 2,
		Color: ColorQuestionFg, Fill: ColorQuestionBg,
	})

	y := top + 5
	b.text(l.MarginX, y, fmt.Sprintf("Question %d:", i+1), fontQuestionNo, AlignLeft, ColorBlack)
	for n, line := range promptLines {
		b.text(l.MarginX, y+7+float64(n)*l.PromptLine, line, fontPrompt, AlignLeft, ColorBlack)
	}
	y += 15 + float64(len(promptLines)-1)*l.PromptLine

	if q.HasImage() {
		b.text(l.OptionInsetX, y, "Image URL: "+q.ImageURL, fontImage, AlignLeft, ColorBlack)
		y += l.ImageHeight
	}

	selected, answered := b.at.Answer(q.ID)
	for idx, option := range q.Options {
		t := Treat(q, selected, answered, idx)
		placement.Treatments = append(placement.Treatments, t)

		font := Font{Size: 10}
		if t.Selected() {
			font.Style = StyleBold
		}
		label := fmt.Sprintf("%s) %s", entity.OptionLabel(idx), option)
		b.text(l.OptionInsetX, y, label, font, AlignLeft, t.Color())
		if g := t.Glyph(); g != GlyphNone {
			b.add(Element{Kind: ElementGlyph, X: l.OptionInsetX + m.Width(label, font) + 2, Y: y, W: 2.5, Glyph: g, Color: t.Color()})
		}
		y += l.OptionHeight
	}

	for n, line := range explanation {
		b.text(l.OptionInsetX, y+float64(n)*l.ExplanationLine, line, fontExplanation, AlignLeft, ColorAccent)
	}

	b.doc.Placements = append(b.doc.Placements, placement)
	b.fresh = false
	return top + height + l.QuestionGap
}

// footer выводится один раз, на последней странице
func (b *builder) footer() {
	l := b.l
	b.text(l.PageWidth/2, l.PageHeight-l.FooterOffset,
		fmt.Sprintf("Generated by %s on %s", b.opts.ProductName, b.opts.GeneratedAt.Format("1/2/2006, 3:04:05 PM")),
		fontFooter, AlignCenter, ColorMuted)
}
