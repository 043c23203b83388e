package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/examine-api/internal/domain/entity"
)

// Имена листов книги
const (
	SheetSummary   = "Summary"
	SheetQuestions = "Questions"
)

// WriteXLSX пишет книгу с итогами и построчным разбором вопросов.
// Выделение вариантов берется из раскладки, поэтому совпадает с PDF.
func WriteXLSX(doc *Document, quiz *entity.Quiz, attempt *entity.Attempt, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, doc, quiz, attempt); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetQuestions); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeQuestionsSheet(f, doc, quiz, attempt); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, doc *Document, quiz *entity.Quiz, attempt *entity.Attempt) error {
	sw, err := f.NewStreamWriter(SheetSummary)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	res := doc.Result
	rows := [][]interface{}{
		{"Quiz", sanitizeForExcel(quiz.Name)},
		{"Name", sanitizeForExcel(attempt.AspirantName)},
		{"Time Taken", doc.TimeTaken},
		{"Score (%)", res.Percentage},
		{"Total Questions", res.Total},
		{"Attempted", res.Attempted},
		{"Correct", res.Correct},
		{"Wrong", res.Wrong},
		{"Unattempted", res.Unattempted},
		{"Marked for Review", res.Marked},
	}
	if err := setRows(sw, 1, rows); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	return sw.Flush()
}

func writeQuestionsSheet(f *excelize.File, doc *Document, quiz *entity.Quiz, attempt *entity.Attempt) error {
	sw, err := f.NewStreamWriter(SheetQuestions)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	rows := make([][]interface{}, 0, len(doc.Placements)+1)
	rows = append(rows, []interface{}{"#", "Question", "Selected", "Correct", "Status", "Marked", "Page", "Explanation"})

	for _, p := range doc.Placements {
		q := &quiz.Questions[p.Index]
		selected, status := "", "unattempted"
		if opt, ok := attempt.Answer(q.ID); ok {
			selected = entity.OptionLabel(opt)
			status = "wrong"
			if q.IsCorrect(opt) {
				status = "correct"
			}
		}
		marked := ""
		if attempt.IsMarked(q.ID) {
			marked = "yes"
		}

		rows = append(rows, []interface{}{
			p.Index + 1,
			sanitizeForExcel(q.Text),
			selected,
			entity.OptionLabel(q.CorrectAnswer),
			status,
			marked,
			p.Page,
			sanitizeForExcel(q.Explanation),
		})
	}
	if err := setRows(sw, 1, rows); err != nil {
		return fmt.Errorf("questions sheet: %w", err)
	}
	return sw.Flush()
}

// setRows пишет строки подряд, начиная с firstRow. Первая ошибка прерывает запись:
// книга с пропущенными строками не отдается.
func setRows(sw *excelize.StreamWriter, firstRow int, rows [][]interface{}) error {
	for i, row := range rows {
		if err := sw.SetRow(fmt.Sprintf("A%d", firstRow+i), row); err != nil {
			return fmt.Errorf("write row %d: %w", firstRow+i, err)
		}
	}
	return nil
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
