package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWritePDF(t *testing.T) {
	// Arrange
	quiz := makeQuiz(12)
	quiz.Questions[0].ImageURL = "https://cdn.example.com/1.png"
	attempt := endedAttempt(quiz, 4*time.Minute)
	attempt.Answers["q1"] = 1
	attempt.Answers["q2"] = 3
	attempt.AspirantName = "Иван"

	opts := testOptions()
	measurer, err := NewPDFMeasurer(PDFFont{})
	require.NoError(t, err)
	opts.Measurer = measurer
	doc, err := Build(quiz, attempt, opts)
	require.NoError(t, err)

	// Act
	var buf bytes.Buffer
	err = WritePDF(doc, &buf)

	// Assert
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "ожидается заголовок PDF")
	assert.Greater(t, doc.PageCount(), 1)
}

func TestPDFMeasurer(t *testing.T) {
	m, err := NewPDFMeasurer(PDFFont{})
	require.NoError(t, err)

	regular := m.Width("Explanation", Font{Size: 10})
	bigger := m.Width("Explanation", Font{Size: 20})

	assert.Greater(t, regular, 0.0)
	assert.InDelta(t, regular*2, bigger, 0.01, "ширина пропорциональна кеглю")
	assert.Zero(t, m.Width("", Font{Size: 10}))
}

func TestPDFFont_MissingFile(t *testing.T) {
	font := PDFFont{Path: filepath.Join(t.TempDir(), "missing.ttf")}

	_, err := NewPDFMeasurer(font)
	assert.Error(t, err)

	quiz := makeQuiz(1)
	opts := testOptions()
	opts.Font = font
	doc, err := Build(quiz, endedAttempt(quiz, time.Minute), opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, WritePDF(doc, &buf))
	assert.Zero(t, buf.Len(), "PDF не пишется без шрифта")
}

func TestWriteXLSX(t *testing.T) {
	// Arrange
	quiz := makeQuiz(3)
	quiz.Questions[2].Text = "=SUM(A1:A2)"
	attempt := endedAttempt(quiz, 2*time.Minute+5*time.Second)
	attempt.Answers["q1"] = 1
	attempt.Answers["q2"] = 0
	attempt.Marked["q3"] = struct{}{}
	attempt.AspirantName = "Ann"

	doc, err := Build(quiz, attempt, testOptions())
	require.NoError(t, err)

	// Act
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(doc, quiz, attempt, &buf))

	// Assert
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quiz", "Physics"}, summary[0])
	assert.Equal(t, []string{"Name", "Ann"}, summary[1])
	assert.Equal(t, []string{"Time Taken", "2 minutes 5 seconds"}, summary[2])
	assert.Equal(t, []string{"Score (%)", "33"}, summary[3])

	rows, err := f.GetRows(SheetQuestions)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"#", "Question", "Selected", "Correct", "Status", "Marked", "Page", "Explanation"}, rows[0])
	assert.Equal(t, []string{"1", "Question text 1", "B", "B", "correct", "", "1", "Short."}, rows[1])
	assert.Equal(t, []string{"2", "Question text 2", "A", "B", "wrong", "", "1", "Short."}, rows[2])
	assert.Equal(t, []string{"3", "'=SUM(A1:A2)", "", "B", "unattempted", "yes", "2", "Short."}, rows[3])
}

func TestFilename(t *testing.T) {
	testCases := []struct {
		quiz, ext, want string
	}{
		{"Physics: Mechanics 1", FormatPDF, "Physics-Mechanics-1-result.pdf"},
		{"Химия/Органика", FormatXLSX, "Химия-Органика-result.xlsx"},
		{"a--b!!", FormatPDF, "a-b-result.pdf"},
		{"   ", FormatPDF, "quiz-result.pdf"},
		{"../../etc/passwd", FormatPDF, "etc-passwd-result.pdf"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Filename(tc.quiz, tc.ext))
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType(FormatPDF))
	assert.Contains(t, ContentType(FormatXLSX), "spreadsheetml")
}

func TestSetRows_PropagatesWriterErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sw, err := f.NewStreamWriter("Sheet1")
	require.NoError(t, err)

	rows := [][]interface{}{{"a", 1}, {"b", 2}}
	require.NoError(t, setRows(sw, 3, rows))

	// строки потокового писателя идут только по возрастанию
	err = setRows(sw, 1, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write row 1")

	// нулевой строки в Excel нет
	g := excelize.NewFile()
	defer g.Close()
	other, err := g.NewStreamWriter("Sheet1")
	require.NoError(t, err)
	assert.Error(t, setRows(other, 0, rows))
}
