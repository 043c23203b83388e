// Package scoring подсчитывает итоги завершенной попытки.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/yourusername/examine-api/internal/domain/entity"
)

// Result содержит агрегированные показатели попытки
type Result struct {
	Total       int `json:"total_questions"`
	Attempted   int `json:"attempted"`
	Correct     int `json:"correct"`
	Wrong       int `json:"wrong"`
	Unattempted int `json:"unattempted"`
	Marked      int `json:"marked"`
	// Percentage считается от общего числа вопросов, а не от отвеченных
	Percentage int `json:"percentage"`
}

// Score считает итоги попытки по набору вопросов.
// Ответы на вопросы, которых нет в наборе, не учитываются.
func Score(quiz *entity.Quiz, attempt *entity.Attempt) Result {
	var res Result
	if quiz == nil {
		return res
	}
	res.Total = len(quiz.Questions)

	for _, q := range quiz.Questions {
		if attempt == nil {
			continue
		}
		if attempt.IsMarked(q.ID) {
			res.Marked++
		}
		selected, ok := attempt.Answer(q.ID)
		if !ok {
			continue
		}
		res.Attempted++
		if q.IsCorrect(selected) {
			res.Correct++
		}
	}

	res.Wrong = res.Attempted - res.Correct
	res.Unattempted = res.Total - res.Attempted
	res.Percentage = Percentage(res.Correct, res.Total)
	return res
}

// Percentage возвращает round(100 × correct / total), 0 для пустого набора
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return RoundHalfAwayFromZero(100 * float64(correct) / float64(total))
}

// RoundHalfAwayFromZero округляет .5 от нуля (33.5 → 34, -2.5 → -3)
func RoundHalfAwayFromZero(v float64) int {
	return int(math.Round(v))
}

// FormatDuration форматирует время в виде "<m> minutes <s> seconds" (обе части округляются вниз)
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%d minutes %d seconds", minutes, seconds)
}
