// Package streak: counter.go решает, засчитывается ли повторение карточки в стрик.
package streak

const (
	// MinQuality и MaxQuality задают шкалу оценок SM-2.
	MinQuality = 0
	MaxQuality = 5
)

// CountsForStreak проверяет, идёт ли повторение в дневную норму.
// Засчитывается любая оценка по шкале SM-2, включая «не вспомнил» (0).
//
//	CountsForStreak(0) → true
//	CountsForStreak(5) → true
//	CountsForStreak(7) → false
func CountsForStreak(quality int) bool {
	return quality >= MinQuality && quality <= MaxQuality
}
