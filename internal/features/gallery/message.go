// Package gallery: message.go выбирает мотивационное сообщение.
package gallery

import (
	"fmt"

	"serotonyl.ru/ghostcards/internal/common"
)

// BuildMessage выбирает вариант сообщения. Правила проверяются строго по порядку:
//  1. currentStreak == 0              → start_new
//  2. currentStreak < longestStreak   → beat_record (delta = longest - current)
//  3. иначе                           → at_best
//
// Поэтому при current = 0 и longest = 0 выигрывает start_new.
func BuildMessage(currentStreak, longestStreak int) Message {
	switch {
	case currentStreak == 0:
		return Message{
			Variant: MessageStartNew,
			Text:    "Review a few cards today to start a new streak!",
		}
	case currentStreak < longestStreak:
		delta := longestStreak - currentStreak
		return Message{
			Variant: MessageBeatRecord,
			Params:  MessageParams{Delta: &delta},
			Text:    fmt.Sprintf("Just %s more to beat your record!", common.FormatDays(delta)),
		}
	default:
		return Message{
			Variant: MessageAtBest,
			Text:    "You're at your best streak ever. Keep it going!",
		}
	}
}
