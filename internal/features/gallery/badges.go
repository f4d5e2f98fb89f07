// Package gallery: badges.go считает значки достижений по лучшему стрику.
package gallery

// badgeTable: все значки по возрастанию порога.
var badgeTable = []Badge{
	{Symbol: "🔥", Label: "Week Warrior", Threshold: 7},
	{Symbol: "⚔️", Label: "Fortnight Fighter", Threshold: 14},
	{Symbol: "🏆", Label: "Monthly Master", Threshold: 30},
	{Symbol: "💎", Label: "Diamond Scholar", Threshold: 60},
	{Symbol: "💯", Label: "Century Champion", Threshold: 100},
}

// EarnedBadges возвращает значки, порог которых <= longestStreak, по возрастанию порога.
// Набор только растёт вместе с longestStreak. Ниже 7 дней пустой срез.
func EarnedBadges(longestStreak int) []Badge {
	earned := make([]Badge, 0, len(badgeTable))
	for _, b := range badgeTable {
		if longestStreak < b.Threshold {
			break
		}
		earned = append(earned, b)
	}
	return earned
}

// NextBadgeFor возвращает ближайший неполученный значок и сколько дней до него осталось.
// Если получены все значки, nil.
func NextBadgeFor(longestStreak int) *NextBadge {
	if longestStreak < 0 {
		longestStreak = 0
	}
	for _, b := range badgeTable {
		if longestStreak < b.Threshold {
			return &NextBadge{Badge: b, DaysLeft: b.Threshold - longestStreak}
		}
	}
	return nil
}
