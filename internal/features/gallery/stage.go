// Package gallery: stage.go классифицирует длину стрика в стадию призрака.
package gallery

// stageTier: порог стадии. MaxLength включительно, -1 означает «без верхней границы».
type stageTier struct {
	MaxLength int
	Stage     StreakStage
}

// stageTiers проверяются по порядку, выигрывает первая подходящая.
//
//	0–3   → Wisp
//	4–7   → Spirit Orb
//	8–14  → Baby Ghost
//	15–30 → Ghost
//	31+   → Phantom
var stageTiers = []stageTier{
	{MaxLength: 3, Stage: StreakStage{Name: "Wisp", Symbol: "✨", VisualWeight: 0.40}},
	{MaxLength: 7, Stage: StreakStage{Name: "Spirit Orb", Symbol: "🔮", VisualWeight: 0.55}},
	{MaxLength: 14, Stage: StreakStage{Name: "Baby Ghost", Symbol: "🐣", VisualWeight: 0.70}},
	{MaxLength: 30, Stage: StreakStage{Name: "Ghost", Symbol: "👻", VisualWeight: 0.85}},
	{MaxLength: -1, Stage: StreakStage{Name: "Phantom", Symbol: "🎃", VisualWeight: 1.00}},
}

// ClassifyStage возвращает стадию призрака для длины стрика.
// Отрицательная длина приводится к нулю.
//
// Примеры:
//
//	ClassifyStage(3)  → Wisp
//	ClassifyStage(4)  → Spirit Orb
//	ClassifyStage(31) → Phantom
func ClassifyStage(streakLength int) StreakStage {
	if streakLength < 0 {
		streakLength = 0
	}
	for _, tier := range stageTiers {
		if tier.MaxLength < 0 || streakLength <= tier.MaxLength {
			return tier.Stage
		}
	}
	return stageTiers[len(stageTiers)-1].Stage
}
