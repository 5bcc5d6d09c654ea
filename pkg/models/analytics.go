package models

// Analytics result shapes for the regeneration dashboard. All values are
// simple grouped counts over stored rows.

type SkillRegenCount struct {
	SkillID   int64  `json:"skill_id"`
	SkillName string `json:"skill_name"`
	Count     int64  `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

type SatisfactionCounts struct {
	Liked    int64 `json:"liked"`
	Disliked int64 `json:"disliked"`
	None     int64 `json:"none"`
}

type RegenerationStats struct {
	TotalRegenerations int64              `json:"total_regenerations"`
	TotalQuestions     int64              `json:"total_questions"`
	PerSkill           []SkillRegenCount  `json:"per_skill"`
	Trend              []DayCount         `json:"trend"`
	Reasons            []ReasonCount      `json:"reasons"`
	Satisfaction       SatisfactionCounts `json:"satisfaction"`
	// AveragePerQuestion is TotalRegenerations/TotalQuestions rounded to two
	// decimals, 0 when there are no questions.
	AveragePerQuestion float64 `json:"average_regenerations_per_question"`
}
