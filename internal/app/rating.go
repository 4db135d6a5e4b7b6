package app

import (
	"math"

	"guess-the-app/internal/domain"
)

// Summarize builds the thank-you tally for a finished session.
func Summarize(score, total int, newBest bool) domain.Summary {
	pct := 0.0
	if total > 0 {
		pct = float64(score) * 100 / float64(total)
	}
	return domain.Summary{
		Score:      score,
		Total:      total,
		Percentage: int(math.Round(pct)),
		Message:    ratingMessage(pct),
		NewBest:    newBest,
	}
}

func ratingMessage(pct float64) string {
	switch {
	case pct >= 100:
		return "Perfect Score! You're a legend!"
	case pct >= 80:
		return "Excellent! You really know your apps!"
	case pct >= 60:
		return "Great job! Keep it up!"
	case pct >= 40:
		return "Good effort! Try again!"
	default:
		return "Keep practicing! You'll get better!"
	}
}
