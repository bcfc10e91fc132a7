package sentiment

import "cryptopulse/internal/domain"

// adviceThreshold separates the strong advisory bands from the mild ones.
const adviceThreshold = 0.1

// Advise maps a mean polarity score to exactly one advisory category.
// A score of exactly +0.1 or -0.1 falls in the mild band.
func Advise(score float64) domain.Advisory {
	switch {
	case score > adviceThreshold:
		return domain.Advisory{
			Category: domain.AdvisoryStrongPositive,
			Message:  "Strong positive sentiment! Potentially good buying opportunity.",
		}
	case score > 0:
		return domain.Advisory{
			Category: domain.AdvisoryMildPositive,
			Message:  "Moderately positive sentiment. Consider buying with caution.",
		}
	case score < -adviceThreshold:
		return domain.Advisory{
			Category: domain.AdvisoryStrongNegative,
			Message:  "Strong negative sentiment! Consider waiting or selling.",
		}
	case score < 0:
		return domain.Advisory{
			Category: domain.AdvisoryMildNegative,
			Message:  "Moderately negative sentiment. Be cautious with investments.",
		}
	default:
		return domain.Advisory{
			Category: domain.AdvisoryNeutral,
			Message:  "Neutral sentiment. Monitor the market before deciding.",
		}
	}
}
