package sentiment

import (
	"context"
	"strings"
)

// Scorer assigns each comment a polarity in [-1, 1]; negative values
// mean unfavorable tone. Implementations must return one polarity per
// input comment, in order.
type Scorer interface {
	ScoreComments(ctx context.Context, comments []string) ([]float64, error)
}

// LexiconScorer is the default scorer: a deterministic keyword count.
// Deliberately simple, it exists so the pipeline works without any
// external scoring dependency.
type LexiconScorer struct{}

var (
	favorableTokens = []string{
		"great", "good", "love", "bull", "moon", "pump", "gain", "buy",
		"strong", "rally", "profit", "win", "adoption", "breakout",
		"surge", "recover", "uptrend", "amazing",
	}
	unfavorableTokens = []string{
		"terrible", "bad", "hate", "bear", "dump", "crash", "scam",
		"sell", "weak", "loss", "drop", "fear", "rug", "lawsuit",
		"hack", "ban", "fud", "liquidation", "downtrend",
	}
)

func (LexiconScorer) ScoreComments(_ context.Context, comments []string) ([]float64, error) {
	polarities := make([]float64, len(comments))
	for i, comment := range comments {
		polarities[i] = scoreText(comment)
	}
	return polarities, nil
}

func scoreText(text string) float64 {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0
	}
	favorable := countMatches(text, favorableTokens)
	unfavorable := countMatches(text, unfavorableTokens)
	raw := float64(favorable-unfavorable) / float64(favorable+unfavorable+1)
	return clamp(raw, -1, 1)
}

func countMatches(text string, tokens []string) int {
	count := 0
	for _, token := range tokens {
		if strings.Contains(text, token) {
			count++
		}
	}
	return count
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
