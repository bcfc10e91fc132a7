package sentiment

import (
	"context"
	"log"

	"cryptopulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Aggregator scores a set of discussion comments and reduces them to a
// mean polarity. The lexicon scorer is always the baseline; an optional
// LLM scorer replaces its output when a batch succeeds.
type Aggregator struct {
	tracer trace.Tracer
	llm    Scorer
}

func NewAggregator(tracer trace.Tracer, llm Scorer) *Aggregator {
	return &Aggregator{tracer: tracer, llm: llm}
}

// Analyze scores each comment and returns the per-comment records plus
// the arithmetic mean. Empty input yields score 0 with NoData set, so
// "no comments found" is never mistaken for a genuinely neutral read.
func (a *Aggregator) Analyze(ctx context.Context, comments []string) domain.SentimentSummary {
	_, span := a.tracer.Start(ctx, "sentiment.analyze")
	defer span.End()

	if len(comments) == 0 {
		return domain.SentimentSummary{Score: 0, NoData: true}
	}

	polarities, _ := LexiconScorer{}.ScoreComments(ctx, comments)
	if a.llm != nil {
		scored, err := a.llm.ScoreComments(ctx, comments)
		switch {
		case err != nil:
			log.Printf("llm scorer error, keeping lexicon scores: %v", err)
		case len(scored) != len(comments):
			log.Printf("llm scorer returned %d scores for %d comments, keeping lexicon scores", len(scored), len(comments))
		default:
			polarities = scored
		}
	}

	records := make([]domain.SentimentRecord, len(comments))
	sum := 0.0
	for i, comment := range comments {
		records[i] = domain.SentimentRecord{
			Comment:  comment,
			Polarity: polarities[i],
			Label:    domain.LabelForPolarity(polarities[i]),
		}
		sum += polarities[i]
	}

	return domain.SentimentSummary{
		Records: records,
		Score:   sum / float64(len(comments)),
	}
}
