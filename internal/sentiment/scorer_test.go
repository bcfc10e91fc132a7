package sentiment

import (
	"context"
	"testing"
)

func TestLexiconScorerSigns(t *testing.T) {
	t.Parallel()

	scores, err := LexiconScorer{}.ScoreComments(context.Background(), []string{
		"great, love it",
		"terrible, hate it",
		"the weather today",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[0] <= 0 {
		t.Fatalf("expected positive polarity for favorable comment, got %v", scores[0])
	}
	if scores[1] >= 0 {
		t.Fatalf("expected negative polarity for unfavorable comment, got %v", scores[1])
	}
	if scores[2] != 0 {
		t.Fatalf("expected zero polarity for neutral comment, got %v", scores[2])
	}
}

func TestLexiconScorerBounds(t *testing.T) {
	t.Parallel()

	texts := []string{
		"great good love bull moon pump gain buy strong rally profit win",
		"terrible bad hate bear dump crash scam sell weak loss drop fear",
		"",
	}
	scores, _ := LexiconScorer{}.ScoreComments(context.Background(), texts)
	for i, s := range scores {
		if s < -1 || s > 1 {
			t.Fatalf("score %d out of bounds: %v", i, s)
		}
	}
}

func TestLexiconScorerDeterministic(t *testing.T) {
	t.Parallel()

	text := []string{"btc will moon, great buy"}
	a, _ := LexiconScorer{}.ScoreComments(context.Background(), text)
	b, _ := LexiconScorer{}.ScoreComments(context.Background(), text)
	if a[0] != b[0] {
		t.Fatalf("scorer must be deterministic: %v vs %v", a[0], b[0])
	}
}

func TestTrimCodeFence(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"[{\"id\":0}]":                   "[{\"id\":0}]",
		"```json\n[{\"id\":0}]\n```":     "[{\"id\":0}]",
		"```\n[{\"id\":0}]\n```":         "[{\"id\":0}]",
		"  ```json\n[{\"id\":0}]\n```  ": "[{\"id\":0}]",
	}
	for in, expected := range cases {
		if got := trimCodeFence(in); got != expected {
			t.Errorf("trimCodeFence(%q) = %q, expected %q", in, got, expected)
		}
	}
}
