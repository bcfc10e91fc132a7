package domain

import (
	"testing"
	"time"
)

func TestLabelForPolarity(t *testing.T) {
	tests := map[float64]SentimentLabel{
		0.5:   LabelPositive,
		0.001: LabelPositive,
		0:     LabelNeutral,
		-0.01: LabelNegative,
		-1:    LabelNegative,
	}
	for polarity, expected := range tests {
		if got := LabelForPolarity(polarity); got != expected {
			t.Errorf("polarity %v: expected %s, got %s", polarity, expected, got)
		}
	}
}

func TestPriceSeriesLatest(t *testing.T) {
	var empty PriceSeries
	if _, ok := empty.Latest(); ok {
		t.Error("empty series should have no latest price")
	}

	series := PriceSeries{
		{Time: time.Unix(1000, 0), PriceUSD: 10},
		{Time: time.Unix(2000, 0), PriceUSD: 12},
	}
	latest, ok := series.Latest()
	if !ok || latest != 12 {
		t.Errorf("expected latest 12, got %v (ok=%v)", latest, ok)
	}
}

func TestValidWindow(t *testing.T) {
	for _, days := range SupportedWindows {
		if !ValidWindow(days) {
			t.Errorf("window %d should be valid", days)
		}
	}
	for _, days := range []int{0, 2, 14, 400, -7} {
		if ValidWindow(days) {
			t.Errorf("window %d should be invalid", days)
		}
	}
}

func TestCoinInfoFields(t *testing.T) {
	info := CoinInfo{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", PriceUSD: 97000}
	if info.ID != "bitcoin" || info.Symbol != "btc" || info.PriceUSD != 97000 {
		t.Errorf("CoinInfo fields not set correctly: %+v", info)
	}
}
