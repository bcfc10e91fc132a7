package domain

import "time"

// CoinListing maps a coin id to its ticker symbol.
// Refreshed wholesale when the catalog cache expires.
type CoinListing map[string]string

// CoinInfo is a read-only snapshot of one coin's metadata. A new fetch
// replaces the whole record; fields are never patched individually.
type CoinInfo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	PriceUSD     float64 `json:"price_usd"`
	Change24hPct float64 `json:"change_24h_pct"`
	MarketCapUSD float64 `json:"market_cap_usd"`
	Description  string  `json:"description"`
	Homepage     string  `json:"homepage"`
}

// PricePoint is one daily closing price.
type PricePoint struct {
	Time     time.Time `json:"time"`
	PriceUSD float64   `json:"price_usd"`
}

// PriceSeries is an ascending-by-time sequence of daily prices.
// An empty series is valid and means "no data".
type PriceSeries []PricePoint

// Latest returns the most recent price in the series.
func (s PriceSeries) Latest() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1].PriceUSD, true
}

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNegative SentimentLabel = "negative"
	LabelNeutral  SentimentLabel = "neutral"
)

// LabelForPolarity derives the qualitative label from the sign of a polarity.
func LabelForPolarity(polarity float64) SentimentLabel {
	switch {
	case polarity > 0:
		return LabelPositive
	case polarity < 0:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// SentimentRecord pairs a discussion comment with its polarity in [-1, 1].
type SentimentRecord struct {
	Comment  string         `json:"comment"`
	Polarity float64        `json:"polarity"`
	Label    SentimentLabel `json:"label"`
}

// SentimentSummary is the aggregate over a set of scored comments.
// NoData distinguishes "no comments found" from a genuinely neutral mean.
type SentimentSummary struct {
	Records []SentimentRecord `json:"records"`
	Score   float64           `json:"score"`
	NoData  bool              `json:"no_data"`
}

type AdvisoryCategory string

const (
	AdvisoryStrongPositive AdvisoryCategory = "strong_positive"
	AdvisoryMildPositive   AdvisoryCategory = "mild_positive"
	AdvisoryNeutral        AdvisoryCategory = "neutral"
	AdvisoryMildNegative   AdvisoryCategory = "mild_negative"
	AdvisoryStrongNegative AdvisoryCategory = "strong_negative"
)

// Advisory is the qualitative reading of a mean polarity score.
type Advisory struct {
	Category AdvisoryCategory `json:"category"`
	Message  string           `json:"message"`
}

type AlertKind string

const (
	AlertReached AlertKind = "reached"
	AlertDropped AlertKind = "dropped"
)

// AlertResult reports a triggered price alert. A nil result means the
// alert was disabled or could not be evaluated.
type AlertResult struct {
	Kind        AlertKind `json:"kind"`
	LatestPrice float64   `json:"latest_price"`
	TargetPrice float64   `json:"target_price"`
	Message     string    `json:"message"`
}

// SupportedWindows are the selectable chart windows in days.
var SupportedWindows = []int{1, 7, 30, 90, 180, 365}

// ValidWindow reports whether days is one of the supported chart windows.
func ValidWindow(days int) bool {
	for _, w := range SupportedWindows {
		if days == w {
			return true
		}
	}
	return false
}

// AnalysisRequest carries one user analysis selection through the pipeline.
type AnalysisRequest struct {
	CoinID      string  `json:"coin_id"`
	Days        int     `json:"days"`
	TargetPrice float64 `json:"target_price"`
}

// AnalysisReport is the full output of one analysis run.
type AnalysisReport struct {
	Coin      *CoinInfo        `json:"coin,omitempty"`
	Symbol    string           `json:"symbol"`
	Sentiment SentimentSummary `json:"sentiment"`
	Advisory  *Advisory        `json:"advisory,omitempty"`
	Series    PriceSeries      `json:"series"`
	Alert     *AlertResult     `json:"alert,omitempty"`
}
