package alert

import (
	"fmt"
	"strings"

	"cryptopulse/internal/domain"
)

// Evaluate compares the latest price in a series against a user target.
// A target of zero (or below) disables the alert; an empty series
// cannot be evaluated. The "reached" check wins when the latest price
// equals the target exactly.
func Evaluate(series domain.PriceSeries, symbol string, target float64) *domain.AlertResult {
	if target <= 0 {
		return nil
	}
	latest, ok := series.Latest()
	if !ok {
		return nil
	}

	symbol = strings.ToUpper(symbol)
	switch {
	case latest >= target:
		return &domain.AlertResult{
			Kind:        domain.AlertReached,
			LatestPrice: latest,
			TargetPrice: target,
			Message:     fmt.Sprintf("Price alert! %s reached $%.2f", symbol, target),
		}
	default:
		return &domain.AlertResult{
			Kind:        domain.AlertDropped,
			LatestPrice: latest,
			TargetPrice: target,
			Message:     fmt.Sprintf("Price alert! %s dropped below $%.2f", symbol, target),
		}
	}
}
