package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(market *service.MarketService, analysis *service.AnalysisService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/coin", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /coin bitcoin")
		}
		coinID := strings.ToLower(args[0])
		info := market.GetCoinInfo(context.Background(), coinID)
		if info == nil {
			return c.Send(fmt.Sprintf("No data for %s right now, try again later", coinID))
		}
		msg := fmt.Sprintf(
			"%s (%s)\nPrice: $%.2f\n24h Change: %.2f%%\nMarket Cap: $%.0f",
			info.Name, strings.ToUpper(info.Symbol), info.PriceUSD, info.Change24hPct, info.MarketCapUSD,
		)
		return c.Send(msg)
	})

	b.Handle("/pulse", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /pulse bitcoin [days] [target price]")
		}
		req := domain.AnalysisRequest{CoinID: strings.ToLower(args[0]), Days: 7}
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return c.Send(fmt.Sprintf("Bad window %q, use one of %v", args[1], domain.SupportedWindows))
			}
			req.Days = n
		}
		if len(args) > 2 {
			target, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return c.Send(fmt.Sprintf("Bad target price %q", args[2]))
			}
			req.TargetPrice = target
		}

		report, err := analysis.Analyze(context.Background(), req)
		if err != nil {
			return c.Send(fmt.Sprintf("Analysis failed for %s: %v", req.CoinID, err))
		}
		return c.Send(formatReport(req.CoinID, report))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatReport(coinID string, report *domain.AnalysisReport) string {
	var sb strings.Builder

	name := coinID
	if report.Coin != nil {
		name = report.Coin.Name
		fmt.Fprintf(&sb, "%s (%s)\nPrice: $%.2f\n24h Change: %.2f%%\n",
			name, strings.ToUpper(report.Coin.Symbol), report.Coin.PriceUSD, report.Coin.Change24hPct)
	} else {
		fmt.Fprintf(&sb, "%s\n", name)
	}

	if report.Sentiment.NoData {
		sb.WriteString("Sentiment: no recent discussion found\n")
	} else {
		fmt.Fprintf(&sb, "Sentiment: %.3f over %d comments\n", report.Sentiment.Score, len(report.Sentiment.Records))
	}
	if report.Advisory != nil {
		fmt.Fprintf(&sb, "%s\n", report.Advisory.Message)
	}
	if latest, ok := report.Series.Latest(); ok {
		fmt.Fprintf(&sb, "Latest daily close: $%.2f\n", latest)
	}
	if report.Alert != nil {
		fmt.Fprintf(&sb, "%s\n", report.Alert.Message)
	}

	return strings.TrimRight(sb.String(), "\n")
}
