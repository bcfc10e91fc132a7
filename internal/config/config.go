package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port             string
	APIKey           string
	TelegramBotToken string
	RedisURL         string

	Subreddit       string
	RedditUserAgent string
	CommentLimit    int

	CatalogRefreshSecs int
	StrictStartup      bool

	OpenAIAPIKey string
	OpenAIModel  string
}

func Load() *Config {
	cfg := &Config{
		APIKey:           os.Getenv("API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		RedisURL:         os.Getenv("REDIS_URL"),
	}

	cfg.Port = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, API authentication is disabled")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, Telegram bot is disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, falling back to in-memory cache")
	}

	cfg.Subreddit = strings.TrimSpace(os.Getenv("SUBREDDIT"))
	if cfg.Subreddit == "" {
		cfg.Subreddit = "cryptocurrency"
	}

	cfg.RedditUserAgent = strings.TrimSpace(os.Getenv("REDDIT_USER_AGENT"))

	cfg.CommentLimit = 50
	if v := strings.TrimSpace(os.Getenv("COMMENT_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CommentLimit = n
		}
	}

	cfg.CatalogRefreshSecs = 3600
	if v := strings.TrimSpace(os.Getenv("CATALOG_REFRESH_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CatalogRefreshSecs = n
		}
	}

	cfg.StrictStartup = !strings.EqualFold(strings.TrimSpace(os.Getenv("STRICT_STARTUP")), "false")

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, scoring falls back to the lexicon heuristic")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	return cfg
}
