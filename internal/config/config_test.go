package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_KEY", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SUBREDDIT", "")
	t.Setenv("REDDIT_USER_AGENT", "")
	t.Setenv("COMMENT_LIMIT", "")
	t.Setenv("CATALOG_REFRESH_SECS", "")
	t.Setenv("STRICT_STARTUP", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg := Load()
	if !cfg.StrictStartup {
		t.Fatal("expected strict startup by default")
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Subreddit != "cryptocurrency" {
		t.Fatalf("expected default subreddit, got %s", cfg.Subreddit)
	}
	if cfg.CommentLimit != 50 {
		t.Fatalf("expected default comment limit 50, got %d", cfg.CommentLimit)
	}
	if cfg.CatalogRefreshSecs != 3600 {
		t.Fatalf("expected default catalog refresh 3600, got %d", cfg.CatalogRefreshSecs)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %s", cfg.OpenAIModel)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_KEY", "secret")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("SUBREDDIT", "bitcoin")
	t.Setenv("REDDIT_USER_AGENT", "custom/2.0")
	t.Setenv("COMMENT_LIMIT", "25")
	t.Setenv("CATALOG_REFRESH_SECS", "600")
	t.Setenv("STRICT_STARTUP", "false")

	cfg := Load()
	if cfg.StrictStartup {
		t.Fatal("expected strict startup disabled")
	}
	if cfg.Port != "9000" || cfg.APIKey != "secret" || cfg.TelegramBotToken != "token" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Subreddit != "bitcoin" || cfg.RedditUserAgent != "custom/2.0" {
		t.Fatalf("unexpected reddit config: %+v", cfg)
	}
	if cfg.CommentLimit != 25 || cfg.CatalogRefreshSecs != 600 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}

	t.Setenv("COMMENT_LIMIT", "bad")
	t.Setenv("CATALOG_REFRESH_SECS", "-1")
	cfg = Load()
	if cfg.CommentLimit != 50 {
		t.Fatalf("invalid comment limit should fall back to default, got %d", cfg.CommentLimit)
	}
	if cfg.CatalogRefreshSecs != 3600 {
		t.Fatalf("invalid refresh secs should fall back to default, got %d", cfg.CatalogRefreshSecs)
	}
}
