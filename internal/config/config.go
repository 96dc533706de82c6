package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	App        App
	Database   Database
	Logger     Logger
	LLM        LLM
	Browser    Browser
	Scraper    Scraper
	Cleaner    Cleaner
	Export     Export
	Migrations Migrations
}

type App struct {
	Host string
	Port string
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Enabled сообщает, настроен ли архив запусков.
func (d Database) Enabled() bool {
	return d.Host != ""
}

// DSN возвращает строку подключения для gorm.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// URL возвращает строку подключения в формате golang-migrate.
func (d Database) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env   string
	Level string
}

type LLM struct {
	APIKey            string
	Model             string
	BaseURL           string
	MaxTokens         int
	RequestsPerMinute int
	TokensPerHour     int
}

type Browser struct {
	Engine       string
	Kind         string
	Display      string
	Headless     bool
	BrowsersPath string
	UserAgent    string
	Timeout      time.Duration
}

// Scraper содержит все таймауты, паузы и маркеры разметки навигатора.
type Scraper struct {
	PageCap              int
	PopupTimeout         time.Duration
	ReviewsButtonTimeout time.Duration
	ReviewsTimeout       time.Duration
	NextTimeout          time.Duration
	ListingPause         time.Duration
	SettlePause          time.Duration
	ScrollPause          time.Duration
	PageLoadPause        time.Duration

	PopupCloseXPath    string
	ReviewsButtonXPath string
	NextXPath          string

	ReviewBodySelector string
	ReviewTextSelector string
	RatingSelector     string
	TitleSelector      string
}

type Cleaner struct {
	StopwordsFile string
}

type Export struct {
	Path string
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		App: App{
			Host: env("APP_HOST", "0.0.0.0"),
			Port: env("APP_PORT", "8080"),
		},
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
		},
		LLM: LLM{
			APIKey:            os.Getenv("GEMINI_API_KEY"),
			Model:             env("LLM_MODEL", "gemini-2.0-flash"),
			BaseURL:           env("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			MaxTokens:         envInt("LLM_MAX_TOKENS", 4000),
			RequestsPerMinute: envInt("LLM_REQUESTS_PER_MINUTE", 15),
			TokensPerHour:     envInt("LLM_TOKENS_PER_HOUR", 1000000),
		},
		Browser: Browser{
			Engine:       strings.ToLower(env("BROWSER_ENGINE", "playwright")),
			Kind:         strings.ToLower(env("PW_BROWSER", "chromium")),
			Display:      os.Getenv("DISPLAY"),
			Headless:     envBoolDefault("PW_HEADLESS", true),
			BrowsersPath: env("PLAYWRIGHT_BROWSERS_PATH", ""),
			UserAgent:    env("BROWSER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
			Timeout:      envDuration("BROWSER_TIMEOUT", 30*time.Second),
		},
		Scraper: Scraper{
			PageCap:              envInt("SCRAPER_PAGE_CAP", 10),
			PopupTimeout:         envDuration("SCRAPER_POPUP_TIMEOUT", 5*time.Second),
			ReviewsButtonTimeout: envDuration("SCRAPER_REVIEWS_BUTTON_TIMEOUT", 5*time.Second),
			ReviewsTimeout:       envDuration("SCRAPER_REVIEWS_TIMEOUT", 10*time.Second),
			NextTimeout:          envDuration("SCRAPER_NEXT_TIMEOUT", 5*time.Second),
			ListingPause:         envDuration("SCRAPER_LISTING_PAUSE", 3*time.Second),
			SettlePause:          envDuration("SCRAPER_SETTLE_PAUSE", 2*time.Second),
			ScrollPause:          envDuration("SCRAPER_SCROLL_PAUSE", time.Second),
			PageLoadPause:        envDuration("SCRAPER_PAGE_LOAD_PAUSE", 3*time.Second),

			PopupCloseXPath:    env("SCRAPER_POPUP_CLOSE_XPATH", "//button[contains(text(),'✕')]"),
			ReviewsButtonXPath: env("SCRAPER_REVIEWS_BUTTON_XPATH", "//div[contains(@class, '_23J90q')]"),
			NextXPath:          env("SCRAPER_NEXT_XPATH", "//span[text()='Next']"),

			ReviewBodySelector: env("SCRAPER_REVIEW_BODY", "div.ZmyHeo"),
			ReviewTextSelector: env("SCRAPER_REVIEW_TEXT", "div"),
			RatingSelector:     env("SCRAPER_RATING", "div.XQDdHH"),
			TitleSelector:      env("SCRAPER_TITLE", "p.z9E0IG"),
		},
		Cleaner: Cleaner{
			StopwordsFile: os.Getenv("STOPWORDS_FILE"),
		},
		Export: Export{
			Path: env("EXPORT_PATH", "output/cleaned_reviews.xlsx"),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	switch c.Browser.Engine {
	case "playwright", "chromedp":
	default:
		return fmt.Errorf("неизвестный BROWSER_ENGINE %q: ожидается playwright или chromedp", c.Browser.Engine)
	}
	if c.Scraper.PageCap <= 0 {
		return fmt.Errorf("SCRAPER_PAGE_CAP должен быть положительным")
	}
	if c.Export.Path == "" {
		return fmt.Errorf("EXPORT_PATH не может быть пустым")
	}

	// Нулевой таймаут playwright понимает как "ждать бесконечно".
	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"BROWSER_TIMEOUT", c.Browser.Timeout},
		{"SCRAPER_POPUP_TIMEOUT", c.Scraper.PopupTimeout},
		{"SCRAPER_REVIEWS_BUTTON_TIMEOUT", c.Scraper.ReviewsButtonTimeout},
		{"SCRAPER_REVIEWS_TIMEOUT", c.Scraper.ReviewsTimeout},
		{"SCRAPER_NEXT_TIMEOUT", c.Scraper.NextTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			return fmt.Errorf("%s должен быть положительным, получено %s", t.name, t.value)
		}
	}

	pauses := []struct {
		name  string
		value time.Duration
	}{
		{"SCRAPER_LISTING_PAUSE", c.Scraper.ListingPause},
		{"SCRAPER_SETTLE_PAUSE", c.Scraper.SettlePause},
		{"SCRAPER_SCROLL_PAUSE", c.Scraper.ScrollPause},
		{"SCRAPER_PAGE_LOAD_PAUSE", c.Scraper.PageLoadPause},
	}
	for _, p := range pauses {
		if p.value < 0 {
			return fmt.Errorf("%s не может быть отрицательным, получено %s", p.name, p.value)
		}
	}
	return nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func envBoolDefault(key string, defaultValue bool) bool {
	if os.Getenv(key) == "" {
		return defaultValue
	}
	return envBool(key)
}

// envDuration принимает как "5s", так и целое число секунд.
func envDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
