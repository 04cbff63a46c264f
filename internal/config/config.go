// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "configs/config.yaml"

	DefaultUserAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultNavigationTimeout  = 60 * time.Second
	DefaultSettleDelay        = 3 * time.Second
	DefaultSettlePollInterval = 250 * time.Millisecond
	DefaultFilePrefix         = "vagas"
	DefaultSheetName          = "Vagas"
	DefaultServerAddr         = ":8080"
)

// DefaultURLs are the search pages visited when nothing else is configured.
var DefaultURLs = []string{
	"https://www.vagas.com.br/vagas-de-sao-paulo-em-sao-paulo?a%5B%5D=11&a%5B%5D=15&a%5B%5D=21&a%5B%5D=130&e%5B%5D=S%C3%A3o+Paulo&h%5B%5D=40&h%5B%5D=30&m%5B%5D=Empresa+e+Home+Office&m%5B%5D=Na+empresa&mo%5B%5D=Regime+CLT",
	"https://www.vagas.com.br/vagas-de-sao-paulo-em-sao-paulo?a%5B%5D=130&e%5B%5D=S%C3%A3o+Paulo&h%5B%5D=40&h%5B%5D=30&m%5B%5D=Empresa+e+Home+Office&m%5B%5D=Na+empresa&mo%5B%5D=Regime+CLT",
}

// Columns lists the spreadsheet columns, one per listing field.
var Columns = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// DefaultColumnWidths returns a fresh copy of the per-column character widths.
func DefaultColumnWidths() map[string]float64 {
	return map[string]float64{
		"A": 40, //titulo
		"B": 30, //empresa
		"C": 20, //localizacao
		"D": 15, //posicao
		"E": 25, //qtdeVagas
		"F": 50, //descricao
		"G": 40, //link
		"H": 15, //publicadoEm
	}
}

type Config struct {
	//Search targets
	URLs      []string          `yaml:"urls"`
	UserAgent string            `yaml:"user_agent"`
	Headers   map[string]string `yaml:"headers"`

	//Browser
	Headless           bool          `yaml:"headless"`
	BrowserArgs        []string      `yaml:"browser_args"`
	NavigationTimeout  time.Duration `yaml:"navigation_timeout"`
	SettleDelay        time.Duration `yaml:"settle_delay"`
	SettlePollInterval time.Duration `yaml:"settle_poll_interval"`
	MaxConcurrentPages int           `yaml:"max_concurrent_pages"`
	CookiesFile        string        `yaml:"cookies_file"`
	ScreenshotDir      string        `yaml:"screenshot_dir"`
	ScrollToLoad       bool          `yaml:"scroll_to_load"`

	//Output
	OutputDir    string             `yaml:"output_dir"`
	FilePrefix   string             `yaml:"file_prefix"`
	SheetName    string             `yaml:"sheet_name"`
	ColumnWidths map[string]float64 `yaml:"column_widths"`

	//Optional integrations
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	DatabaseURL    string `yaml:"database_url"`
	ServerAddr     string `yaml:"server_addr"`
}

// Default returns a configuration that reproduces the stock search.
func Default() *Config {
	return &Config{
		URLs:               append([]string(nil), DefaultURLs...),
		UserAgent:          DefaultUserAgent,
		Headless:           true,
		BrowserArgs:        []string{"--no-sandbox", "--disable-setuid-sandbox"},
		NavigationTimeout:  DefaultNavigationTimeout,
		SettleDelay:        DefaultSettleDelay,
		SettlePollInterval: DefaultSettlePollInterval,
		MaxConcurrentPages: 1,
		OutputDir:          ".",
		FilePrefix:         DefaultFilePrefix,
		SheetName:          DefaultSheetName,
		ColumnWidths:       DefaultColumnWidths(),
		ServerAddr:         DefaultServerAddr,
	}
}

// Overrides are command-line values applied on top of the file and
// environment. Zero fields leave the loaded value alone.
type Overrides struct {
	URLs        []string
	OutputDir   string
	Concurrency int
	Headful     bool
}

// Load reads .env, then the YAML file at path (missing file is fine),
// then env overrides, and validates the result.
func Load(path string) (*Config, error) {
	return LoadWith(path, Overrides{})
}

// LoadWith is Load with command-line overrides applied before validation,
// so an override can replace an invalid file or env value.
func LoadWith(path string, o Overrides) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("error parsing %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			//defaults only
		default:
			return nil, fmt.Errorf("could not read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.apply(o)
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(o Overrides) {
	if len(o.URLs) > 0 {
		c.URLs = append([]string(nil), o.URLs...)
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.Concurrency > 0 {
		c.MaxConcurrentPages = o.Concurrency
	}
	if o.Headful {
		c.Headless = false
	}
}

func (c *Config) applyEnv() error {
	if urls := os.Getenv("VAGAS_URLS"); urls != "" {
		c.URLs = splitList(urls)
	}
	if dir := os.Getenv("VAGAS_OUTPUT_DIR"); dir != "" {
		c.OutputDir = dir
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.DatabaseURL = dbURL
	}
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		c.ServerAddr = addr
	}
	return nil
}

// fillDefaults restores defaults for fields a YAML file blanked out.
func (c *Config) fillDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.SettlePollInterval <= 0 {
		c.SettlePollInterval = DefaultSettlePollInterval
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.FilePrefix == "" {
		c.FilePrefix = DefaultFilePrefix
	}
	if c.SheetName == "" {
		c.SheetName = DefaultSheetName
	}
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultServerAddr
	}
	if len(c.ColumnWidths) == 0 {
		c.ColumnWidths = DefaultColumnWidths()
	}
}

// Validate checks the fields a run depends on.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 {
		return errors.New("at least one search URL is required")
	}
	for _, raw := range c.URLs {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid URL %q: %w", raw, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid URL %q: must be absolute http(s)", raw)
		}
	}
	if c.NavigationTimeout <= 0 {
		return errors.New("navigation_timeout must be positive")
	}
	if c.SettleDelay < 0 {
		return errors.New("settle_delay must not be negative")
	}
	if c.MaxConcurrentPages < 1 {
		return errors.New("max_concurrent_pages must be at least 1")
	}
	for _, col := range Columns {
		w, ok := c.ColumnWidths[col]
		if !ok {
			return fmt.Errorf("column_widths is missing column %s", col)
		}
		if w <= 0 {
			return fmt.Errorf("column_widths[%s] must be positive", col)
		}
	}
	return nil
}

// TelegramEnabled reports whether run notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
