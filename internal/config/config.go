package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
		EnvFile  string `mapstructure:"env_file"`
	} `mapstructure:"app"`

	Telegram struct {
		Token         string
		UpdateTimeout int    `mapstructure:"update_timeout"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr      string
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	// Backend — API биллинга/кадров, владелец всех данных
	Backend struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"backend"`

	Checkout struct {
		KeyID       string        `mapstructure:"key_id"`
		ScriptURL   string        `mapstructure:"script_url"`
		Currency    string        `mapstructure:"currency"`
		CompanyName string        `mapstructure:"company_name"`
		IntentTTL   time.Duration `mapstructure:"intent_ttl"`
	} `mapstructure:"checkout"`

	Session struct {
		TTL             time.Duration `mapstructure:"ttl"`
		CleanupSchedule string        `mapstructure:"cleanup_schedule"`
	} `mapstructure:"session"`

	Catalog struct {
		CacheTTL  time.Duration `mapstructure:"cache_ttl"`
		CacheSize int           `mapstructure:"cache_size"`
	} `mapstructure:"catalog"`

	Theme struct {
		// System — тема по умолчанию, если пользователь ещё ничего не выбрал
		System string `mapstructure:"system"`
	} `mapstructure:"theme"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Kolkata")
	v.SetDefault("app.env_file", ".env")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.update_timeout", 30)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.public_url", "http://localhost:8080")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("checkout.key_id", "")
	v.SetDefault("checkout.script_url", "https://checkout.razorpay.com/v1/checkout.js")
	v.SetDefault("checkout.currency", "INR")
	v.SetDefault("checkout.company_name", "Payroll")
	v.SetDefault("checkout.intent_ttl", 2*time.Hour)
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.cleanup_schedule", "*/30 * * * *")
	v.SetDefault("catalog.cache_ttl", 10*time.Minute)
	v.SetDefault("catalog.cache_size", 16)
	v.SetDefault("theme.system", "light")
}

// Load читает YAML-конфиг, затем .env и переменные окружения APP_*
// (APP_POSTGRES_DSN, APP_TELEGRAM_TOKEN, ...).
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}

	if envFile := v.GetString("app.env_file"); envFile != "" {
		if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return c, err
		}
	}

	if err := v.UnmarshalExact(&c); err != nil {
		return c, err
	}
	return c, nil
}

// Location возвращает часовой пояс приложения (UTC, если не распознан).
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
