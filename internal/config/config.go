// Package config loads CogniQuest settings from flags, COGNIQUEST_*
// environment variables and an optional cogniquest.yaml file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kavin/cogniquest/internal/llm"
	"github.com/kavin/cogniquest/internal/narration"
	"github.com/kavin/cogniquest/internal/region"
	"github.com/kavin/cogniquest/internal/scoring"
	"github.com/kavin/cogniquest/internal/session"
)

// EnvPrefix prefixes every environment override, e.g. COGNIQUEST_TIMER_DURATION.
const EnvPrefix = "COGNIQUEST"

// Config is the full application configuration.
type Config struct {
	Timer     TimerConfig     `mapstructure:"timer"`
	Education EducationConfig `mapstructure:"education"`
	Bands     scoring.Bands   `mapstructure:"bands"`
	Questions QuestionsConfig `mapstructure:"questions"`
	Region    RegionConfig    `mapstructure:"region"`
	Narration NarrationConfig `mapstructure:"narration"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Lang      string          `mapstructure:"lang"`
	LLM       llm.Config      `mapstructure:"llm"`
	Log       LogConfig       `mapstructure:"log"`
}

type TimerConfig struct {
	Duration time.Duration `mapstructure:"duration"`
}

type EducationConfig struct {
	HighSchool bool `mapstructure:"high_school"`
}

type QuestionsConfig struct {
	// File is a question bank on disk. Empty selects the built-in bank.
	File string `mapstructure:"file"`
}

type RegionConfig struct {
	// Override skips geo-IP lookup when it names a known region.
	Override string        `mapstructure:"override"`
	GeoIPURL string        `mapstructure:"geoip_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// Disabled turns geo-IP lookup off; only Override is consulted.
	Disabled bool `mapstructure:"disabled"`
}

type NarrationConfig struct {
	Mode    string        `mapstructure:"mode"`
	Command string        `mapstructure:"command"`
	Delay   time.Duration `mapstructure:"delay"`
}

type JournalConfig struct {
	// Path keeps the session journal in a SQLite file. Empty keeps it in
	// memory for the lifetime of the process.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives logs while the TUI owns the terminal.
	File string `mapstructure:"file"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Timer:     TimerConfig{Duration: session.DefaultDuration},
		Education: EducationConfig{HighSchool: true},
		Bands:     scoring.DefaultBands(),
		Region:    RegionConfig{GeoIPURL: region.DefaultGeoIPURL, Timeout: session.DefaultRegionTimeout},
		Narration: NarrationConfig{Mode: string(narration.ModeAuto), Delay: narration.PostUtteranceDelay},
		Lang:      "en",
		LLM:       llm.DefaultConfig(),
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("cogniquest")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/cogniquest")
	return v
}

// ReadFile reads the config file named by path, or searches the default
// locations when path is empty. A missing file in the search path is not
// an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be clamped into range.
func (c Config) Validate() error {
	if c.Timer.Duration <= 0 {
		return fmt.Errorf("timer.duration must be positive, got %s", c.Timer.Duration)
	}
	if err := c.Bands.Validate(); err != nil {
		return err
	}
	if _, err := narration.ParseMode(c.Narration.Mode); err != nil {
		return fmt.Errorf("narration.mode: %w", err)
	}
	if c.Narration.Delay < 0 {
		return fmt.Errorf("narration.delay must not be negative")
	}
	if c.Region.Override != "" {
		if _, ok := region.Lookup(c.Region.Override); !ok {
			return fmt.Errorf("region.override: unknown region %q", c.Region.Override)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Session returns the exam controller settings. The per-question duration
// is clamped into the supported range.
func (c Config) Session() session.Config {
	sc := session.DefaultConfig()
	sc.Duration = session.ClampDuration(c.Timer.Duration)
	sc.HighSchool = c.Education.HighSchool
	sc.Bands = c.Bands
	if c.Region.Timeout > 0 {
		sc.RegionTimeout = c.Region.Timeout
	}
	sc.NarrationDelay = c.Narration.Delay
	return sc
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
}

// setDefaults registers every key so AutomaticEnv and Unmarshal see it
// even when no file or flag sets it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("timer.duration", d.Timer.Duration)
	v.SetDefault("education.high_school", d.Education.HighSchool)
	v.SetDefault("bands.high_school.normal", d.Bands.HighSchool.Normal)
	v.SetDefault("bands.high_school.mild", d.Bands.HighSchool.Mild)
	v.SetDefault("bands.less_than_high_school.normal", d.Bands.LessThanHighSchool.Normal)
	v.SetDefault("bands.less_than_high_school.mild", d.Bands.LessThanHighSchool.Mild)
	v.SetDefault("questions.file", d.Questions.File)
	v.SetDefault("region.override", d.Region.Override)
	v.SetDefault("region.geoip_url", d.Region.GeoIPURL)
	v.SetDefault("region.timeout", d.Region.Timeout)
	v.SetDefault("region.disabled", d.Region.Disabled)
	v.SetDefault("narration.mode", d.Narration.Mode)
	v.SetDefault("narration.command", d.Narration.Command)
	v.SetDefault("narration.delay", d.Narration.Delay)
	v.SetDefault("journal.path", d.Journal.Path)
	v.SetDefault("lang", d.Lang)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("llm.provider", d.LLM.Provider)
	for name, p := range map[string]llm.ProviderConfig{
		"anthropic":  d.LLM.Anthropic,
		"openai":     d.LLM.OpenAI,
		"gemini":     d.LLM.Gemini,
		"openrouter": d.LLM.OpenRouter,
	} {
		v.SetDefault("llm."+name+".api_key", p.APIKey)
		v.SetDefault("llm."+name+".model", p.Model)
		v.SetDefault("llm."+name+".base_url", p.BaseURL)
	}
	v.SetDefault("llm.retry.max_attempts", d.LLM.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.LLM.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.LLM.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.LLM.Retry.Multiplier)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
}
