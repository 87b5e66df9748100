package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kavin/cogniquest/internal/config"
	"github.com/kavin/cogniquest/internal/i18n"
)

var rootCmd = &cobra.Command{
	Use:   "cogniquest",
	Short: "Cognitive screening exam in the terminal",
	Long: "CogniQuest runs a short, timed cognitive screening exam (30 points) in the\n" +
		"terminal and reports the score with its interpretation. It is a screening\n" +
		"aid, not a diagnosis.",
	SilenceUsage: true,
	RunE:         runExam,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: ./cogniquest.yaml or ~/.config/cogniquest/cogniquest.yaml)")
	pf.String("lang", "", "Language for labels and reports (en, es)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("journal", "", "Keep the session journal in this SQLite file (default: in memory)")

	addExamFlags(rootCmd)

	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagKeys maps flag names to configuration keys. Only flags the user set
// override the file and environment.
var flagKeys = map[string]string{
	"lang":       "lang",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
	"journal":    "journal.path",
	"duration":   "timer.duration",
	"questions":  "questions.file",
	"region":     "region.override",
	"offline":    "region.disabled",
	"narration":  "narration.mode",
	"say":        "narration.command",
	"provider":   "llm.provider",
}

// loadConfig layers flags over the environment, the config file and the
// defaults, then validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.New()
	path, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(v, path); err != nil {
		return config.Config{}, err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}
	if f := cmd.Flags().Lookup("education"); f != nil && f.Changed {
		hs, err := parseEducation(f.Value.String())
		if err != nil {
			return config.Config{}, err
		}
		v.Set("education.high_school", hs)
	}
	return config.Load(v)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func parseEducation(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "highschool", "high-school", "hs", "yes", "true":
		return true, nil
	case "less", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("--education must be highschool or less, got %q", s)
}

// setupLogging installs the default slog logger. While the TUI owns the
// terminal, logs go to the configured file or nowhere.
func setupLogging(c config.LogConfig, tui bool) (func(), error) {
	level, err := config.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	var (
		w       io.Writer = os.Stderr
		cleanup           = func() {}
	)
	switch {
	case c.File != "":
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		cleanup = func() { f.Close() }
	case tui:
		w = io.Discard
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(c.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// prepare loads the configuration, installs logging and returns the
// translator for the configured language.
func prepare(cmd *cobra.Command, tui bool) (config.Config, *i18n.Translator, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	cleanup, err := setupLogging(cfg.Log, tui)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	tr, err := i18n.New(cfg.Lang)
	if err != nil {
		cleanup()
		return config.Config{}, nil, nil, fmt.Errorf("load translations: %w", err)
	}
	return cfg, tr, cleanup, nil
}
