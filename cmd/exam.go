package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kavin/cogniquest/internal/app"
	"github.com/kavin/cogniquest/internal/config"
	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/llm"
	"github.com/kavin/cogniquest/internal/narration"
	"github.com/kavin/cogniquest/internal/questionbank"
	"github.com/kavin/cogniquest/internal/region"
	"github.com/kavin/cogniquest/internal/report"
	"github.com/kavin/cogniquest/internal/screens/exam"
	"github.com/kavin/cogniquest/internal/screens/results"
	"github.com/kavin/cogniquest/internal/screens/setup"
	"github.com/kavin/cogniquest/internal/session"
	"github.com/kavin/cogniquest/internal/store"
)

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Run the screening exam (default command)",
	RunE:  runExam,
}

func init() {
	addExamFlags(examCmd)
}

func addExamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Duration("duration", session.DefaultDuration, "Time per question (10s to 120s in 5s steps)")
	f.String("education", "highschool", "Education level: highschool or less")
	f.String("questions", "", "Question bank file (default: built-in bank)")
	f.String("region", "", "Region used to score the location question, e.g. VA or Virginia")
	f.Bool("offline", false, "Do not look the region up by IP address")
	f.String("narration", "", "Narration: auto, exec, console or silent")
	f.String("say", "", "Text-to-speech command for exec narration, e.g. \"espeak -s 140\"")
	f.Bool("skip-setup", false, "Start the exam without the settings screen")
	f.String("report", "", "Write the report to this file after the exam (- for stdout)")
	f.String("format", "", "Report format: text, markdown or json (default: from the file extension)")
	f.Bool("summary", false, "Ask an LLM for a plain-language summary of the results")
	f.String("provider", "", "LLM provider for --summary: anthropic, openai, gemini or openrouter")
}

func runExam(cmd *cobra.Command, _ []string) error {
	cfg, tr, cleanup, err := prepare(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openJournal(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}

	mode, err := narration.ParseMode(cfg.Narration.Mode)
	if err != nil {
		return err
	}
	speaker, err := narration.NewSpeaker(narration.Config{
		Mode:    mode,
		Command: cfg.Narration.Command,
		// Utterances are shown on screen; console narration has nowhere
		// else to go while the TUI runs.
		Out:  io.Discard,
		Pace: narration.PostUtteranceDelay,
	})
	if err != nil {
		return err
	}

	log := slog.Default()
	resolver := newResolver(cfg.Region)
	loader := questionbank.NewLoader(cfg.Questions.File)

	opts := app.Options{
		Translator: tr,
		Settings:   setup.Settings{Duration: cfg.Timer.Duration, HighSchool: cfg.Education.HighSchool},
		SkipSetup:  flagBool(cmd, "skip-setup"),
		NewExam: func(s setup.Settings) (exam.Controller, error) {
			sc := cfg.Session()
			sc.Duration = session.ClampDuration(s.Duration)
			sc.HighSchool = s.HighSchool

			var ctrl *session.Controller
			player := narration.NewPlayer(speaker,
				narration.WithLogger(log),
				narration.WithUtteranceHook(func(i int, text string) { ctrl.OnUtterance(i, text) }),
			)
			ctrl = session.New(sc, session.Deps{
				Loader:   loader,
				Narrator: player,
				Resolver: resolver,
				Events:   st.EventRepo(),
				Logger:   log,
			})
			return ctrl, nil
		},
		Report: func(o session.Outcome) report.Report {
			return buildReport(ctx, st.QueryRepo(), o, tr)
		},
	}

	if flagBool(cmd, "summary") {
		summarize, err := newSummarizer(ctx, cfg.LLM, st.EventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Plain-language summary unavailable:", err)
		} else {
			opts.Summarize = summarize
		}
	}

	rep, err := app.Run(ctx, opts)
	if err != nil {
		return err
	}
	if rep == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Exam ended before it was scored.")
		return nil
	}

	out, _ := cmd.Flags().GetString("report")
	switch out {
	case "":
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n",
			tr.T("FinalScore"),
			tr.Td("ScoreOutOf", map[string]any{"Total": rep.Total, "Max": rep.MaxTotal}),
			rep.BandLabel)
		fmt.Fprintln(cmd.OutOrStdout(), rep.Disclaimer)
		return nil
	case "-":
		return report.Render(cmd.OutOrStdout(), format, *rep)
	}
	if !cmd.Flags().Changed("format") {
		format = formatForPath(out)
	}
	return writeReport(out, format, *rep)
}

// openJournal opens the session journal at path, or in memory when path
// is empty.
func openJournal(path string) (*store.Store, error) {
	if path == "" {
		st, err := store.OpenMemory()
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		return st, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return st, nil
}

// newResolver prefers the configured override and falls back to a single
// geo-IP lookup unless that is disabled.
func newResolver(c config.RegionConfig) region.Resolver {
	static := region.StaticResolver{Value: c.Override}
	if c.Disabled || c.Override != "" {
		return static
	}
	client := &http.Client{Timeout: c.Timeout}
	return region.FirstOf(static, region.NewCachedResolver(region.NewGeoIPResolver(c.GeoIPURL, client)))
}

// buildReport turns a finished exam into a report, adding dwell times and
// revision counts from the journal when they can be read.
func buildReport(ctx context.Context, q store.QueryRepo, o session.Outcome, tr *i18n.Translator) report.Report {
	in := report.Input{
		SessionID:  o.SessionID,
		Questions:  o.Questions,
		Answers:    o.Answers,
		Score:      o.Score,
		Details:    o.Details,
		Band:       o.Band,
		HighSchool: o.HighSchool,
		Region:     o.Region,
		MaxTotal:   o.MaxTotal,
		FinishedAt: o.FinishedAt,
	}
	if q != nil {
		if dwell, err := q.Dwell(ctx, o.SessionID); err != nil {
			slog.Warn("read dwell times", "error", err)
		} else {
			in.Dwell = dwell
		}
		if revisions, err := q.AnswerRevisions(ctx, o.SessionID); err != nil {
			slog.Warn("read answer revisions", "error", err)
		} else {
			in.Revisions = revisions
		}
	}
	return report.Build(in, tr)
}

// newSummarizer builds the LLM-backed summary function.
func newSummarizer(ctx context.Context, c llm.Config, events store.EventRepo) (results.SummarizeFunc, error) {
	resolved, ok := c.Resolve()
	if !ok {
		return nil, fmt.Errorf("no LLM provider configured; set llm.provider or an API key variable")
	}
	p, err := llm.NewProvider(ctx, resolved, events, slog.Default())
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, r report.Report) (string, error) {
		return report.Summarize(ctx, p, r)
	}, nil
}

func reportFormat(cmd *cobra.Command) (report.Format, error) {
	s, _ := cmd.Flags().GetString("format")
	return report.ParseFormat(s)
}

// formatForPath picks a format from the file extension.
func formatForPath(path string) report.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return report.FormatMarkdown
	case ".json":
		return report.FormatJSON
	}
	return report.FormatText
}

func writeReport(path string, f report.Format, r report.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Render(file, f, r); err != nil {
		file.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return file.Close()
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
