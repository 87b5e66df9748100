package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/questionbank"
	"github.com/kavin/cogniquest/internal/region"
	"github.com/kavin/cogniquest/internal/report"
	"github.com/kavin/cogniquest/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <answers.json>",
	Short: "Score a file of recorded answers without running the exam",
	Long: "Score reads a JSON array of tagged answers, scores it against the\n" +
		"question bank and prints the report. Use - to read from stdin.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, tr, cleanup, err := prepare(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		format, err := reportFormat(cmd)
		if err != nil {
			return err
		}
		date, _ := cmd.Flags().GetString("date")
		now, err := parseDate(date)
		if err != nil {
			return err
		}

		data, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		opts := scoreOptions{
			Answers:    data,
			Loader:     questionbank.NewLoader(cfg.Questions.File),
			Region:     cfg.Region.Override,
			HighSchool: cfg.Education.HighSchool,
			Bands:      cfg.Bands,
			Now:        now,
			Translator: tr,
		}
		rep, err := scoreAnswers(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if flagBool(cmd, "summary") {
			st, err := openJournal(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			summarize, err := newSummarizer(cmd.Context(), cfg.LLM, st.EventRepo())
			if err != nil {
				return err
			}
			summary, err := summarize(cmd.Context(), rep)
			if err != nil {
				return err
			}
			rep.Summary = summary
		}
		return report.Render(cmd.OutOrStdout(), format, rep)
	},
}

func init() {
	f := scoreCmd.Flags()
	f.String("date", "", "Date the exam was taken, YYYY-MM-DD (default: today)")
	f.String("region", "", "Region the exam was taken in, e.g. VA or Virginia")
	f.String("education", "highschool", "Education level: highschool or less")
	f.String("questions", "", "Question bank file (default: built-in bank)")
	f.String("format", "text", "Output format: text, markdown or json")
	f.Bool("summary", false, "Add a plain-language summary from an LLM")
	f.String("provider", "", "LLM provider for --summary")
}

// scoreOptions are the inputs of a headless scoring run.
type scoreOptions struct {
	Answers    []byte
	Loader     questionbank.Loader
	Region     string
	HighSchool bool
	Bands      scoring.Bands
	Now        time.Time
	Translator *i18n.Translator
}

// scoreAnswers scores recorded answers the same way a finished exam is
// scored. Answers for unknown questions or of the wrong type are rejected.
func scoreAnswers(ctx context.Context, o scoreOptions) (report.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	questions, err := o.Loader.Load(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("load questions: %w", err)
	}
	answers, err := exam.DecodeAnswers(o.Answers)
	if err != nil {
		return report.Report{}, err
	}
	if err := checkAnswers(questions, answers); err != nil {
		return report.Report{}, err
	}

	var info *region.Info
	if o.Region != "" {
		r, ok := region.Lookup(o.Region)
		if !ok {
			return report.Report{}, fmt.Errorf("unknown region %q", o.Region)
		}
		info = &r
	}

	bands := o.Bands
	if bands == (scoring.Bands{}) {
		bands = scoring.DefaultBands()
	}
	in := scoring.Input{
		Questions:  questions,
		Answers:    answers,
		HighSchool: o.HighSchool,
		Region:     info,
		Now:        o.Now,
	}
	res := scoring.Score(in)
	return report.Build(report.Input{
		Questions:  questions,
		Answers:    answers,
		Score:      res,
		Details:    scoring.Explain(in),
		Band:       bands.Interpret(res.Total, o.HighSchool),
		HighSchool: o.HighSchool,
		Region:     info,
		MaxTotal:   exam.MaxTotal(questions),
		FinishedAt: o.Now,
	}, o.Translator), nil
}

func checkAnswers(questions []exam.Question, answers exam.Answers) error {
	byID := make(map[int]exam.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for id, a := range answers {
		q, ok := byID[id]
		if !ok {
			return fmt.Errorf("answer for unknown question %d", id)
		}
		if a.QuestionType() != q.Type {
			return fmt.Errorf("answer for question %d is %s, question is %s", id, a.QuestionType(), q.Type)
		}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
	}
	// Midday keeps the weekday stable across time zones.
	return t.Add(12 * time.Hour), nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return data, nil
}
