package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/questionbank"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Inspect and validate question banks",
}

var questionsListCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List the questions of a bank (default: the configured bank)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := bankForArgs(cmd, args)
		if err != nil {
			return err
		}
		printQuestions(cmd.OutOrStdout(), bank)
		return nil
	},
}

var questionsValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a bank against the schema and report rubric problems",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := bankForArgs(cmd, args)
		if err != nil {
			return err
		}
		return reportLint(cmd.OutOrStdout(), bank)
	},
}

func init() {
	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsValidateCmd)
}

// bankForArgs parses the bank named on the command line, the configured
// bank file, or the built-in bank.
func bankForArgs(cmd *cobra.Command, args []string) (questionbank.Bank, error) {
	cfg, _, cleanup, err := prepare(cmd, false)
	if err != nil {
		return questionbank.Bank{}, err
	}
	defer cleanup()

	path := cfg.Questions.File
	if len(args) == 1 {
		path = args[0]
	}
	data := questionbank.DefaultBank()
	if path != "" {
		if data, err = os.ReadFile(path); err != nil {
			return questionbank.Bank{}, fmt.Errorf("read question bank: %w", err)
		}
	}
	bank, err := questionbank.Parse(data)
	if err != nil {
		if path != "" {
			return questionbank.Bank{}, fmt.Errorf("%s: %w", path, err)
		}
		return questionbank.Bank{}, err
	}
	return bank, nil
}

func printQuestions(w io.Writer, bank questionbank.Bank) {
	fmt.Fprintf(w, "%-4s  %-24s  %6s  %s\n", "ID", "Type", "Points", "Prompt")
	fmt.Fprintln(w, strings.Repeat("─", 78))
	for _, q := range bank.Questions {
		prompt, _, _ := strings.Cut(q.Text, "\n")
		if r := []rune(prompt); len(r) > 40 {
			prompt = string(r[:39]) + "…"
		}
		fmt.Fprintf(w, "%-4d  %-24s  %6d  %s\n", q.ID, q.Type, q.MaxPoints, prompt)
	}
	fmt.Fprintln(w, strings.Repeat("─", 78))
	fmt.Fprintf(w, "%d questions, version %s, %d points\n",
		len(bank.Questions), bank.Version, exam.MaxTotal(bank.Questions))
}

// reportLint prints rubric warnings. Warnings do not fail validation.
func reportLint(w io.Writer, bank questionbank.Bank) error {
	warnings := questionbank.Lint(bank.Questions)
	for _, msg := range warnings {
		fmt.Fprintln(w, "warning:", msg)
	}
	fmt.Fprintf(w, "ok: %d questions, %d points, %d warnings\n",
		len(bank.Questions), exam.MaxTotal(bank.Questions), len(warnings))
	return nil
}
