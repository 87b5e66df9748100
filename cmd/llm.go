package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kavin/cogniquest/internal/llm"
	"github.com/kavin/cogniquest/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM used for plain-language summaries",
}

var llmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which provider and model would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, cleanup, err := prepare(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()
		return printLLMStatus(cmd.OutOrStdout(), cfg.LLM)
	},
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show token usage recorded in the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cleanup, err := openPersistentJournal(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return printLLMUsage(cmd.Context(), cmd.OutOrStdout(), st.QueryRepo())
	},
}

func init() {
	llmStatusCmd.Flags().String("provider", "", "Provider to check instead of the configured one")
	llmCmd.AddCommand(llmStatusCmd)
	llmCmd.AddCommand(llmUsageCmd)
}

func printLLMStatus(w io.Writer, c llm.Config) error {
	resolved, ok := c.Resolve()
	if !ok {
		fmt.Fprintln(w, "No LLM provider configured.")
		fmt.Fprintln(w, "Set llm.provider or one of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY.")
		return nil
	}
	if err := resolved.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Provider:  %s\n", resolved.Provider)
	if model := resolved.Model(); model != "" {
		fmt.Fprintf(w, "Model:     %s\n", model)
	}
	fmt.Fprintf(w, "Timeout:   %s\n", resolved.Timeout)
	fmt.Fprintf(w, "Attempts:  %d\n", resolved.Retry.MaxAttempts)
	return nil
}

func printLLMUsage(ctx context.Context, w io.Writer, q store.QueryRepo) error {
	if ctx == nil {
		ctx = context.Background()
	}
	u, err := q.LLMUsage(ctx)
	if err != nil {
		return err
	}
	if u.Requests == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return nil
	}
	fmt.Fprintf(w, "Requests:       %d (%d failed)\n", u.Requests, u.Failures)
	fmt.Fprintf(w, "Input tokens:   %d\n", u.InputTokens)
	fmt.Fprintf(w, "Output tokens:  %d\n", u.OutputTokens)
	fmt.Fprintf(w, "Total tokens:   %d\n", u.InputTokens+u.OutputTokens)
	return nil
}
