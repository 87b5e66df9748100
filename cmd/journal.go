package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kavin/cogniquest/internal/store"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the session journal (needs --journal or journal.path)",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled exams",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cleanup, err := openPersistentJournal(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return listSessions(cmd.Context(), cmd.OutOrStdout(), st.QueryRepo())
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show every event of one exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cleanup, err := openPersistentJournal(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return showTimeline(cmd.Context(), cmd.OutOrStdout(), st.QueryRepo(), args[0])
	},
}

func init() {
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
}

// openPersistentJournal opens the configured journal file. An in-memory
// journal would always be empty here.
func openPersistentJournal(cmd *cobra.Command) (*store.Store, func(), error) {
	cfg, _, cleanup, err := prepare(cmd, false)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Journal.Path == "" {
		cleanup()
		return nil, nil, fmt.Errorf("no journal file configured; pass --journal or set journal.path")
	}
	st, err := openJournal(cfg.Journal.Path)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return st, func() { st.Close(); cleanup() }, nil
}

func listSessions(ctx context.Context, w io.Writer, q store.QueryRepo) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sessions, err := q.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No exams journaled yet.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-19s  %-10s  %s\n", "Session", "Started", "Ended", "Duration")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, s := range sessions {
		end, took := "running", "-"
		if s.End != "" {
			end = s.End
			took = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(w, "%-36s  %-19s  %-10s  %s\n",
			s.SessionID, s.StartedAt.Local().Format("2006-01-02 15:04:05"), end, took)
	}
	return nil
}

func showTimeline(ctx context.Context, w io.Writer, q store.QueryRepo, sessionID string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	entries, err := q.Timeline(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no events for session %s", sessionID)
	}

	start := entries[0].At
	for _, e := range entries {
		question := ""
		if e.QuestionID != 0 {
			question = fmt.Sprintf("Q%d", e.QuestionID)
		}
		fmt.Fprintf(w, "%6d  +%-8s  %-9s  %-18s  %-4s  %s\n",
			e.Sequence, e.At.Sub(start).Round(time.Millisecond).String(), e.Kind, e.Action, question, e.Detail)
	}
	return nil
}
