package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/store"
)

var errNoHistory = errors.New("history is disabled (empty --db)")

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var (
		limit   int
		session string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recently recognized gestures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DBPath == "" {
				return errNoHistory
			}

			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer st.Close()

			return printHistory(cmd.OutOrStdout(), st, session, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of events to show (0 for all)")
	cmd.Flags().StringVar(&session, "session", "", "Show the events of one session, oldest first")

	return cmd
}

func printHistory(w io.Writer, st *store.Store, session string, limit int) error {
	var (
		events []*store.Event
		err    error
	)
	if session != "" {
		if _, err := st.Sessions().GetByID(session); err != nil {
			return fmt.Errorf("session %s: %w", session, err)
		}
		events, err = st.Events().ListBySession(session)
		if err == nil && limit > 0 && len(events) > limit {
			events = events[len(events)-limit:]
		}
	} else {
		events, err = st.Events().Recent(limit)
	}
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Fprintln(w, "No gestures recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tWHEN\tGESTURE\tHANDS\tSESSION")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(e.CreatedAt),
			e.Label, e.Hands, shortID(e.SessionID))
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
