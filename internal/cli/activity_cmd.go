package cli

import (
	"context"
	"fmt"
	"time"

	"dashflow-service/internal/domain/activity"

	"github.com/spf13/cobra"
)

const followPollInterval = 5 * time.Second

func newActivityCmd() *cobra.Command {
	var (
		limit  int
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())

			entries, err := s.client.Activity(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := newTable(cmd)
			fmt.Fprintln(w, "WHEN\tACTOR\tACTION\tDETAIL")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.CreatedAt.Format("2006-01-02 15:04"), e.Actor, e.Action, e.Detail)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !follow {
				return nil
			}
			return followActivity(cmd, newestOf(entries))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep polling for new activity until the session ends")
	return cmd
}

// followActivity polls for fresh entries while a websocket listener watches
// the session. A sign-out pushed by the server, from another tab or a forced
// revocation, ends the loop.
func followActivity(cmd *cobra.Command, lastSeen time.Time) error {
	s := sdkFrom(cmd.Context())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sessions, release := s.client.Sessions()
	defer release()
	go s.client.Listen(ctx)

	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			entries, err := s.client.Activity(ctx, 20)
			if err != nil {
				continue
			}
			// Newest first from the server; print the fresh tail oldest first.
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				if !e.CreatedAt.After(lastSeen) {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n",
					e.CreatedAt.Format("2006-01-02 15:04"), e.Actor, e.Action, e.Detail)
				lastSeen = e.CreatedAt
			}

		case sess := <-sessions:
			if sess == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "session ended, stopping")
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

func newestOf(entries []activity.Entry) time.Time {
	var newest time.Time
	for _, e := range entries {
		if e.CreatedAt.After(newest) {
			newest = e.CreatedAt
		}
	}
	return newest
}
