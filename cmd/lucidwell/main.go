// Command lucidwell is a small operator CLI over the Lucidwell SDK: inspect
// and edit journal entries, show and sync settings, and run through an
// assessment from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/lucidwell/lucidwell-client"
	"github.com/lucidwell/lucidwell-client/exam"
)

var serviceURL string
var apiKey string
var debug bool

const requestTimeout = 15 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lucidwell",
		Short: "Lucidwell CLI for journal entries, settings and assessments",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("LUCIDWELL_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	defaultURL := getEnv("LUCIDWELL_SERVICE_URL", "http://localhost:8480")
	defaultKey := getEnv("LUCIDWELL_API_KEY", "")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", defaultURL, "Base URL of the Lucidwell backend")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", defaultKey, "API key (defaults to LUCIDWELL_API_KEY)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newListEntriesCmd())
	rootCmd.AddCommand(newAddEntryCmd())
	rootCmd.AddCommand(newDeleteEntryCmd())
	rootCmd.AddCommand(newAnalyticsCmd())
	rootCmd.AddCommand(newShowSettingsCmd())
	rootCmd.AddCommand(newSyncSettingsCmd())
	rootCmd.AddCommand(newStartExamCmd())

	return rootCmd
}

func newSDKClient() (*client.Client, error) {
	return client.New(serviceURL, apiKey)
}

func newListEntriesCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list-entries",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			entries, total, err := c.Journal().List(ctx, page, pageSize)
			if err != nil {
				log.Error().Err(err).Int("page", page).Msg("list entries failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries (page %d):\n", total, page)
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d  %s  %s\n", e.ID, e.CreatedAt.Format("2006-01-02"), firstLine(e.Content))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "Entries per page")
	return cmd
}

func newAddEntryCmd() *cobra.Command {
	var content string
	var tags []string
	var mood int

	cmd := &cobra.Command{
		Use:   "add-entry",
		Short: "Create a journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			req := client.CreateJournalEntryRequest{Content: content, Tags: tags, MoodScore: mood}
			saved, err := c.Journal().Create(ctx, req)
			if err != nil {
				log.Error().Err(err).Msg("add entry failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry created: %d\n", saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Entry text (required)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().IntVar(&mood, "mood", 0, "Mood score")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newDeleteEntryCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "delete-entry",
		Short: "Delete a journal entry by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if err := c.Journal().Delete(ctx, id); err != nil {
				log.Error().Err(err).Int64("entry_id", id).Msg("delete entry failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry %d deleted\n", id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Entry ID (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newAnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show aggregate journal statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			a, err := c.JournalAnalytics(ctx)
			if err != nil {
				log.Error().Err(err).Msg("analytics failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total entries: %d\n", a.TotalEntries)
			if a.AverageSentiment != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Average sentiment: %.2f\n", *a.AverageSentiment)
			}
			if a.MostCommonMood != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Most common mood: %s\n", a.MostCommonMood)
			}
			return nil
		},
	}
}

func newShowSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-settings",
		Short: "Show user settings (defaults when the backend is unreachable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			s := c.GetSettings(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", s.Theme)
			fmt.Fprintf(cmd.OutOrStdout(), "Notifications: enabled=%v email=%v push=%v\n",
				s.Notifications.Enabled, s.Notifications.Email, s.Notifications.Push)
			fmt.Fprintf(cmd.OutOrStdout(), "Data retention: %d days\n", s.Privacy.DataRetentionDays)
			return nil
		},
	}
}

func newSyncSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-settings",
		Short: "Force a server-side settings sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newSDKClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			resp, err := c.SyncSettings(ctx)
			if err != nil {
				log.Error().Err(err).Msg("sync settings failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings synced at %s\n", resp.LastSynced.Format(time.RFC3339))
			return nil
		},
	}
}

func newStartExamCmd() *cobra.Command {
	var examID, dbPath string

	cmd := &cobra.Command{
		Use:   "start-exam",
		Short: "Fetch an assessment's questions and start a persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if examID == "" {
				examID = uuid.NewString()
			}

			opts := []client.Option{}
			if dbPath != "" {
				storage, err := exam.NewSQLiteStorage(dbPath)
				if err != nil {
					return err
				}
				opts = append(opts, client.WithExamStorage(storage))
			}
			c, err := client.New(serviceURL, apiKey, opts...)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if err := c.Exam().Hydrate(ctx); err != nil {
				log.Debug().Err(err).Msg("no prior session restored")
			}
			if err := c.StartExam(ctx, examID); err != nil {
				log.Error().Err(err).Str("exam_id", examID).Msg("start exam failed")
				return err
			}

			store := c.Exam()
			fmt.Fprintf(cmd.OutOrStdout(), "Exam %s started, %d%% answered\n", examID, store.ProgressPercentage())
			if q := store.CurrentQuestion(); q != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "First question: %s\n", q.Text)
			}
			return store.Flush(ctx)
		},
	}

	cmd.Flags().StringVar(&examID, "exam-id", "", "Exam instance ID (generated when omitted)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file for durable session state (in-memory when omitted)")
	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 60 {
		s = s[:60] + "…"
	}
	return s
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
