package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"newsagent/internal/storage"
)

var (
	queryHours    int
	querySource   string
	queryCategory string
	queryLimit    int
	queryOffset   int
)

// recentCmd creates the "recent" subcommand: list stored articles.
func recentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List articles scraped within a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.store.Close()

			articles, err := app.store.Recent(context.Background(), storage.RecentQuery{
				Window:   time.Duration(queryHours) * time.Hour,
				Source:   querySource,
				Category: queryCategory,
				Limit:    queryLimit,
				Offset:   queryOffset,
			})
			if err != nil {
				return err
			}

			if len(articles) == 0 {
				fmt.Println("No articles in window.")
				return nil
			}
			for _, a := range articles {
				fmt.Printf("[%s] %s (%s, %d min read)\n", a.Source, a.Title,
					a.ScrapedAt.Format("2006-01-02 15:04"), a.ReadingTime)
				if a.Summary != "" {
					fmt.Printf("    %s\n", a.Summary)
				}
				fmt.Printf("    %s\n", a.URL)
			}
			return nil
		},
	}
	addWindowFlags(cmd)
	cmd.Flags().StringVarP(&querySource, "source", "s", "", "filter by source name")
	cmd.Flags().StringVar(&queryCategory, "category", "", "filter by category")
	cmd.Flags().IntVarP(&queryLimit, "limit", "l", 20, "maximum articles to list")
	cmd.Flags().IntVar(&queryOffset, "offset", 0, "pagination offset")
	return cmd
}

// trendingCmd creates the "trending" subcommand.
func trendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show recurring keywords across recent article titles and summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.store.Close()

			topics, err := app.store.TrendingTopics(context.Background(),
				time.Duration(queryHours)*time.Hour, 10)
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Println("No trending topics in window.")
				return nil
			}
			for i, t := range topics {
				fmt.Printf("%2d. %-20s %d mentions  %.1f%%  (relevance %.1f)\n",
					i+1, t.Topic, t.Frequency, t.Percentage, t.RelevanceScore)
			}
			return nil
		},
	}
	addWindowFlags(cmd)
	return cmd
}

// reportCmd creates the "report" subcommand: plain-text summary.
func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a plain-text report of recent harvesting",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.store.Close()

			text, err := app.exporter.Text(context.Background(),
				time.Duration(queryHours)*time.Hour, app.chain.Method())
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}
	addWindowFlags(cmd)
	return cmd
}

// exportCmd creates the "export" subcommand: JSON export to file.
func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recent articles to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.store.Close()

			path, err := app.exporter.ExportJSON(context.Background(),
				time.Duration(queryHours)*time.Hour, app.chain.Method())
			if err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", path)
			return nil
		},
	}
	addWindowFlags(cmd)
	return cmd
}

// purgeCmd creates the "purge" subcommand: delete old articles.
func purgeCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete articles older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.store.Close()

			if days <= 0 {
				days = app.cfg.Storage.RetentionDays
			}
			removed, err := app.store.PurgeOlderThan(context.Background(), days)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d articles older than %d days\n", removed, days)
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "age threshold in days (default: config retention)")
	return cmd
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&queryHours, "hours", 24, "lookback window in hours")
}
