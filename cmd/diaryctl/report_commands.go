package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chabro2633/diary-korean/internal/service"
	"github.com/chabro2633/diary-korean/internal/textnorm"
	"github.com/chabro2633/diary-korean/internal/tier"
)

func newTrendingCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var refresh bool
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show trending search keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				search := service.NewSearchService(d.searches, d.cache)
				if refresh {
					service.NewTrendWorker(d.searches, search, d.cache, cfg.Trends.RefreshInterval.Duration, cfg.Trends.Window.Duration).Tick(cmd.Context())
				}
				keywords, err := search.Trending(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(keywords) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No searches yet")
					return nil
				}
				rows := make([][]string, 0, len(keywords))
				for i, k := range keywords {
					rows = append(rows, []string{
						itoa(i + 1),
						k.Keyword,
						itoa(k.SearchCount),
						strconv.FormatFloat(k.TrendScore, 'f', 0, 64),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Keyword", "Searches", "Score"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", service.DefaultTrendingLimit, "Number of keywords")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Recompute trend scores first")
	return cmd
}

func newTiersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Count videos per subtitle quality tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				counts, err := d.videos.TierHistogram(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(counts))
				total := 0
				for _, c := range counts {
					total += c.Videos
					rows = append(rows, []string{itoa(c.Tier), tier.Tier(c.Tier).Description(), itoa(c.Videos)})
				}
				rows = append(rows, []string{"", "Total", itoa(total)})
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Tier", "Description", "Videos"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newZeroResultsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "zero-results",
		Short: "List searches that found nothing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				queries, err := service.NewSearchService(d.searches, d.cache).ZeroResults(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(queries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No unprocessed zero-result queries")
					return nil
				}
				rows := make([][]string, 0, len(queries))
				for _, q := range queries {
					rows = append(rows, []string{q.Query, itoa(q.OccurrenceCount), formatTime(&q.LastOccurredAt)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Query", "Count", "Last Seen"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of queries")
	cmd.AddCommand(newZeroResultsDoneCommand(ctx))
	return cmd
}

func newZeroResultsDoneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "done <query>",
		Short: "Mark a zero-result query as handled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := textnorm.Normalize(args[0])
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				if err := d.searches.MarkProcessed(cmd.Context(), query); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as processed\n", query)
				return nil
			})
		},
	}
}
