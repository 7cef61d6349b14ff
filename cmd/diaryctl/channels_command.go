package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chabro2633/diary-korean/internal/config"
	"github.com/chabro2633/diary-korean/internal/service"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", d.store.Dialect())
				return nil
			})
		},
	}
}

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage the channel whitelist",
	}
	cmd.AddCommand(newChannelsSyncCommand(ctx))
	cmd.AddCommand(newChannelsListCommand(ctx))
	return cmd
}

func newChannelsSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <whitelist.toml>",
		Short: "Make the stored whitelist match a whitelist file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := config.LoadWhitelist(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				res, err := service.NewChannelService(d.channels).Sync(cmd.Context(), channels)
				if err != nil {
					return fmt.Errorf("sync channels: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %d channels, deactivated %d\n", res.Upserted, res.Deactivated)
				return nil
			})
		},
	}
}

func newChannelsListCommand(ctx *commandContext) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List whitelisted channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				channels, err := service.NewChannelService(d.channels).List(cmd.Context(), !all)
				if err != nil {
					return err
				}
				if len(channels) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No channels")
					return nil
				}
				rows := make([][]string, 0, len(channels))
				for _, ch := range channels {
					rows = append(rows, []string{
						ch.ID,
						ch.Name,
						deref(ch.Category),
						ch.SubtitleQuality,
						itoa(ch.CrawlPriority),
						yesNo(ch.IsActive),
						itoa(ch.IngestedVideos),
						formatTime(ch.LastCrawledAt),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Category", "Quality", "Priority", "Active", "Videos", "Last Crawled"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include deactivated channels")
	return cmd
}
