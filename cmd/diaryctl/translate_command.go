package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chabro2633/diary-korean/internal/translate"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "translate <videoId>",
		Short: "Fill a video's Korean track from its English track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var client translate.Client
			if !dryRun {
				if err := cfg.ValidateTranslate(); err != nil {
					return err
				}
				g, err := translate.NewGoogleClient(cmd.Context(), cfg.Translate.APIKey)
				if err != nil {
					return err
				}
				defer g.Close()
				client = g
			}

			return ctx.withStore(cmd.Context(), func(d *deps) error {
				svc := translate.NewService(client, d.videos, d.segments).WithInvalidator(d.cache)
				report, err := svc.TranslateVideo(cmd.Context(), args[0], dryRun)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s: %d segments in %d batches\n", report.VideoID, report.Segments, report.Batches)
				if report.DryRun {
					for _, s := range report.Samples {
						fmt.Fprintf(out, "  %s\n", s)
					}
					fmt.Fprintln(out, "Dry run, nothing written")
					return nil
				}
				if !report.Completed {
					return fmt.Errorf("translation stopped after %d segments; re-run to finish", report.Written)
				}
				fmt.Fprintf(out, "Translated %d segments\n", report.Written)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be translated without calling the API")
	cmd.AddCommand(newTranslatePendingCommand(ctx))
	return cmd
}

func newTranslatePendingCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List videos with English but no Korean subtitles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				ids, err := d.videos.ListEnglishOnly(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to translate")
					return nil
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of videos")
	return cmd
}
