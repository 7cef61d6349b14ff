package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chabro2633/diary-korean/internal/service"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Manage ingested videos",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <videoId>",
		Short: "Delete a video with its subtitles and cached analyses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				svc := service.NewVideoService(d.videos, d.segments, d.cache)
				if err := svc.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}
