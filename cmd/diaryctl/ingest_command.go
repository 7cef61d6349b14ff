package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chabro2633/diary-korean/internal/ingest"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Load downloaded metadata and captions from a directory",
		Long: "Ingest reads every <id>.info.json in dir together with its <id>.ko.json3 " +
			"and <id>.en.json3 caption files. Videos from channels missing from the " +
			"whitelist are skipped. Re-running over the same directory is safe.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(d *deps) error {
				svc := ingest.NewService(d.channels, d.videos, d.segments, d.cache)
				report, err := svc.IngestDir(cmd.Context(), args[0])
				if errors.Is(err, ingest.ErrLocked) {
					return fmt.Errorf("%s is being ingested by another run", args[0])
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(report.Items) == 0 {
					fmt.Fprintln(out, "No videos found")
					return nil
				}
				rows := make([][]string, 0, len(report.Items))
				for _, it := range report.Items {
					tierCol, note := "-", ""
					if it.Outcome == ingest.Ingested {
						tierCol = itoa(int(it.Tier))
					}
					if it.Err != nil {
						note = it.Err.Error()
					}
					rows = append(rows, []string{
						it.VideoID,
						it.ChannelID,
						string(it.Outcome),
						tierCol,
						strconv.FormatInt(it.KoSegments, 10),
						strconv.FormatInt(it.EnSegments, 10),
						note,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Video", "Channel", "Outcome", "Tier", "KO", "EN", "Error"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				fmt.Fprintf(out, "Ingested %d, no data %d, not whitelisted %d, failed %d\n",
					report.Count(ingest.Ingested),
					report.Count(ingest.NoData),
					report.Count(ingest.NotWhitelisted),
					report.Count(ingest.Failed),
				)
				return nil
			})
		},
	}
}
