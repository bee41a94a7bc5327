package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rotaflow/rota/internal/cli"
	"github.com/rotaflow/rota/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
		tz     string
	)

	cmd := &cobra.Command{
		Use:   "export <schedule-id>",
		Short: "Export a schedule to a calendar file",
		Long: `Write a stored schedule as an iCalendar (.ics) or JSON file.

Non-exportable codes (rest days, vacation) are left out of ICS output;
the JSON format always contains the full day sequence and can be
re-imported after hand-editing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid schedule id %q", args[0])
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			schedule, err := store.GetSchedule(ctx, id)
			if err != nil {
				return err
			}

			engine, reg, err := buildEngine(ctx, store, "demo")
			if err != nil {
				return err
			}

			loc := time.Local
			if tz != "" {
				if loc, err = time.LoadLocation(tz); err != nil {
					return fmt.Errorf("invalid timezone %q: %w", tz, err)
				}
			}

			var data []byte
			switch format {
			case "ics":
				exporter := export.NewICSExporter(reg, loc)
				serialized, exportErr := exporter.Export(schedule)
				if exportErr != nil {
					return exportErr
				}
				data = []byte(serialized)
			case "json":
				if data, err = export.MarshalSchedule(schedule); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (expected ics or json)", format)
			}

			if out == "" {
				out = export.Filename(schedule, format)
			}
			if err := os.WriteFile(out, data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			engine.MarkExported()
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported schedule %d to %s", schedule.ID, out)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "ics", "output format (ics, json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: <person>-<year>-<month>.<ext>)")
	cmd.Flags().StringVar(&tz, "timezone", "", "IANA timezone for event times (default: local)")

	return cmd
}
