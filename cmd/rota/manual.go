package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rotaflow/rota/internal/cli"
	"github.com/rotaflow/rota/internal/model"
	"github.com/rotaflow/rota/internal/tui"
)

func manualCmd() *cobra.Command {
	var (
		codeList string
		textFile string
		person   string
		month    int
		year     int
		review   bool
	)

	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Build a schedule without OCR",
		Long: `Create a schedule from hand-typed input instead of a photo.

Use --codes with a comma or space separated list of shift codes, one
per day starting at the 1st. Use --text-file to re-run saved OCR text
through the parser, e.g. after fixing it by hand.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (codeList == "") == (textFile == "") {
				return fmt.Errorf("exactly one of --codes or --text-file is required")
			}
			if person == "" {
				return fmt.Errorf("--person is required")
			}

			now := time.Now()
			if month == 0 {
				month = int(now.Month())
			}
			if year == 0 {
				year = now.Year()
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			engine, reg, err := buildEngine(ctx, store, "demo")
			if err != nil {
				return err
			}

			req := model.ScheduleRequest{
				PersonName: person,
				Month:      month,
				Year:       year,
				RawText:    "manual",
			}

			var schedule *model.Schedule
			if codeList != "" {
				schedule, err = engine.ManualCodes(ctx, req, codeList)
			} else {
				var data []byte
				data, err = os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("failed to read text file: %w", err)
				}
				schedule, err = engine.ManualText(ctx, req, string(data))
			}
			if err != nil {
				return err
			}

			printScheduleSummary(schedule, reg)

			if review {
				if err := tui.Run(ctx, schedule, engine, reg); err != nil {
					return err
				}
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved as schedule %d", schedule.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&codeList, "codes", "c", "", "delimited code list, one per day (e.g. \"JRD,JRD,RH,M7M\")")
	cmd.Flags().StringVarP(&textFile, "text-file", "t", "", "file with roster text to parse")
	cmd.Flags().StringVarP(&person, "person", "p", "", "person the schedule belongs to")
	cmd.Flags().IntVarP(&month, "month", "m", 0, "month 1-12 (default: current)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "year (default: current)")
	cmd.Flags().BoolVarP(&review, "review", "r", false, "open the interactive review screen afterwards")

	return cmd
}
