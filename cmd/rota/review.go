package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rotaflow/rota/internal/cli"
	"github.com/rotaflow/rota/internal/tui"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <schedule-id>",
		Short: "Interactively review and fix a schedule",
		Long: `Open a stored schedule in the day-by-day review screen. Edits are
persisted immediately, so quitting never loses work.`,
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

			if err := tui.Run(ctx, schedule, engine, reg); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Schedule %d reviewed (%d/%d days resolved)",
				schedule.ID, schedule.Days.Resolved(), len(schedule.Days))))
			return nil
		},
	}
}
