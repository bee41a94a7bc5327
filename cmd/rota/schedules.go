package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rotaflow/rota/internal/cli"
	"github.com/rotaflow/rota/internal/model"
	"github.com/rotaflow/rota/internal/registry"
)

func schedulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedules",
		Short: "List stored schedules",
		Long:  `Display every analyzed schedule with its review status.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			schedules, err := store.ListSchedules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list schedules: %w", err)
			}
			if len(schedules) == 0 {
				fmt.Println(cli.SubtitleStyle.Render("No schedules yet. Run 'rota analyze' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Person"),
				cli.TableHeaderStyle.Render("Month"),
				cli.TableHeaderStyle.Render("Resolved"),
				cli.TableHeaderStyle.Render("Created"))

			for _, s := range schedules {
				fmt.Fprintf(w, "%d\t%s\t%s %d\t%d/%d\t%s\n",
					s.ID, s.PersonName,
					time.Month(s.Month).String(), s.Year,
					s.Days.Resolved(), len(s.Days),
					s.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

// printScheduleSummary renders one schedule as a compact month table.
func printScheduleSummary(schedule *model.Schedule, reg *registry.Registry) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s — %s %d",
		schedule.PersonName, time.Month(schedule.Month).String(), schedule.Year)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, code := range schedule.Days {
		label := cli.UnresolvedStyle.Render("—")
		desc := ""
		if code != "" {
			label = code
			if c, ok := reg.Get(code); ok {
				desc = cli.SubtleStyle.Render(c.Description)
			} else {
				desc = cli.WarningStyle.Render("(unknown code)")
			}
		}
		fmt.Fprintf(w, "%2d\t%s\t%s\n", i+1, label, desc)
	}
	_ = w.Flush()

	unresolved := len(schedule.Days) - schedule.Days.Resolved()
	if unresolved > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d unresolved %s",
			unresolved, pluralDays(unresolved))))
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
