package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rotaflow/rota/internal/cli"
	"github.com/rotaflow/rota/internal/model"
)

func codesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Manage the shift code registry",
		Long:  `List, add, update, and delete the shift codes used to reconcile roster text.`,
	}

	cmd.AddCommand(listCodesCmd())
	cmd.AddCommand(addCodeCmd())
	cmd.AddCommand(updateCodeCmd())
	cmd.AddCommand(deleteCodeCmd())

	return cmd
}

func listCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all shift codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			reg, err := loadRegistry(ctx, store)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Code"),
				cli.TableHeaderStyle.Render("Description"),
				cli.TableHeaderStyle.Render("Window"),
				cli.TableHeaderStyle.Render("Export"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 6), strings.Repeat("-", 24),
				strings.Repeat("-", 12), strings.Repeat("-", 6))

			for _, id := range reg.List() {
				code, _ := reg.Get(id)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					code.ID, code.Description, formatWindow(code), formatExportable(code))
			}
			return nil
		},
	}
}

func formatWindow(code model.Code) string {
	if code.HasWindow() {
		window := fmt.Sprintf("%s-%s", code.StartTime, code.EndTime)
		if code.Overnight {
			window += " +1d"
		}
		return window
	}
	if code.Duration > 0 {
		return fmt.Sprintf("%.1fh", code.Duration)
	}
	return "-"
}

func formatExportable(code model.Code) string {
	if code.Exportable {
		return cli.SuccessIcon
	}
	return cli.SubtleStyle.Render("skip")
}

func addCodeCmd() *cobra.Command {
	var code model.Code

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a new shift code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			code.ID = args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			reg, err := loadRegistry(ctx, store)
			if err != nil {
				return err
			}

			if _, exists := reg.Get(code.ID); exists {
				return fmt.Errorf("code %q already exists, use 'rota codes update'", model.NormalizeCodeID(code.ID))
			}
			if err := reg.Upsert(ctx, code); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added code %s", model.NormalizeCodeID(code.ID))))
			return nil
		},
	}

	addCodeFlags(cmd, &code)
	return cmd
}

func updateCodeCmd() *cobra.Command {
	var (
		code   model.Code
		rename string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing shift code",
		Long: `Replace the definition of a shift code. Identifiers are immutable;
use --rename to move the definition to a new identifier.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			reg, err := loadRegistry(ctx, store)
			if err != nil {
				return err
			}

			existing, ok := reg.Get(id)
			if !ok {
				return fmt.Errorf("code %q not found", model.NormalizeCodeID(id))
			}

			// Flags that were not set keep their current value.
			merged := mergeCodeFlags(cmd, existing, code)
			merged.ID = id
			if rename != "" {
				merged.ID = rename
				if err := reg.Rename(ctx, id, merged); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Renamed %s to %s",
					model.NormalizeCodeID(id), model.NormalizeCodeID(rename))))
				return nil
			}

			if err := reg.Upsert(ctx, merged); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated code %s", model.NormalizeCodeID(id))))
			return nil
		},
	}

	addCodeFlags(cmd, &code)
	cmd.Flags().StringVar(&rename, "rename", "", "move the definition to a new identifier")
	return cmd
}

func deleteCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a shift code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			reg, err := loadRegistry(ctx, store)
			if err != nil {
				return err
			}
			if err := reg.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted code %s", model.NormalizeCodeID(id))))
			return nil
		},
	}
}

func addCodeFlags(cmd *cobra.Command, code *model.Code) {
	cmd.Flags().StringVar(&code.Description, "description", "", "human-readable description")
	cmd.Flags().StringVar(&code.StartTime, "start", "", "shift start time (HH:MM)")
	cmd.Flags().StringVar(&code.EndTime, "end", "", "shift end time (HH:MM)")
	cmd.Flags().Float64Var(&code.Duration, "duration", 0, "shift length in hours (alternative to start/end)")
	cmd.Flags().StringVar(&code.Color, "color", "", "calendar color (hex)")
	cmd.Flags().BoolVar(&code.Overnight, "overnight", false, "shift ends on the next day")
	cmd.Flags().BoolVar(&code.Exportable, "exportable", true, "include in calendar exports")
}

// mergeCodeFlags overlays the explicitly-set flags onto the stored code.
func mergeCodeFlags(cmd *cobra.Command, existing, updated model.Code) model.Code {
	merged := existing
	if cmd.Flags().Changed("description") {
		merged.Description = updated.Description
	}
	if cmd.Flags().Changed("start") {
		merged.StartTime = updated.StartTime
	}
	if cmd.Flags().Changed("end") {
		merged.EndTime = updated.EndTime
	}
	if cmd.Flags().Changed("duration") {
		merged.Duration = updated.Duration
	}
	if cmd.Flags().Changed("color") {
		merged.Color = updated.Color
	}
	if cmd.Flags().Changed("overnight") {
		merged.Overnight = updated.Overnight
	}
	if cmd.Flags().Changed("exportable") {
		merged.Exportable = updated.Exportable
	}
	return merged
}
