package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rotaflow/rota/internal/cli"
	"github.com/rotaflow/rota/internal/common"
	"github.com/rotaflow/rota/internal/export"
	"github.com/rotaflow/rota/internal/model"
	"github.com/rotaflow/rota/internal/reconcile"
	"github.com/rotaflow/rota/internal/registry"
	"github.com/rotaflow/rota/internal/tui"
)

// imageExtensions are the roster photo formats accepted in batch mode.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func analyzeCmd() *cobra.Command {
	var (
		imagePath string
		dirPath   string
		person    string
		provider  string
		icsOut    string
		month     int
		year      int
		review    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a roster photo into a schedule",
		Long: `Run OCR on a roster photo, reconcile the recognized tokens against
the code registry, and store the resulting schedule for review and export.

With --dir, every image in the directory is analyzed in one run; the
person name is taken from each file name.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if imagePath == "" && dirPath == "" {
				return fmt.Errorf("either --image or --dir is required")
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

			engine, reg, err := buildEngine(ctx, store, provider)
			if err != nil {
				return err
			}

			if dirPath != "" {
				return analyzeBatch(ctx, engine, dirPath, month, year)
			}

			if person == "" {
				person = personFromFilename(imagePath)
			}
			return analyzeOne(ctx, engine, reg, model.ScheduleRequest{
				PersonName: person,
				Month:      month,
				Year:       year,
				ImagePath:  imagePath,
			}, review, icsOut)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "roster photo to analyze")
	cmd.Flags().StringVarP(&dirPath, "dir", "d", "", "analyze every image in this directory")
	cmd.Flags().StringVarP(&person, "person", "p", "", "person name to locate in the roster (default: from file name)")
	cmd.Flags().IntVarP(&month, "month", "m", 0, "roster month 1-12 (default: current)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "roster year (default: current)")
	cmd.Flags().StringVar(&provider, "provider", "", "OCR provider (ocrspace, vision, tesseract, demo)")
	cmd.Flags().BoolVarP(&review, "review", "r", false, "open the interactive review screen after analysis")
	cmd.Flags().StringVar(&icsOut, "ics", "", "write an .ics export immediately after analysis")

	return cmd
}

func analyzeOne(ctx context.Context, engine *reconcile.Engine, reg *registry.Registry, req model.ScheduleRequest, review bool, icsOut string) error {
	result, schedule, err := engine.Analyze(ctx, req)
	if err != nil {
		if errors.Is(err, common.ErrOCRProvider) {
			return common.NewUserError("Could not read the roster image; check the OCR provider with 'rota settings show'", err)
		}
		return err
	}

	if !result.Found {
		fmt.Println(cli.FormatWarning(fmt.Sprintf(
			"No roster row found for %q. Check the name spelling, or use 'rota manual' to enter codes by hand.",
			req.PersonName)))
		return nil
	}

	printScheduleSummary(schedule, reg)

	if review {
		if err := tui.Run(ctx, schedule, engine, reg); err != nil {
			return err
		}
		printScheduleSummary(schedule, reg)
	}

	if icsOut != "" {
		serialized, exportErr := export.NewICSExporter(reg, time.Local).Export(schedule)
		if exportErr != nil {
			return exportErr
		}
		if err := os.WriteFile(icsOut, []byte(serialized), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", icsOut, err)
		}
		engine.MarkExported()
		fmt.Println(cli.FormatSuccess("Exported to " + icsOut))
		return nil
	}

	fmt.Println(cli.FormatInfo(fmt.Sprintf("Saved as schedule %d. Export with: rota export %d", schedule.ID, schedule.ID)))
	return nil
}

func analyzeBatch(ctx context.Context, engine *reconcile.Engine, dir string, month, year int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	if len(images) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx, true)

	bar := progressbar.NewOptions(len(images),
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Analyzing rosters...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	var failed int
	for _, image := range images {
		if ctx.Err() != nil {
			break
		}

		req := model.ScheduleRequest{
			PersonName: personFromFilename(image),
			Month:      month,
			Year:       year,
			ImagePath:  image,
		}
		if _, _, err := engine.Analyze(ctx, req); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			failed++
			fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", filepath.Base(image), err)))
		}
		_ = bar.Add(1)
	}

	if handler.WasInterrupted() {
		return nil
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed to analyze", failed, len(images))
	}
	fmt.Println(cli.RenderBox("Batch Summary", fmt.Sprintf(
		"Analyzed: %d rosters\nReview with: rota schedules", len(images))))
	return nil
}

// personFromFilename derives a person name from a roster file name,
// e.g. "alice-smith.jpg" becomes "alice smith".
func personFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return strings.TrimSpace(stem)
}
