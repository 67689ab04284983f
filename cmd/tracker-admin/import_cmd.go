package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence"
	"github.com/actiontracker/tracker/modules/tracker/services/csvimport"
	"github.com/actiontracker/tracker/pkg/composables"
)

type importOptions struct {
	file   string
	vendor string
	dryRun bool
	json   bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import action items from a tracker CSV (or .xlsx) export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Path to the CSV or .xlsx export (required)")
	cmd.Flags().StringVar(&opts.vendor, "vendor", "", "Vendor prefix (default: taken from the first item id)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate and preview without touching the database")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the final summary as one JSON line")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

type previewItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Notes  int    `json:"notes"`
}

type dryRunSummary struct {
	Status string        `json:"status"`
	Vendor string        `json:"vendor"`
	Rows   int           `json:"rows"`
	Items  []previewItem `json:"items"`
}

type importSummary struct {
	Status string `json:"status"`
	csvimport.Result
}

func runImport(ctx context.Context, out io.Writer, opts importOptions) error {
	if strings.TrimSpace(opts.file) == "" {
		return withCode(exitUsage, fmt.Errorf("--file is required"))
	}
	if _, err := os.Stat(opts.file); err != nil {
		return withCode(exitUsage, fmt.Errorf("--file: %w", err))
	}
	logger := composables.UseLogger(ctx).WithField("file", opts.file)

	batch, err := csvimport.Load(opts.file, csvimport.Options{VendorPrefix: opts.vendor})
	if err != nil {
		return classify(err)
	}
	if opts.json {
		logger.WithFields(logrus.Fields{
			"vendor":     batch.Prefix,
			"rows":       len(batch.Rows),
			"people":     batch.People,
			"categories": batch.Categories,
		}).Info("import file loaded")
	} else if err := csvimport.WriteReport(out, batch); err != nil {
		return err
	}

	if err := batch.Validate(); err != nil {
		return classify(err)
	}

	if opts.dryRun {
		if !opts.json {
			return csvimport.WritePreview(out, batch)
		}
		items := make([]previewItem, 0, len(batch.Items))
		for _, it := range batch.Items {
			items = append(items, previewItem{ID: it.ID, Title: it.Title, Status: string(it.Status), Notes: len(it.Notes)})
		}
		return writeJSONLine(out, dryRunSummary{Status: "dry_run", Vendor: batch.Prefix, Rows: len(batch.Items), Items: items})
	}

	return withDB(ctx, func(ctx context.Context) error {
		importer := csvimport.NewImporter(
			persistence.NewVendorRepository(),
			persistence.NewUserRepository(),
			persistence.NewCategoryRepository(),
			persistence.NewActionItemRepository(),
			csvimport.WithLogger(logger),
		)
		res, err := importer.Apply(ctx, batch)
		if err != nil {
			return err
		}
		if opts.json {
			return writeJSONLine(out, importSummary{Status: "imported", Result: res})
		}
		return csvimport.WriteSummary(out, res)
	})
}
