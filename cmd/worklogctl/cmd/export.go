package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/worklog-hq/worklog/internal/export"
	"github.com/worklog-hq/worklog/internal/models"
	"github.com/worklog-hq/worklog/internal/timesheet"
)

var (
	exportDBPath   string
	exportOut      string
	exportMode     string
	exportFormat   string
	exportClient   string
	exportProject  string
	exportEmployee string
	exportStart    string
	exportEnd      string
)

// exportCmd exports reports to a document file without going through
// the API.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export work reports to a file",
	Long: `Export work reports to a spreadsheet or CSV file.

The export runs with admin visibility: all reports in the database
pass through the same filter and aggregation pipeline the API uses.

Modes:
  - grouped: rows grouped by project with subtotals (default)
  - flat: one row per report with employee and client columns

Examples:
  # Export everything to a dated xlsx in the current directory
  worklogctl export

  # Flat CSV export of one client's March reports
  worklogctl export --format csv --mode flat --client acme-inc \
    --start 2024-03-01 --end 2024-03-31 --out march.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, ok := timesheet.ParseExportMode(exportMode)
		if !ok {
			return fmt.Errorf("invalid mode '%s': must be grouped or flat", exportMode)
		}
		format, ok := export.ParseFormat(exportFormat)
		if !ok {
			return fmt.Errorf("invalid format '%s': must be xlsx or csv", exportFormat)
		}

		store, err := openDatabase(exportDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		reports, err := store.Reports().List(ctx)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		clients, err := store.Clients().List(ctx)
		if err != nil {
			return fmt.Errorf("list clients: %w", err)
		}

		// CLI exports run unscoped, same view an admin gets
		admin := &models.User{Username: "worklogctl", Role: models.RoleAdmin}
		filter := timesheet.Filter{
			ClientSlug:       exportClient,
			ProjectName:      exportProject,
			EmployeeUsername: exportEmployee,
			StartDate:        exportStart,
			EndDate:          exportEnd,
		}
		annotated := timesheet.Annotate(filter.Apply(admin, reports), clients)

		var table *timesheet.Table
		switch mode {
		case timesheet.ModeFlat:
			table = timesheet.BuildFlat(annotated)
		default:
			table = timesheet.BuildGrouped(annotated)
		}

		outPath := exportOut
		if outPath == "" {
			outPath = export.Filename(format, time.Now())
		}
		if err := writeExportFile(outPath, format, table); err != nil {
			return err
		}

		fmt.Printf("Exported %d report(s) to %s (%s, %s)\n",
			len(annotated), outPath, mode, format)
		return nil
	},
}

// writeExportFile writes the table to path, creating parent directories
// as needed. The file close is checked so a failed sync does not
// masquerade as a successful export.
func writeExportFile(path string, format export.Format, table *timesheet.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := export.NewWriter(format, f).WriteTable(table); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDBPath, "db", defaultDBPath, "path to SQLite database file")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: dated filename in current directory)")
	exportCmd.Flags().StringVar(&exportMode, "mode", "", "export mode: grouped or flat (default: grouped)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "output format: xlsx or csv (default: xlsx)")
	exportCmd.Flags().StringVar(&exportClient, "client", "", "filter by client slug")
	exportCmd.Flags().StringVar(&exportProject, "project", "", "filter by project name")
	exportCmd.Flags().StringVar(&exportEmployee, "employee", "", "filter by employee username")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "start date (YYYY-MM-DD, inclusive)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "end date (YYYY-MM-DD, inclusive)")
}
