package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/employee-records-api/internal/bulk"
	"github.com/employee-records-api/internal/client"
	"github.com/employee-records-api/internal/models"
	"github.com/spf13/cobra"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Create or update employees from a file",
		Long: `Sends one create or update per data row and prints a summary.

Rows that fail on the server are counted and logged; they do not stop
the import. The command fails only when the file cannot be read.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runImport,
	}
}

func (a *app) runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	opts := bulk.Options{
		Concurrency: a.cfg.Concurrency,
		Logger:      &a.log,
	}

	a.log.Info().Str("file", path).Str("api", a.cfg.APIBaseURL).Msg("Importing")

	var outcome bulk.Outcome
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		outcome, err = bulk.ImportXLSX(cmd.Context(), f, a.client(), opts)
	} else {
		outcome, err = bulk.Import(cmd.Context(), f, a.client(), opts)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, outcome.Summary())
	if outcome.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d rows with fewer than 3 fields\n", outcome.Skipped)
	}
	return err
}

type filterFlags struct {
	id         int
	name       string
	department string
	salary     int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.id, "id", 0, "only the employee with this id")
	cmd.Flags().StringVar(&f.name, "name", "", "name contains (case-insensitive)")
	cmd.Flags().StringVar(&f.department, "department", "", "department contains (case-insensitive)")
	cmd.Flags().IntVar(&f.salary, "salary", 0, "exact salary")
}

func (f *filterFlags) filter(cmd *cobra.Command) models.EmployeeFilter {
	filter := models.EmployeeFilter{Name: f.name, Department: f.department}
	if cmd.Flags().Changed("id") {
		id := f.id
		filter.ID = &id
	}
	if cmd.Flags().Changed("salary") {
		salary := f.salary
		filter.Salary = &salary
	}
	return filter
}

func (a *app) exportCmd() *cobra.Command {
	var (
		format  string
		outPath string
		filters filterFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write employees to a CSV or XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFileFormat(format); err != nil {
				return err
			}

			employees, err := a.client().List(cmd.Context(), filters.filter(cmd))
			if err != nil {
				return fmt.Errorf("failed to fetch employees: %w", err)
			}

			err = writeOutput(cmd, outPath, func(w io.Writer) error {
				if format == "xlsx" {
					return bulk.ExportXLSX(w, employees)
				}
				return bulk.Export(w, employees)
			})
			if err != nil {
				return err
			}
			a.log.Info().Int("count", len(employees)).Str("format", format).Msg("Export written")
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	filters.register(cmd)
	return cmd
}

func (a *app) templateCmd() *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a blank import template with example rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFileFormat(format); err != nil {
				return err
			}
			return writeOutput(cmd, outPath, func(w io.Writer) error {
				if format == "xlsx" {
					return bulk.WriteTemplateXLSX(w)
				}
				return bulk.WriteTemplate(w)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print employees as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := a.client().List(cmd.Context(), filters.filter(cmd))
			if err != nil {
				return fmt.Errorf("failed to fetch employees: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(bulk.Header, "\t"))
			for _, e := range employees {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.ID, e.Name, e.Department, e.Salary)
			}
			return tw.Flush()
		},
	}

	filters.register(cmd)
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[0])
			}

			e, err := a.client().Get(cmd.Context(), id)
			if client.IsNotFound(err) {
				return fmt.Errorf("employee %d not found", id)
			}
			if err != nil {
				return fmt.Errorf("failed to fetch employee: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(bulk.Header, "\t"))
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.ID, e.Name, e.Department, e.Salary)
			return tw.Flush()
		},
	}
}

func checkFileFormat(format string) error {
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unsupported format %q (expected csv or xlsx)", format)
	}
	return nil
}

// writeOutput runs write against path, or stdout when path is empty
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
