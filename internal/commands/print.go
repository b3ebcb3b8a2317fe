package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "remainder/internal/errors"
	"remainder/internal/parser"
)

// NewAddPrintCommand creates the 'add-print' subcommand
// Usage: remainder add-print <duration> [--weight F] [--length F] [--db 3d_print.db]
func NewAddPrintCommand() *cobra.Command {
	var dbFile string
	var weight, length float64

	cmd := &cobra.Command{
		Use:   "add-print <duration>",
		Short: "Record a print against the active spool",
		Long: `Record a finished print. The print is counted against the active spool,
which is the spool created most recently.

The duration is given in seconds or as a duration such as 1h5m. Give the
filament used as a weight in grams, a length in meters, or both.

Example:
  remainder add-print 1125 --length 2.31
  remainder add-print 45m --weight 89.6`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := parser.ParseDuration(args[0])
			if err != nil {
				return apperrors.Wrap(apperrors.CodeInvalidInput,
					fmt.Sprintf("invalid duration '%s'", args[0]), err)
			}
			return runAddPrintCommand(cmd, duration,
				optionalFloat(cmd, "weight", weight),
				optionalFloat(cmd, "length", length))
		},
	}

	addDatabaseFlag(cmd, &dbFile)
	addMeasurementFlags(cmd, &weight, &length)

	return cmd
}

// runAddPrintCommand executes the print recording logic
func runAddPrintCommand(cmd *cobra.Command, duration int64, weight, length *float64) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.service.AddPrint(weight, length, duration)
	if err != nil {
		return fmt.Errorf("failed to add print: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added print: %s\n", p.ID)
	fmt.Fprintf(out, "Weight: %.2f grams\n", p.WeightValue())
	fmt.Fprintf(out, "Length: %.2f meters\n", p.LengthValue())
	fmt.Fprintf(out, "Print time: %d seconds\n", p.Duration)
	return nil
}

// NewImportPrintsCommand creates the 'import-prints' subcommand
// Usage: remainder import-prints --file prints.csv [--db 3d_print.db]
func NewImportPrintsCommand() *cobra.Command {
	var csvFile string
	var dbFile string

	cmd := &cobra.Command{
		Use:   "import-prints",
		Short: "Record a batch of prints from a CSV file",
		Long: `Record every print listed in a CSV file against the active spool.

The CSV file has the columns duration, weight, length. A header row is
optional; with a header the columns may come in any order and weight or
length may be left out. Empty weight or length cells are derived.

Either every row is recorded or, if any row is invalid, none is.

Example:
  remainder import-prints --file prints.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportPrintsCommand(cmd, csvFile)
		},
	}

	cmd.Flags().StringVarP(&csvFile, "file", "f", "", "Path to CSV print file (required)")
	addDatabaseFlag(cmd, &dbFile)
	cmd.MarkFlagRequired("file")

	return cmd
}

// runImportPrintsCommand executes the CSV import logic
func runImportPrintsCommand(cmd *cobra.Command, csvFile string) error {
	if _, err := os.Stat(csvFile); os.IsNotExist(err) {
		return fmt.Errorf("CSV file does not exist: %s", csvFile)
	}

	requests, err := parser.ParseCSV(csvFile)
	if err != nil {
		return fmt.Errorf("failed to parse CSV file: %w", err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	prints, err := s.service.ImportPrints(requests)
	if err != nil {
		return fmt.Errorf("failed to import prints: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d prints onto spool %s\n", len(prints), prints[0].SpoolID)
	return nil
}
