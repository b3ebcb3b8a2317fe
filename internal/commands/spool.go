package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"remainder/internal/models"
)

// NewCreateSpoolCommand creates the 'create-spool' subcommand
// Usage: remainder create-spool <name> [--weight F] [--length F] [--db 3d_print.db]
func NewCreateSpoolCommand() *cobra.Command {
	var dbFile string
	var weight, length float64

	cmd := &cobra.Command{
		Use:   "create-spool <name>",
		Short: "Load a new spool of filament",
		Long: `Record a new spool of filament. The new spool becomes the active spool:
every print added afterwards is counted against it.

Give the weight in grams, the length in meters, or both. A missing value is
derived from the other one.

Example:
  remainder create-spool "PLA black" --weight 1000
  remainder create-spool "PETG clear" --length 330`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateSpoolCommand(cmd, args[0],
				optionalFloat(cmd, "weight", weight),
				optionalFloat(cmd, "length", length))
		},
	}

	addDatabaseFlag(cmd, &dbFile)
	addMeasurementFlags(cmd, &weight, &length)

	return cmd
}

// runCreateSpoolCommand executes the spool creation logic
func runCreateSpoolCommand(cmd *cobra.Command, name string, weight, length *float64) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	spool, err := s.service.CreateSpool(name, weight, length, 0)
	if err != nil {
		return fmt.Errorf("failed to create spool: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created spool: %s\n", spool.Name)
	printSpool(out, spool)
	return nil
}

// NewCurrentSpoolCommand creates the 'current-spool' subcommand
func NewCurrentSpoolCommand() *cobra.Command {
	var dbFile string

	cmd := &cobra.Command{
		Use:   "current-spool",
		Short: "Show the spool currently in the printer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			spool, err := s.service.CurrentSpool()
			if err != nil {
				return fmt.Errorf("failed to find current spool: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current spool: %s\n", spool.Name)
			printSpool(out, spool)
			return nil
		},
	}

	addDatabaseFlag(cmd, &dbFile)

	return cmd
}

// NewListSpoolsCommand creates the 'list-spools' subcommand
func NewListSpoolsCommand() *cobra.Command {
	var dbFile string

	cmd := &cobra.Command{
		Use:   "list-spools",
		Short: "List every spool ever loaded, newest first",
		Long: `List every spool ever loaded, newest first. The active spool is marked
with an asterisk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			spools, err := s.service.Spools()
			if err != nil {
				return fmt.Errorf("failed to list spools: %w", err)
			}

			displaySpools(cmd.OutOrStdout(), spools)
			return nil
		},
	}

	addDatabaseFlag(cmd, &dbFile)

	return cmd
}

// printSpool writes the details of one spool
func printSpool(out io.Writer, spool models.Spool) {
	fmt.Fprintf(out, "ID: %s\n", spool.ID)
	fmt.Fprintf(out, "Weight: %.2f grams\n", spool.WeightValue())
	fmt.Fprintf(out, "Length: %.2f meters\n", spool.LengthValue())
	fmt.Fprintf(out, "Loaded: %s\n", spool.CreatedTime().Format("2006-01-02 15:04:05"))
}

// displaySpools formats spools as a table
func displaySpools(out io.Writer, spools []models.Spool) {
	if len(spools) == 0 {
		fmt.Fprintln(out, "No spools found.")
		return
	}

	columns := []string{"", "name", "weight (g)", "length (m)", "loaded"}
	for i, column := range columns {
		if i > 0 {
			fmt.Fprint(out, " | ")
		}
		fmt.Fprintf(out, "%-19s", column)
	}
	fmt.Fprintln(out)

	for i := range columns {
		if i > 0 {
			fmt.Fprint(out, " | ")
		}
		fmt.Fprint(out, strings.Repeat("-", 19))
	}
	fmt.Fprintln(out)

	for i, spool := range spools {
		marker := ""
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(out, "%-19s | %-19s | %-19.2f | %-19.2f | %-19s\n",
			marker,
			spool.Name,
			spool.WeightValue(),
			spool.LengthValue(),
			spool.CreatedTime().Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(out, "\n(%d spools)\n", len(spools))
}
