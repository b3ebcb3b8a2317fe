package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCheckRemainingCommand creates the 'check-remaining' subcommand
// Usage: remainder check-remaining [--db 3d_print.db]
func NewCheckRemainingCommand() *cobra.Command {
	var dbFile string

	cmd := &cobra.Command{
		Use:   "check-remaining",
		Short: "Estimate the filament left on the active spool",
		Long: `Estimate the filament left on the active spool: its starting weight and
length minus every print recorded against it.

The estimate is not clamped. A negative value means more filament was
recorded than the spool held.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			remaining, err := s.service.Remaining()
			if err != nil {
				return fmt.Errorf("failed to check remaining filament: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checking remaining filament on spool: %s\n", remaining.Spool.Name)
			fmt.Fprintf(out, "Estimated REMAINING Weight: %.2f grams\n", remaining.Weight)
			fmt.Fprintf(out, "Estimated REMAINING Length: %.2f meters\n", remaining.Length)
			fmt.Fprintf(out, "Prints on this spool: %d\n", remaining.Used.Prints)
			if remaining.Depleted() {
				fmt.Fprintln(out, "Warning: the spool is used up, load a new one with create-spool")
			}
			return nil
		},
	}

	addDatabaseFlag(cmd, &dbFile)

	return cmd
}

// NewLifetimeStatsCommand creates the 'lifetime-stats' subcommand
// Usage: remainder lifetime-stats [--db 3d_print.db]
func NewLifetimeStatsCommand() *cobra.Command {
	var dbFile string

	cmd := &cobra.Command{
		Use:   "lifetime-stats",
		Short: "Show totals across every print ever recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			totals, err := s.service.Lifetime()
			if err != nil {
				return fmt.Errorf("failed to compute lifetime statistics: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Lifetime Stats for printer:")
			fmt.Fprintf(out, "Total Amount of Filament used: %.2f grams\n", totals.Weight)
			fmt.Fprintf(out, "Total Length of Filament used: %.2f meters\n", totals.Length)
			fmt.Fprintf(out, "Total Printing Time: %d min\n", totals.DurationMinutes())
			fmt.Fprintf(out, "Prints: %d across %d spools\n", totals.Prints, totals.Spools)
			return nil
		},
	}

	addDatabaseFlag(cmd, &dbFile)

	return cmd
}
