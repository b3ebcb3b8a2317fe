package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "remainder/internal/errors"
)

// run executes the root command with args and returns its stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "remainder %s", strings.Join(args, " "))
	return out
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "3d_print.db")
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	require.NotNil(t, root)
	assert.Equal(t, "remainder", root.Use)

	want := []string{
		"add-print", "check-remaining", "create-spool", "current-spool",
		"import-prints", "lifetime-stats", "list-spools",
	}
	var got []string
	for _, sub := range root.Commands() {
		got = append(got, sub.Name())
	}
	assert.ElementsMatch(t, want, got)

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

// TestSubcommandFlags checks every subcommand takes --db with the default file
func TestSubcommandFlags(t *testing.T) {
	tests := []struct {
		name        string
		cmd         *cobra.Command
		measurement bool
	}{
		{name: "create-spool", cmd: NewCreateSpoolCommand(), measurement: true},
		{name: "add-print", cmd: NewAddPrintCommand(), measurement: true},
		{name: "check-remaining", cmd: NewCheckRemainingCommand()},
		{name: "lifetime-stats", cmd: NewLifetimeStatsCommand()},
		{name: "current-spool", cmd: NewCurrentSpoolCommand()},
		{name: "list-spools", cmd: NewListSpoolsCommand()},
		{name: "import-prints", cmd: NewImportPrintsCommand()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.cmd.Name())
			assert.NotEmpty(t, tt.cmd.Short)

			dbFlag := tt.cmd.Flags().Lookup("db")
			require.NotNil(t, dbFlag)
			assert.Equal(t, "3d_print.db", dbFlag.DefValue)

			for _, name := range []string{"weight", "length"} {
				flag := tt.cmd.Flags().Lookup(name)
				if tt.measurement {
					assert.NotNil(t, flag, "expected --%s", name)
				} else {
					assert.Nil(t, flag, "unexpected --%s", name)
				}
			}
		})
	}
}

// TestSpoolLifecycle walks a spool from creation through remaining and lifetime
func TestSpoolLifecycle(t *testing.T) {
	db := testDBPath(t)

	out := mustRun(t, "create-spool", "PLA black", "--weight", "993", "--db", db)
	assert.Contains(t, out, "Created spool: PLA black")
	assert.Contains(t, out, "Weight: 993.00 grams")
	assert.Contains(t, out, "Length: 327.69 meters")

	out = mustRun(t, "add-print", "45m", "--weight", "89.6", "--db", db)
	assert.Contains(t, out, "Added print:")
	assert.Contains(t, out, "Print time: 2700 seconds")

	out = mustRun(t, "check-remaining", "--db", db)
	assert.Contains(t, out, "PLA black")
	assert.Contains(t, out, "Estimated REMAINING Weight: 903.40 grams")
	assert.Contains(t, out, "Estimated REMAINING Length: 298.12 meters")
	assert.Contains(t, out, "Prints on this spool: 1")
	assert.NotContains(t, out, "Warning")

	mustRun(t, "add-print", "1125", "--weight", "7", "--length", "2.31", "--db", db)

	out = mustRun(t, "lifetime-stats", "--db", db)
	assert.Contains(t, out, "Total Amount of Filament used: 96.60 grams")
	assert.Contains(t, out, "Total Length of Filament used: 31.88 meters")
	assert.Contains(t, out, "Total Printing Time: 63 min")
	assert.Contains(t, out, "Prints: 2 across 1 spools")
}

func TestNewSpoolReplacesActiveSpool(t *testing.T) {
	db := testDBPath(t)

	mustRun(t, "create-spool", "first", "--weight", "1000", "--db", db)
	mustRun(t, "add-print", "60", "--weight", "100", "--db", db)
	mustRun(t, "create-spool", "second", "--length", "330", "--db", db)

	out := mustRun(t, "current-spool", "--db", db)
	assert.Contains(t, out, "Current spool: second")

	out = mustRun(t, "check-remaining", "--db", db)
	assert.Contains(t, out, "Prints on this spool: 0")
	assert.Contains(t, out, "Estimated REMAINING Length: 330.00 meters")

	out = mustRun(t, "list-spools", "--db", db)
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[2], "*"), "active spool should be marked: %q", lines[2])
	assert.Contains(t, lines[2], "second")
	assert.Contains(t, lines[3], "first")
	assert.Contains(t, out, "(2 spools)")

	out = mustRun(t, "lifetime-stats", "--db", db)
	assert.Contains(t, out, "Prints: 1 across 2 spools")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   [][]string
		args    []string
		wantErr error
	}{
		{
			name:    "add print without spool",
			args:    []string{"add-print", "60", "--weight", "5"},
			wantErr: apperrors.ErrNoActiveSpool,
		},
		{
			name:    "check remaining without spool",
			args:    []string{"check-remaining"},
			wantErr: apperrors.ErrNoActiveSpool,
		},
		{
			name:    "current spool without spool",
			args:    []string{"current-spool"},
			wantErr: apperrors.ErrNoActiveSpool,
		},
		{
			name:    "spool without measurement",
			args:    []string{"create-spool", "bare"},
			wantErr: apperrors.ErrIncompleteMeasurement,
		},
		{
			name:    "print without measurement",
			setup:   [][]string{{"create-spool", "s", "--weight", "1000"}},
			args:    []string{"add-print", "60"},
			wantErr: apperrors.ErrIncompleteMeasurement,
		},
		{
			name:    "negative weight",
			args:    []string{"create-spool", "s", "--weight=-5"},
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "bad duration",
			setup:   [][]string{{"create-spool", "s", "--weight", "1000"}},
			args:    []string{"add-print", "soon", "--weight", "5"},
			wantErr: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDBPath(t)
			for _, args := range tt.setup {
				mustRun(t, append(args, "--db", db)...)
			}

			_, err := run(t, append(tt.args, "--db", db)...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "create-spool without name", args: []string{"create-spool"}},
		{name: "add-print without duration", args: []string{"add-print"}},
		{name: "import-prints without file", args: []string{"import-prints"}},
		{name: "check-remaining with extra args", args: []string{"check-remaining", "now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "--db", testDBPath(t))...)
			assert.Error(t, err)
		})
	}
}

func TestListSpoolsEmpty(t *testing.T) {
	out := mustRun(t, "list-spools", "--db", testDBPath(t))
	assert.Contains(t, out, "No spools found.")
}

func TestLifetimeStatsEmpty(t *testing.T) {
	out := mustRun(t, "lifetime-stats", "--db", testDBPath(t))
	assert.Contains(t, out, "Total Amount of Filament used: 0.00 grams")
	assert.Contains(t, out, "Total Printing Time: 0 min")
}

func TestCheckRemainingDepleted(t *testing.T) {
	db := testDBPath(t)
	mustRun(t, "create-spool", "tiny", "--weight", "10", "--db", db)
	mustRun(t, "add-print", "60", "--weight", "12", "--db", db)

	out := mustRun(t, "check-remaining", "--db", db)
	assert.Contains(t, out, "Estimated REMAINING Weight: -2.00 grams")
	assert.Contains(t, out, "Warning: the spool is used up")
}

func TestImportPrints(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "3d_print.db")

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "import-prints", "--file", filepath.Join(dir, "nope.csv"), "--db", db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CSV file does not exist")
	})

	good := filepath.Join(dir, "prints.csv")
	require.NoError(t, os.WriteFile(good, []byte("duration,weight,length\n1125,7,2.31\n45m,89.6,\n"), 0o644))

	t.Run("no active spool", func(t *testing.T) {
		_, err := run(t, "import-prints", "--file", good, "--db", db)
		assert.ErrorIs(t, err, apperrors.ErrNoActiveSpool)
	})

	mustRun(t, "create-spool", "PLA", "--weight", "1000", "--db", db)

	t.Run("batch is atomic", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.csv")
		require.NoError(t, os.WriteFile(bad, []byte("1125,7,2.31\n60,,\n"), 0o644))

		_, err := run(t, "import-prints", "--file", bad, "--db", db)
		assert.ErrorIs(t, err, apperrors.ErrIncompleteMeasurement)

		out := mustRun(t, "lifetime-stats", "--db", db)
		assert.Contains(t, out, "Prints: 0 across 1 spools")
	})

	t.Run("imports every row", func(t *testing.T) {
		out := mustRun(t, "import-prints", "--file", good, "--db", db)
		assert.Contains(t, out, "Successfully imported 2 prints")

		out = mustRun(t, "lifetime-stats", "--db", db)
		assert.Contains(t, out, "Total Amount of Filament used: 96.60 grams")
		assert.Contains(t, out, "Total Printing Time: 63 min")
	})
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "from-config.db")
	cfgFile := filepath.Join(dir, "remainder.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("database:\n  path: "+db+"\n"), 0o644))

	mustRun(t, "--config", cfgFile, "create-spool", "configured", "--weight", "1000")

	_, err := os.Stat(db)
	require.NoError(t, err, "database should be created at the configured path")

	out := mustRun(t, "current-spool", "--db", db)
	assert.Contains(t, out, "Current spool: configured")
}
