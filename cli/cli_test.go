package cli_test

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/cli"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/render"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func testApp() *cli.App {
	app := cli.NewApp()
	app.Today = func() generic.TimePoint { return generic.NewTimePoint(2024, time.October, 10) }
	return app
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansi.ReplaceAllString(buf.String(), ""), err
}

func TestProgramsCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(), "programs")
	require.NoError(t, err)

	assert.Contains(t, out, "CORE HEALTH")
	assert.Contains(t, out, "Heart & Metabolic Program")
	assert.Contains(t, out, "every 6 weeks")
	assert.Contains(t, out, "1-24 months")
	assert.Contains(t, out, "once")

	// header + separator + one line per plan
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2+catalog.Default().Len())
}

func TestScheduleCmd_Timeline(t *testing.T) {
	out, err := executeCmd(t, testApp(), "schedule",
		"--program", "CORE HEALTH", "--frequency", "Test Monthly", "--plan", "12-month plan")
	require.NoError(t, err)

	assert.Contains(t, out, "CORE HEALTH - Test Monthly - 12-month plan")
	assert.Equal(t, 12, strings.Count(out, render.Marker))
	assert.Contains(t, out, "Customer pays: $1188.00 for 12 months (12 tests)")
}

func TestScheduleCmd_PayAsYouGoWithTable(t *testing.T) {
	out, err := executeCmd(t, testApp(), "schedule",
		"--program", "CORE HEALTH", "--frequency", "Test Quarterly", "--plan", "Pay as you go",
		"--duration", "18", "--start", "2024-10-10", "--table")
	require.NoError(t, err)

	assert.Contains(t, out, "Customer pays: $1350.00 for 18 months (6 tests)")
	assert.Contains(t, out, "2026-01-10")
	assert.Contains(t, out, "Date")
}

func TestScheduleCmd_CSV(t *testing.T) {
	out, err := executeCmd(t, testApp(), "schedule",
		"--program", "Ultimate Program", "--frequency", "Every 6 weeks", "--plan", "12-month plan", "--csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "Date,Cost,Detail", lines[0])
	assert.Equal(t, "2024-11-21,85.00,Thyroid + Core Health", lines[1])
}

func TestScheduleCmd_LegacyCatalogHasNoPanels(t *testing.T) {
	out, err := executeCmd(t, testApp(), "--legacy", "schedule",
		"--program", "Ultimate Program", "--frequency", "Every 6 weeks", "--plan", "6-month plan", "--csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "2024-11-21,99.00,", lines[1])
}

func TestScheduleCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown program", []string{"--program", "Nope", "--frequency", "x", "--plan", "y"}, `program "Nope" not found`},
		{"duration out of range", []string{"--program", "CORE HEALTH", "--frequency", "Test Monthly", "--plan", "Pay as you go", "--duration", "30"}, "--duration must be between 1 and 24"},
		{"bad start", []string{"--program", "CORE HEALTH", "--frequency", "Test Monthly", "--plan", "6-month plan", "--start", "tomorrow"}, "invalid --start"},
		{"missing flags", []string{"--program", "CORE HEALTH"}, "required flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, testApp(), append([]string{"schedule"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeedAndReadFromDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "schedule.db")
	app := testApp()

	// GIVEN: nothing stored yet
	_, err := executeCmd(t, app, "--db", db, "programs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run schedulectl seed first")

	// WHEN: seeding the legacy catalog
	out, err := executeCmd(t, app, "--db", db, "--legacy", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 19 plans from legacy")

	// THEN: commands read the stored catalog
	out, err = executeCmd(t, app, "--db", db, "export")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ultimate Program"`)
	assert.Contains(t, out, `"display": "price_only"`)
}

func TestSeedRequiresDB(t *testing.T) {
	_, err := executeCmd(t, testApp(), "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db is required")
}
