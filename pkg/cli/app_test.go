package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCSV = `Name,Studios,Source,Type,Rating,Genres,Score,Premiered
Show A1,Studio A,Manga,TV,PG-13,"Action, Drama",8,Spring 2020
Show A2,Studio A,Manga,TV,PG-13,"Action, Drama",9,Fall 2020
Show A3,Studio A,Manga,TV,PG-13,Action,7,Winter 2021
Show B1,Studio B,Original,Movie,R,Drama,4,Summer 2019
Show B2,Studio B,Original,Movie,R,Drama,5,Fall 2019
`

func TestMain(m *testing.M) {
	initLogging(false)
	os.Exit(m.Run())
}

// run executes the CLI the way a user would, against an isolated home
// dir and database file.
func run(t *testing.T, args ...string) {
	t.Helper()
	app := newApp()
	require.NoError(t, app.Run(append([]string{appName}, args...)))
}

func testEnv(t *testing.T) (dbPath, csvPath string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	csvPath = filepath.Join(home, "catalog.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(testCSV), 0600))
	return filepath.Join(home, "test.db"), csvPath
}

func TestAppImportAndQuery(t *testing.T) {
	dbPath, csvPath := testEnv(t)

	run(t, "--db", dbPath, "import", "--file", csvPath)
	run(t, "--db", dbPath, "query", "summary")
	run(t, "--db", dbPath, "query", "anime", "--like", "Show")
	run(t, "--db", dbPath, "query", "counts", "--attr", "studio")
	run(t, "--db", dbPath, "--format", "yaml", "query", "adjustments")
	run(t, "--db", dbPath, "query", "genres")
}

func TestAppPredictAndEval(t *testing.T) {
	dbPath, csvPath := testEnv(t)

	run(t, "--db", dbPath, "import", "--file", csvPath)
	run(t, "--db", dbPath, "predict", "--studio", "Studio A", "--source", "Manga", "--media", "TV", "--genres", "Action, Drama")
	run(t, "--db", dbPath, "eval", "--details")
}

func TestAppSubstitute(t *testing.T) {
	dbPath, csvPath := testEnv(t)

	run(t, "--db", dbPath, "import", "--file", csvPath)
	run(t, "--db", dbPath, "substitute", "--type", "studio", "--old", "Studio B", "--new", "B Pictures")
	run(t, "--db", dbPath, "query", "counts", "--attr", "studio")
}

func TestAppBadArgs(t *testing.T) {
	dbPath, _ := testEnv(t)

	app := newApp()
	err := app.Run([]string{appName, "--db", dbPath, "query", "counts", "--attr", "nope"})
	require.Error(t, err)
}
