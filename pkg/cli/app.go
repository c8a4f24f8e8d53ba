package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mchmarny/anipulse/pkg/config"
	"github.com/mchmarny/anipulse/pkg/data"
	"github.com/mchmarny/anipulse/pkg/logging"
	"github.com/mchmarny/anipulse/pkg/score"
)

const (
	appName      = "anictl"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFilePathFlag = &urfave.StringFlag{
		Name:  "db",
		Usage: "Path to the Sqlite database file",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DBPath  string
	Debug   bool
	DB      *sql.DB
	Options score.Options
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 appName,
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for estimating anime quality scores from catalog attributes",
		Flags: []urfave.Flag{
			debugFlag,
			dbFilePathFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			importCmd,
			substituteCmd,
			queryCmd,
			predictCmd,
			evalCmd,
			resetCmd,
			serverCmd,
		},
		Before: func(c *urfave.Context) error {
			applyFlags(c)

			home, _, err := config.GetOrCreateHomeDir(appName)
			if err != nil {
				return fmt.Errorf("resolving home dir: %w", err)
			}

			conf, err := config.ReadOrCreate(home)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}

			dbPath := c.String(dbFilePathFlag.Name)
			if dbPath == "" {
				dbPath = path.Join(home, data.DataFileName)
			}

			if err := data.Init(dbPath); err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}

			db, err := data.GetDB(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				DBPath:  dbPath,
				Debug:   c.Bool(debugFlag.Name),
				DB:      db,
				Options: conf.ModelOptions(),
			}
			return nil
		},
		After: func(c *urfave.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

// applyFlags handles the global flags when set at the command level.
func applyFlags(c *urfave.Context) {
	if c.Bool(debugFlag.Name) {
		initLogging(true)
	}

	f := c.String(formatFlag.Name)
	if f == formatYAML || f == "yml" {
		outputFormat = formatYAML
	}
}

func initLogging(debug bool) {
	level := "info"
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)
}

// trainModel builds the scoring model from everything currently in the
// catalog that carries a usable score.
func trainModel(cfg *appConfig) (*score.Model, []score.Item, error) {
	items, err := data.GetTrainingItems(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("loading training items: %w", err)
	}

	m, err := score.Train(items, cfg.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("training model: %w", err)
	}

	slog.Debug("model trained", "items", m.TrainedOn, "baseline", m.Baseline)
	return m, items, nil
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
