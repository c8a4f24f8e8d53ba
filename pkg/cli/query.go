package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mchmarny/anipulse/pkg/data"
)

const (
	queryResultLimitDefault = 500
	topPercentDefault       = 10
)

var (
	queryLimitFlag = &cli.IntFlag{
		Name:     "limit",
		Usage:    "Limits number of result returned",
		Value:    queryResultLimitDefault,
		Required: false,
	}

	animeLikeQueryFlag = &cli.StringFlag{
		Name:     "like",
		Usage:    "Fuzzy search anime titles",
		Required: true,
	}

	attrQueryFlag = &cli.StringFlag{
		Name:  "attr",
		Usage: fmt.Sprintf("Attribute to report on [%s]", strings.Join(data.UpdatableProperties, ", ")),
	}

	topPercentFlag = &cli.IntFlag{
		Name:  "percent",
		Usage: "Top percent of the scored catalog to compute the threshold for",
		Value: topPercentDefault,
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List catalog and model query operations",
		Subcommands: []*cli.Command{
			{
				Name:    "anime",
				Usage:   "List anime matching a title fragment",
				Aliases: []string{"a"},
				Action:  cmdQueryAnimes,
				Flags: []cli.Flag{
					animeLikeQueryFlag,
					queryLimitFlag,
					formatFlag,
				},
			},
			{
				Name:    "adjustments",
				Usage:   "Show the trained per-category score adjustments",
				Aliases: []string{"adj"},
				Action:  cmdQueryAdjustments,
				Flags: []cli.Flag{
					attrQueryFlag,
					formatFlag,
				},
			},
			{
				Name:    "genres",
				Usage:   "Show the trained per-genre score adjustments",
				Aliases: []string{"g"},
				Action:  cmdQueryGenres,
				Flags: []cli.Flag{
					formatFlag,
				},
			},
			{
				Name:    "counts",
				Usage:   "Show item counts per category of one attribute",
				Aliases: []string{"c"},
				Action:  cmdQueryCounts,
				Flags: []cli.Flag{
					attrQueryFlag,
					queryLimitFlag,
					formatFlag,
				},
			},
			{
				Name:    "summary",
				Usage:   "Show catalog summary and top score threshold",
				Aliases: []string{"s"},
				Action:  cmdQuerySummary,
				Flags: []cli.Flag{
					topPercentFlag,
					formatFlag,
				},
			},
		},
	}
)

func cmdQueryAnimes(c *cli.Context) error {
	applyFlags(c)
	val := c.String(animeLikeQueryFlag.Name)
	if val == "" {
		return cli.ShowSubcommandHelp(c)
	}

	limit := c.Int(queryLimitFlag.Name)
	if limit == 0 || limit > queryResultLimitDefault {
		limit = queryResultLimitDefault
	}

	cfg := getConfig(c)

	list, err := data.GetAnimeLike(cfg.DB, val, limit)
	if err != nil {
		return fmt.Errorf("failed to query anime: %w", err)
	}

	return encode(list)
}

// AdjustmentReport pairs the baseline with the trained adjustment tables.
type AdjustmentReport struct {
	Baseline    float64                    `json:"baseline" yaml:"baseline"`
	TrainedOn   int                        `json:"trained_on" yaml:"trained_on"`
	Adjustments map[string]map[string]Cell `json:"adjustments" yaml:"adjustments"`
}

// Cell is one category's adjustment and its supporting item count.
type Cell struct {
	Adjustment float64 `json:"adjustment" yaml:"adjustment"`
	Support    int     `json:"support" yaml:"support"`
}

func cmdQueryAdjustments(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)

	m, _, err := trainModel(cfg)
	if err != nil {
		return err
	}

	attr := c.String(attrQueryFlag.Name)
	report := &AdjustmentReport{
		Baseline:    m.Baseline,
		TrainedOn:   m.TrainedOn,
		Adjustments: make(map[string]map[string]Cell),
	}

	for name, table := range m.Tables {
		if attr != "" && !strings.EqualFold(attr, name) {
			continue
		}
		cells := make(map[string]Cell, len(table))
		for cat, adj := range table {
			cells[cat] = Cell{Adjustment: adj, Support: m.Support[name][cat]}
		}
		report.Adjustments[name] = cells
	}

	if attr != "" && len(report.Adjustments) == 0 {
		return fmt.Errorf("unknown attribute: %s (want one of: %s)",
			attr, strings.Join(data.UpdatableProperties, ", "))
	}

	return encode(report)
}

// GenreReport holds the trained per-genre adjustments.
type GenreReport struct {
	Baseline float64         `json:"baseline" yaml:"baseline"`
	Genres   map[string]Cell `json:"genres" yaml:"genres"`
}

func cmdQueryGenres(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)

	m, _, err := trainModel(cfg)
	if err != nil {
		return err
	}

	report := &GenreReport{
		Baseline: m.Baseline,
		Genres:   make(map[string]Cell, len(m.Genres)),
	}
	for g, adj := range m.Genres {
		report.Genres[g] = Cell{Adjustment: adj, Support: m.GenreSupport[g]}
	}

	return encode(report)
}

func cmdQueryCounts(c *cli.Context) error {
	applyFlags(c)
	attr := c.String(attrQueryFlag.Name)
	if attr == "" {
		return cli.ShowSubcommandHelp(c)
	}

	limit := c.Int(queryLimitFlag.Name)
	if limit == 0 || limit > queryResultLimitDefault {
		limit = queryResultLimitDefault
	}

	cfg := getConfig(c)

	list, err := data.GetAttributeCounts(cfg.DB, strings.ToLower(attr), limit)
	if err != nil {
		return fmt.Errorf("failed to query %s counts: %w", attr, err)
	}

	return encode(list)
}

// SummaryReport combines the catalog shape with the top score threshold.
type SummaryReport struct {
	Catalog *data.CatalogSummary `json:"catalog" yaml:"catalog"`
	Top     *data.TopThreshold   `json:"top" yaml:"top"`
}

func cmdQuerySummary(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)

	summary, err := data.GetCatalogSummary(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to query catalog summary: %w", err)
	}

	percent := c.Int(topPercentFlag.Name)
	top, err := data.GetTopThreshold(cfg.DB, percent)
	if err != nil {
		return fmt.Errorf("failed to compute top threshold: %w", err)
	}

	slog.Debug("catalog summary", "total", summary.Total, "scored", summary.Scored)

	return encode(&SummaryReport{Catalog: summary, Top: top})
}
