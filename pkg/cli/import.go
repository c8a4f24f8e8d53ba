package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/anipulse/pkg/data"
	"github.com/mchmarny/anipulse/pkg/net"
)

const topAnimePagesDefault = 5

var (
	fileFlag = &cli.StringSliceFlag{
		Name:  "file",
		Usage: "Path to a catalog CSV export (can be specified multiple times)",
	}

	urlFlag = &cli.StringFlag{
		Name:  "url",
		Usage: "URL of a catalog CSV export to download and import",
	}

	topFlag = &cli.IntFlag{
		Name:  "top",
		Usage: fmt.Sprintf("Number of top anime API pages to harvest (default: %d)", topAnimePagesDefault),
	}

	apiURLFlag = &cli.StringFlag{
		Name:   "api-url",
		Usage:  "Override the anime API base URL",
		Hidden: true,
	}

	freshFlag = &cli.BoolFlag{
		Name:  "fresh",
		Usage: "Clear pagination state and re-harvest from the first page",
	}

	importCmd = &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import anime catalog data (CSV exports, top anime API)",
		UsageText: `anictl import --file anime.csv --file anime-2023.csv   # import CSV exports
   anictl import --url https://example.com/anime.csv      # download and import
   anictl import --top 10                                 # harvest 10 top-anime API pages
   anictl import --top 10 --fresh                         # re-harvest from the first page`,
		HideHelpCommand: true,
		Action:          cmdImport,
		Flags: []cli.Flag{
			fileFlag,
			urlFlag,
			topFlag,
			apiURLFlag,
			freshFlag,
			formatFlag,
		},
	}
)

type ImportResult struct {
	Files       []*data.ImportSummary `json:"files,omitempty" yaml:"files,omitempty"`
	API         *data.ImportSummary   `json:"api,omitempty" yaml:"api,omitempty"`
	Substituted []*data.Substitution  `json:"substituted,omitempty" yaml:"substituted,omitempty"`
	Total       int64                 `json:"total" yaml:"total"`
	Duration    string                `json:"duration" yaml:"duration"`
}

func cmdImport(c *cli.Context) error {
	applyFlags(c)
	start := time.Now()

	files := c.StringSlice(fileFlag.Name)
	url := c.String(urlFlag.Name)
	pages := c.Int(topFlag.Name)

	if len(files) == 0 && url == "" && pages == 0 {
		return cli.ShowSubcommandHelp(c)
	}

	cfg := getConfig(c)
	res := &ImportResult{}

	// 1. local CSV exports, concurrently
	if len(files) > 0 {
		summaries, err := importFiles(cfg, files)
		if err != nil {
			return err
		}
		res.Files = summaries
	}

	// 2. remote CSV export
	if url != "" {
		s, err := importURL(cfg, url)
		if err != nil {
			return err
		}
		res.Files = append(res.Files, s)
	}

	// 3. top anime API harvest
	if pages > 0 {
		slog.Info("harvesting top anime", "pages", pages)
		s, err := data.ImportTopAnime(cfg.DB, c.String(apiURLFlag.Name), pages, c.Bool(freshFlag.Name))
		if err != nil {
			return fmt.Errorf("failed to harvest top anime: %w", err)
		}
		res.API = s
	}

	// 4. replay substitutions so new rows pick up standardized spellings
	sub, err := data.ApplySubs(cfg.DB)
	if err != nil {
		slog.Error("failed to apply substitutions", "error", err)
	} else {
		res.Substituted = sub
	}

	total, err := data.CountAnimes(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to count catalog rows: %w", err)
	}
	res.Total = total
	res.Duration = time.Since(start).String()

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return nil
}

func importFiles(cfg *appConfig, files []string) ([]*data.ImportSummary, error) {
	var mu sync.Mutex
	summaries := make([]*data.ImportSummary, 0, len(files))

	var g errgroup.Group
	for _, f := range files {
		g.Go(func() error {
			slog.Info("importing file", "file", f)
			s, err := data.ImportCSVFile(cfg.DB, f)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", f, err)
			}
			mu.Lock()
			summaries = append(summaries, s)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func importURL(cfg *appConfig, url string) (*data.ImportSummary, error) {
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("%s-import-%d.csv", appName, time.Now().UnixNano()))
	defer os.Remove(tmp)

	slog.Info("downloading catalog export", "url", url)
	if err := net.Download(url, tmp); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}

	s, err := data.ImportCSVFile(cfg.DB, tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", url, err)
	}
	s.File = url
	return s, nil
}
