package data

import (
	"database/sql"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mchmarny/anipulse/pkg/score"
)

// ErrMissingColumn indicates the tabular source lacks one of the columns
// the catalog requires. Fatal: import aborts before anything is written.
var ErrMissingColumn = errors.New("required column missing")

const (
	colTitle     = "title"
	colStudio    = "studio"
	colSource    = "source"
	colFormat    = "format"
	colRating    = "rating"
	colGenres    = "genres"
	colScore     = "score"
	colPremiered = "premiered"
	colAired     = "aired"
	colScoredBy  = "scoredby"
)

// Column aliases cover the header spellings seen across catalog export
// generations (e.g. "Name"/"title", "Type"/"format", "aired_from").
var columnAliases = map[string][]string{
	colTitle:     {"name", "title", "englishname"},
	colStudio:    {"studios", "studio"},
	colSource:    {"source"},
	colFormat:    {"type", "format"},
	colRating:    {"rating"},
	colGenres:    {"genres", "genre"},
	colScore:     {"score"},
	colPremiered: {"premiered"},
	colAired:     {"airedfrom", "aired"},
	colScoredBy:  {"scoredby"},
}

var requiredColumns = []string{colTitle, colStudio, colSource, colFormat, colRating, colGenres, colScore}

// ImportSummary reports the outcome of one catalog import.
type ImportSummary struct {
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Rows     int    `json:"rows" yaml:"rows"`
	Imported int    `json:"imported" yaml:"imported"`
	Skipped  int    `json:"skipped" yaml:"skipped"`
}

// ImportCSVFile reads a catalog CSV export and saves its rows.
func ImportCSVFile(db *sql.DB, path string) (*ImportSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open import file: %s", path)
	}
	defer file.Close()

	return importCSV(db, file, filepath.Base(path))
}

func importCSV(db *sql.DB, in io.Reader, name string) (*ImportSummary, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read header from: %s", name)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{File: name}
	list := make([]*Anime, 0)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row from: %s", name)
		}

		summary.Rows++
		a := mapRecord(rec, cols)
		if a == nil {
			summary.Skipped++
			continue
		}
		list = append(list, a)
	}

	if err := SaveAnimes(db, list); err != nil {
		return nil, errors.Wrapf(err, "failed to save rows from: %s", name)
	}

	summary.Imported = len(list)
	slog.Debug("csv import done", "file", name, "rows", summary.Rows, "imported", summary.Imported)
	return summary, nil
}

// mapColumns resolves header names to column indexes, tolerating case,
// spaces, and underscores. Missing required columns abort the import.
func mapColumns(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[normalizeHeader(h)] = i
	}

	cols := make(map[string]int, len(columnAliases))
	for col, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := byName[alias]; ok {
				cols[col] = i
				break
			}
		}
	}

	for _, col := range requiredColumns {
		if _, ok := cols[col]; !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "column: %s, header: %s", col, strings.Join(header, ","))
		}
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	return strings.ReplaceAll(h, "_", "")
}

// mapRecord projects one CSV record into a catalog row, normalizing
// missing categorical values to the literal Unknown category and turning
// unparseable scores into NULLs. Returns nil for unusable rows.
func mapRecord(rec []string, cols map[string]int) *Anime {
	field := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	title := field(colTitle)
	if title == "" {
		return nil
	}

	premiered := field(colPremiered)
	season := DeriveSeason(premiered)
	if season == UnknownSeason {
		season = SeasonOfDate(field(colAired))
	}
	if premiered == "" {
		premiered = premieredUnknown
	}

	a := &Anime{
		Title:     title,
		Studio:    normalizeCategory(firstListed(field(colStudio))),
		Source:    normalizeCategory(field(colSource)),
		Format:    normalizeCategory(field(colFormat)),
		Rating:    normalizeCategory(field(colRating)),
		Premiered: premiered,
		Season:    season,
		Genres:    strings.Join(score.ParseGenres(field(colGenres)), ", "),
	}

	if v, err := strconv.ParseFloat(field(colScore), 64); err == nil {
		a.Score = &v
	}
	if v, err := strconv.ParseInt(field(colScoredBy), 10, 64); err == nil {
		a.ScoredBy = &v
	}
	return a
}

// firstListed keeps the first entry of a delimited list (an anime with
// several studios is attributed to its lead studio).
func firstListed(v string) string {
	if i := strings.Index(v, ","); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

func normalizeCategory(v string) string {
	if v == "" || strings.EqualFold(v, "unknown") || strings.EqualFold(v, "nan") {
		return score.UnknownCategory
	}
	return v
}
