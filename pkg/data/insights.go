package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	selectSummarySQL = `SELECT
			COUNT(*) AS total,
			COUNT(score) AS scored,
			COALESCE(AVG(score), 0) AS mean_score,
			COUNT(DISTINCT studio) AS studios,
			COUNT(DISTINCT source) AS sources,
			COUNT(DISTINCT format) AS formats,
			COUNT(DISTINCT rating) AS ratings,
			COUNT(DISTINCT season) AS seasons
		FROM anime
	`

	selectTopThresholdSQL = `SELECT MIN(score) FROM (
			SELECT score FROM anime
			WHERE score IS NOT NULL
			ORDER BY score DESC
			LIMIT ?
		)
	`

	countScoredSQL = `SELECT COUNT(score) FROM anime`
)

// CatalogSummary describes the shape of the imported catalog.
type CatalogSummary struct {
	Total     int64   `json:"total" yaml:"total"`
	Scored    int64   `json:"scored" yaml:"scored"`
	MeanScore float64 `json:"mean_score" yaml:"mean_score"`
	Studios   int64   `json:"studios" yaml:"studios"`
	Sources   int64   `json:"sources" yaml:"sources"`
	Formats   int64   `json:"formats" yaml:"formats"`
	Ratings   int64   `json:"ratings" yaml:"ratings"`
	Seasons   int64   `json:"seasons" yaml:"seasons"`
}

// TopThreshold is the minimum score an item needs to sit in the top
// percent of the scored catalog.
type TopThreshold struct {
	Percent   int     `json:"percent" yaml:"percent"`
	Items     int64   `json:"items" yaml:"items"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// CountedItem pairs a category value with its item count, used for
// support reporting and bar-chart style views.
type CountedItem struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// GetCatalogSummary returns row and distinct category counts plus the
// catalog-wide mean score.
func GetCatalogSummary(db *sql.DB) (*CatalogSummary, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	s := &CatalogSummary{}
	err := db.QueryRow(selectSummarySQL).Scan(&s.Total, &s.Scored, &s.MeanScore,
		&s.Studios, &s.Sources, &s.Formats, &s.Ratings, &s.Seasons)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query catalog summary")
	}
	return s, nil
}

// GetTopThreshold computes the score cutoff for the top percent of the
// scored catalog (e.g. percent=10 means the top decile).
func GetTopThreshold(db *sql.DB, percent int) (*TopThreshold, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if percent <= 0 || percent > 100 {
		return nil, errors.Errorf("percent must be in 1..100, got: %d", percent)
	}

	var scored int64
	if err := db.QueryRow(countScoredSQL).Scan(&scored); err != nil {
		return nil, errors.Wrap(err, "failed to count scored rows")
	}

	t := &TopThreshold{Percent: percent}
	t.Items = scored * int64(percent) / 100
	if t.Items == 0 {
		return t, nil
	}

	var threshold sql.NullFloat64
	if err := db.QueryRow(selectTopThresholdSQL, t.Items).Scan(&threshold); err != nil {
		return nil, errors.Wrap(err, "failed to query top threshold")
	}
	t.Threshold = threshold.Float64
	return t, nil
}

// GetAttributeCounts returns item counts per category value of one of the
// model's single-valued attributes, most common first.
func GetAttributeCounts(db *sql.DB, attr string, limit int) ([]*CountedItem, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	// Column name must come from the whitelist; it is spliced into SQL.
	if !Contains(UpdatableProperties, attr) {
		return nil, errors.Errorf("unsupported attribute: %s", attr)
	}

	rows, err := db.Query("SELECT "+attr+", COUNT(*) AS items FROM anime GROUP BY "+attr+" ORDER BY 2 DESC LIMIT ?", limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrapf(err, "failed to query %s counts", attr)
	}
	defer rows.Close()

	list := make([]*CountedItem, 0)
	for rows.Next() {
		ci := &CountedItem{}
		if err := rows.Scan(&ci.Name, &ci.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan counted row")
		}
		list = append(list, ci)
	}
	return list, rows.Err()
}
