package data

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/mchmarny/anipulse/pkg/score"
)

const (
	insertAnimeSQL = `INSERT INTO anime
			(title, studio, source, format, rating, premiered, season, genres, score, scored_by, import_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectAnimeLikeSQL = `SELECT
			id, title, studio, source, format, rating, premiered, season, genres, score, scored_by, import_date
		FROM anime
		WHERE title LIKE ?
		ORDER BY score DESC NULLS LAST, title
		LIMIT ?
	`

	selectTrainingSQL = `SELECT
			title, studio, source, format, rating, season, genres, score
		FROM anime
		WHERE score IS NOT NULL
		AND score >= ? AND score <= ?
		ORDER BY id
	`

	countAnimeSQL = `SELECT COUNT(*) FROM anime`
)

// Anime is one catalog row as stored in sqlite. Score and ScoredBy are
// nil when the row was imported without a usable score; such rows stay in
// the catalog but never reach training.
type Anime struct {
	ID        int64    `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string   `json:"title" yaml:"title"`
	Studio    string   `json:"studio" yaml:"studio"`
	Source    string   `json:"source" yaml:"source"`
	Format    string   `json:"format" yaml:"format"`
	Rating    string   `json:"rating" yaml:"rating"`
	Premiered string   `json:"premiered,omitempty" yaml:"premiered,omitempty"`
	Season    string   `json:"season" yaml:"season"`
	Genres    string   `json:"genres" yaml:"genres"`
	Score     *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	ScoredBy  *int64   `json:"scored_by,omitempty" yaml:"scored_by,omitempty"`
	Imported  string   `json:"import_date,omitempty" yaml:"import_date,omitempty"`
}

// SaveAnimes writes the given rows in a single transaction. Rows matching
// an existing (title, format) pair replace the previous import.
func SaveAnimes(db *sql.DB, list []*Anime) error {
	if db == nil {
		return errDBNotInitialized
	}
	if len(list) == 0 {
		return nil
	}

	stmt, err := db.Prepare(insertAnimeSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare anime insert statement")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	today := time.Now().UTC().Format("2006-01-02")
	for _, a := range list {
		if a.Imported == "" {
			a.Imported = today
		}
		_, err = tx.Stmt(stmt).Exec(a.Title, a.Studio, a.Source, a.Format, a.Rating,
			a.Premiered, a.Season, a.Genres, a.Score, a.ScoredBy, a.Imported)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return errors.Wrap(rbErr, "failed to rollback transaction")
			}
			return errors.Wrapf(err, "failed to insert anime: %s", a.Title)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// GetAnimeLike returns catalog rows whose title matches the given pattern.
func GetAnimeLike(db *sql.DB, query string, limit int) ([]*Anime, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(selectAnimeLikeSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare anime select statement")
	}

	like := fmt.Sprintf("%%%s%%", query)
	rows, err := stmt.Query(like, limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "failed to execute anime select statement")
	}
	defer rows.Close()

	list := make([]*Anime, 0)
	for rows.Next() {
		a := &Anime{}
		var animeScore sql.NullFloat64
		var scoredBy sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Title, &a.Studio, &a.Source, &a.Format, &a.Rating,
			&a.Premiered, &a.Season, &a.Genres, &animeScore, &scoredBy, &a.Imported); err != nil {
			return nil, errors.Wrap(err, "failed to scan anime row")
		}
		if animeScore.Valid {
			a.Score = &animeScore.Float64
		}
		if scoredBy.Valid {
			a.ScoredBy = &scoredBy.Int64
		}
		list = append(list, a)
	}

	return list, rows.Err()
}

// GetTrainingItems loads every scored catalog row projected into the
// model's item shape. Rows without a score in scale bounds are excluded
// here, before the trainer ever sees them.
func GetTrainingItems(db *sql.DB) ([]score.Item, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(selectTrainingSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare training select statement")
	}

	rows, err := stmt.Query(score.ScoreMin, score.ScoreMax)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "failed to execute training select statement")
	}
	defer rows.Close()

	items := make([]score.Item, 0)
	for rows.Next() {
		var it score.Item
		var genres string
		var s float64
		if err := rows.Scan(&it.Title, &it.Studio, &it.Source, &it.Format, &it.Rating,
			&it.Season, &genres, &s); err != nil {
			return nil, errors.Wrap(err, "failed to scan training row")
		}
		it.Genres = score.ParseGenres(genres)
		it.Score = &s
		items = append(items, it)
	}

	return items, rows.Err()
}

// CountAnimes returns the number of rows in the catalog.
func CountAnimes(db *sql.DB) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	var count int64
	if err := db.QueryRow(countAnimeSQL).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count anime rows")
	}
	return count, nil
}
