package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

var (
	stateQueries = map[string]string{
		"anime":  "SELECT COUNT(*) FROM anime",
		"scored": "SELECT COUNT(*) FROM anime WHERE score IS NOT NULL",
		"studio": "SELECT COUNT(DISTINCT studio) FROM anime",
		"source": "SELECT COUNT(DISTINCT source) FROM anime",
		"format": "SELECT COUNT(DISTINCT format) FROM anime",
		"rating": "SELECT COUNT(DISTINCT rating) FROM anime",
		"season": "SELECT COUNT(DISTINCT season) FROM anime",
	}

	insertStateSQL = `INSERT INTO state (query, source, page) VALUES (?, ?, ?)
		ON CONFLICT(query, source) DO UPDATE SET page = ?
	`

	selectStateSQL = `SELECT page FROM state WHERE query = ? AND source = ?`

	deleteStateSQL = `DELETE FROM state WHERE query = ? AND source = ?`
)

// GetState returns the last saved page for a paginated import, or 1 when
// no state was saved yet.
func GetState(db *sql.DB, query, source string) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	stmt, err := db.Prepare(selectStateSQL)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare state select statement")
	}

	var page sql.NullInt64
	if err := stmt.QueryRow(query, source).Scan(&page); err != nil {
		if err == sql.ErrNoRows {
			return 1, nil
		}
		return 0, errors.Wrap(err, "failed to scan state row")
	}

	return int(page.Int64), nil
}

// SaveState records the next page to resume a paginated import from.
func SaveState(db *sql.DB, query, source string, page int) error {
	if db == nil {
		return errDBNotInitialized
	}

	if query == "" || source == "" {
		return errors.Errorf("query: %s and source: %s are both required", query, source)
	}

	stmt, err := db.Prepare(insertStateSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare state insert statement")
	}

	if _, err = stmt.Exec(query, source, page, page); err != nil {
		return errors.Wrap(err, "failed to insert state")
	}

	return nil
}

// ClearState drops the resume state so the next import starts from the
// first page.
func ClearState(db *sql.DB, query, source string) error {
	if db == nil {
		return errDBNotInitialized
	}

	if _, err := db.Exec(deleteStateSQL, query, source); err != nil {
		return errors.Wrap(err, "failed to delete state")
	}
	return nil
}

// GetDataState returns the current shape of the catalog: row counts and
// distinct category counts per attribute.
func GetDataState(db *sql.DB) (map[string]int64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	state := make(map[string]int64)
	for k, q := range stateQueries {
		var count int64
		if err := db.QueryRow(q).Scan(&count); err != nil && err != sql.ErrNoRows {
			return nil, errors.Wrapf(err, "error getting %s count", k)
		}
		state[k] = count
	}

	return state, nil
}
