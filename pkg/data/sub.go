package data

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

const (
	insertSubSQL = `INSERT INTO sub (type, old, new) VALUES (?, ?, ?)
		ON CONFLICT(type, old) DO UPDATE SET new = ?
	`

	selectSubSQL = `SELECT type, old, new FROM sub ORDER BY type, old`
)

// UpdatableProperties lists the catalog columns a substitution may
// rewrite. Also serves as the column whitelist for dynamic SQL.
var UpdatableProperties = []string{"studio", "source", "format", "rating", "season"}

// Substitution standardizes one category spelling across the catalog
// (e.g. "ufotable, inc." -> "ufotable"). Saved substitutions are replayed
// after every import so harvested data stays consistent.
type Substitution struct {
	Prop    string `json:"prop" yaml:"prop"`
	Old     string `json:"old" yaml:"old"`
	New     string `json:"new" yaml:"new"`
	Records int64  `json:"records" yaml:"records"`
}

// SaveAndApplySub persists the substitution and applies it to the
// current catalog, returning the number of rewritten rows.
func SaveAndApplySub(db *sql.DB, prop, old, new string) (*Substitution, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if !Contains(UpdatableProperties, prop) {
		return nil, errors.Errorf("unsupported substitution type: %s (want one of: %s)",
			prop, strings.Join(UpdatableProperties, ", "))
	}
	if old == "" || new == "" {
		return nil, errors.New("both old and new values are required")
	}

	if _, err := db.Exec(insertSubSQL, prop, old, new, new); err != nil {
		return nil, errors.Wrap(err, "failed to save substitution")
	}

	s := &Substitution{Prop: prop, Old: old, New: new}
	records, err := applySub(db, s)
	if err != nil {
		return nil, err
	}
	s.Records = records
	return s, nil
}

// GetSubs returns all saved substitutions.
func GetSubs(db *sql.DB) ([]*Substitution, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectSubSQL)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "failed to select substitutions")
	}
	defer rows.Close()

	list := make([]*Substitution, 0)
	for rows.Next() {
		s := &Substitution{}
		if err := rows.Scan(&s.Prop, &s.Old, &s.New); err != nil {
			return nil, errors.Wrap(err, "failed to scan substitution row")
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ApplySubs replays every saved substitution, returning the rewritten
// substitutions with their affected row counts.
func ApplySubs(db *sql.DB) ([]*Substitution, error) {
	subs, err := GetSubs(db)
	if err != nil {
		return nil, err
	}

	for _, s := range subs {
		records, err := applySub(db, s)
		if err != nil {
			return nil, err
		}
		s.Records = records
	}
	return subs, nil
}

func applySub(db *sql.DB, s *Substitution) (int64, error) {
	// Column name comes from the UpdatableProperties whitelist.
	if !Contains(UpdatableProperties, s.Prop) {
		return 0, errors.Errorf("unsupported substitution type: %s", s.Prop)
	}

	res, err := db.Exec("UPDATE anime SET "+s.Prop+" = ? WHERE "+s.Prop+" = ?", s.New, s.Old)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to apply %s substitution", s.Prop)
	}
	return res.RowsAffected()
}
