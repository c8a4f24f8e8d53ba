package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyCSV = `Name,Studios,Source,Type,Rating,Genres,Score,Premiered,Scored_By
Fullmetal Alchemist: Brotherhood,Bones,Manga,TV,R - 17+,"Action, Adventure, Drama",9.1,Spring 2009,2000000
Cowboy Bebop,Sunrise,Original,TV,R - 17+,"Action, Sci-Fi",8.75,Spring 1998,900000
`

const modernCSV = `title,studio,source,format,rating,genres,score,aired_from
Monster,Madhouse,Manga,TV,R+,"Drama, Mystery",8.88,2004-04-07
Pilot Thing,,,,,"",,
`

func TestImportCSV_LegacyHeaders(t *testing.T) {
	db := setupTestDB(t)

	s, err := importCSV(db, strings.NewReader(legacyCSV), "legacy.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 2, s.Imported)
	assert.Equal(t, 0, s.Skipped)

	list, err := GetAnimeLike(db, "Fullmetal", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bones", list[0].Studio)
	assert.Equal(t, "TV", list[0].Format)
	assert.Equal(t, "Spring", list[0].Season)
	assert.Equal(t, "Spring 2009", list[0].Premiered)
	require.NotNil(t, list[0].Score)
	assert.InDelta(t, 9.1, *list[0].Score, 0.001)
	require.NotNil(t, list[0].ScoredBy)
	assert.Equal(t, int64(2000000), *list[0].ScoredBy)
}

func TestImportCSV_ModernHeaders(t *testing.T) {
	db := setupTestDB(t)

	s, err := importCSV(db, strings.NewReader(modernCSV), "modern.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 2, s.Imported)

	list, err := GetAnimeLike(db, "Monster", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	// no premiered column, season falls back to the air date
	assert.Equal(t, "Spring", list[0].Season)

	// categorical blanks normalize to the Unknown category, blank score to NULL
	list, err = GetAnimeLike(db, "Pilot", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Unknown", list[0].Studio)
	assert.Equal(t, "Unknown", list[0].Format)
	assert.Equal(t, "Unknown", list[0].Season)
	assert.Nil(t, list[0].Score)
}

func TestImportCSV_MissingRequiredColumn(t *testing.T) {
	db := setupTestDB(t)

	// no score column
	in := "Name,Studios,Source,Type,Rating,Genres\nX,Y,Manga,TV,PG,Action\n"
	_, err := importCSV(db, strings.NewReader(in), "bad.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "score")
}

func TestImportCSV_SkipsTitlelessRows(t *testing.T) {
	db := setupTestDB(t)

	in := legacyCSV + ",Bones,Manga,TV,PG,Action,7.0,Fall 2010,100\n"
	s, err := importCSV(db, strings.NewReader(in), "gaps.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Rows)
	assert.Equal(t, 2, s.Imported)
	assert.Equal(t, 1, s.Skipped)
}

func TestImportCSV_NilDB(t *testing.T) {
	_, err := importCSV(nil, strings.NewReader(legacyCSV), "x.csv")
	assert.Error(t, err)
}

func TestMapColumns_Aliases(t *testing.T) {
	cols, err := mapColumns([]string{"English name", "studios", "Source", "Type", "rating", "genres", "Score"})
	require.NoError(t, err)
	assert.Equal(t, 0, cols[colTitle])
	assert.Equal(t, 1, cols[colStudio])
	assert.Equal(t, 3, cols[colFormat])
	assert.Equal(t, 6, cols[colScore])
}

func TestMapRecord_Normalization(t *testing.T) {
	cols, err := mapColumns([]string{"title", "studio", "source", "format", "rating", "genres", "score"})
	require.NoError(t, err)

	a := mapRecord([]string{"Show", "Bones, Kyoto Animation", "nan", "TV", "Unknown", "Action,, Drama", "n/a"}, cols)
	require.NotNil(t, a)
	assert.Equal(t, "Bones", a.Studio)
	assert.Equal(t, "Unknown", a.Source)
	assert.Equal(t, "Unknown", a.Rating)
	assert.Equal(t, "Action, Drama", a.Genres)
	assert.Nil(t, a.Score)
}
