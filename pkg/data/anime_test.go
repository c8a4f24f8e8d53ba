package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 {
	return &v
}

func testAnimes() []*Anime {
	return []*Anime{
		{Title: "Fullmetal Alchemist: Brotherhood", Studio: "Bones", Source: "Manga", Format: "TV",
			Rating: "R - 17+ (violence & profanity)", Premiered: "Spring 2009", Season: "Spring",
			Genres: "Action, Adventure, Drama", Score: fptr(9.1)},
		{Title: "Cowboy Bebop", Studio: "Sunrise", Source: "Original", Format: "TV",
			Rating: "R - 17+ (violence & profanity)", Premiered: "Spring 1998", Season: "Spring",
			Genres: "Action, Sci-Fi", Score: fptr(8.75)},
		{Title: "Unscored Pilot", Studio: "Unknown", Source: "Unknown", Format: "Special",
			Rating: "Unknown", Premiered: "UNKNOWN", Season: "Unknown", Genres: ""},
	}
}

func TestSaveAnimes_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveAnimes(db, testAnimes()))

	count, err := CountAnimes(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	list, err := GetAnimeLike(db, "Bebop", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cowboy Bebop", list[0].Title)
	assert.Equal(t, "Sunrise", list[0].Studio)
	require.NotNil(t, list[0].Score)
	assert.InDelta(t, 8.75, *list[0].Score, 1e-9)
	assert.NotEmpty(t, list[0].Imported)
}

func TestSaveAnimes_ReplacesDuplicates(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveAnimes(db, testAnimes()))

	// Re-importing the same title+format replaces the previous row.
	update := []*Anime{{Title: "Cowboy Bebop", Studio: "Sunrise", Source: "Original", Format: "TV",
		Rating: "R - 17+ (violence & profanity)", Premiered: "Spring 1998", Season: "Spring",
		Genres: "Action, Sci-Fi, Space", Score: fptr(8.8)}}
	require.NoError(t, SaveAnimes(db, update))

	count, err := CountAnimes(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	list, err := GetAnimeLike(db, "Bebop", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, 8.8, *list[0].Score, 1e-9)
	assert.Equal(t, "Action, Sci-Fi, Space", list[0].Genres)
}

func TestSaveAnimes_EmptyList(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, SaveAnimes(db, nil))
}

func TestSaveAnimes_NilDB(t *testing.T) {
	err := SaveAnimes(nil, testAnimes())
	assert.Error(t, err)
}

func TestGetTrainingItems(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveAnimes(db, testAnimes()))

	items, err := GetTrainingItems(db)
	require.NoError(t, err)

	// The unscored row stays in the catalog but not in the training set.
	require.Len(t, items, 2)
	for _, it := range items {
		require.NotNil(t, it.Score)
	}
	assert.Equal(t, []string{"Action", "Adventure", "Drama"}, items[0].Genres)
	assert.Equal(t, "Spring", items[0].Season)
}

func TestGetTrainingItems_ExcludesOutOfScale(t *testing.T) {
	db := setupTestDB(t)
	rows := []*Anime{
		{Title: "ok", Studio: "A", Source: "Manga", Format: "TV", Rating: "PG-13", Season: "Fall", Score: fptr(7.2)},
		{Title: "anomaly", Studio: "A", Source: "Manga", Format: "TV", Rating: "PG-13", Season: "Fall", Score: fptr(11.0)},
	}
	require.NoError(t, SaveAnimes(db, rows))

	items, err := GetTrainingItems(db)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ok", items[0].Title)
}

func TestGetAnimeLike_NilDB(t *testing.T) {
	_, err := GetAnimeLike(nil, "x", 1)
	assert.Error(t, err)
}
