package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreTable_ContainmentSupport(t *testing.T) {
	items := []Item{
		{Genres: []string{"Action", "Drama"}, Score: f(8)},
		{Genres: []string{"Action"}, Score: f(9)},
		{Genres: []string{"Action", "Comedy"}, Score: f(7)},
		{Genres: []string{"Drama"}, Score: f(4)},
	}
	opts := DefaultOptions()
	opts.MinGenreSupport = 1

	m, err := Train(items, opts)
	require.NoError(t, err)

	// Each item counts once for every token it lists.
	assert.Equal(t, 3, m.GenreSupport["Action"])
	assert.Equal(t, 2, m.GenreSupport["Drama"])
	assert.Equal(t, 1, m.GenreSupport["Comedy"])

	// baseline = 7.0; mean(Action) = 8.0; mean(Drama) = 6.0
	assert.InDelta(t, 1.0, m.Genres["Action"], 1e-9)
	assert.InDelta(t, -1.0, m.Genres["Drama"], 1e-9)
}

func TestGenreTable_MinSupportZeroes(t *testing.T) {
	items := []Item{
		{Genres: []string{"Action"}, Score: f(8)},
		{Genres: []string{"Action"}, Score: f(9)},
		{Genres: []string{"Action"}, Score: f(7)},
		{Genres: []string{"Sports"}, Score: f(10)},
	}
	opts := DefaultOptions()
	opts.MinGenreSupport = 3

	m, err := Train(items, opts)
	require.NoError(t, err)

	// Sports appears in one item with min support 3: zero, not absent.
	adj, ok := m.Genres["Sports"]
	require.True(t, ok)
	assert.Equal(t, 0.0, adj)
	assert.NotZero(t, m.Genres["Action"])
}

func TestGenreTable_IgnoreSetExcluded(t *testing.T) {
	items := []Item{
		{Genres: []string{"UNKNOWN"}, Score: f(9)},
		{Genres: []string{"UNKNOWN", "Action"}, Score: f(8)},
		{Genres: []string{"Action"}, Score: f(6)},
	}
	opts := DefaultOptions()
	opts.MinGenreSupport = 1

	m, err := Train(items, opts)
	require.NoError(t, err)

	// Ignored tokens never get an entry, not even a zero one.
	_, ok := m.Genres["UNKNOWN"]
	assert.False(t, ok)
	_, ok = m.GenreSupport["UNKNOWN"]
	assert.False(t, ok)
	assert.Contains(t, m.Genres, "Action")
}

func TestGenreTable_RepeatedTokenCountsOnce(t *testing.T) {
	items := []Item{
		{Genres: []string{"Action", "Action"}, Score: f(8)},
		{Genres: []string{"Action"}, Score: f(6)},
	}
	opts := DefaultOptions()
	opts.MinGenreSupport = 1

	m, err := Train(items, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, m.GenreSupport["Action"])
	assert.InDelta(t, 0.0, m.Genres["Action"], 1e-9)
}

func TestParseGenres(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"simple", "Action, Drama", []string{"Action", "Drama"}},
		{"no spaces", "Action,Drama,Sci-Fi", []string{"Action", "Drama", "Sci-Fi"}},
		{"extra whitespace", "  Action ,  Slice of Life  ", []string{"Action", "Slice of Life"}},
		{"trailing delimiter", "Action,", []string{"Action"}},
		{"empty", "", nil},
		{"blank", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGenres(tt.raw))
		})
	}
}
