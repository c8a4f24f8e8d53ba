package data

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jikanPage(title string, score float64, hasNext bool) string {
	return fmt.Sprintf(`{
		"pagination": {"has_next_page": %t},
		"data": [{
			"title": %q,
			"type": "TV",
			"source": "Manga",
			"rating": "R - 17+ (violence & profanity)",
			"season": "spring",
			"year": 2009,
			"score": %v,
			"scored_by": 2000000,
			"studios": [{"name": "Bones"}, {"name": "Second Studio"}],
			"genres": [{"name": "Action"}, {"name": "Drama"}],
			"aired": {"from": "2009-04-05T00:00:00+00:00"}
		}]
	}`, hasNext, title, score)
}

func TestImportTopAnime(t *testing.T) {
	db := setupTestDB(t)

	pages := []string{
		jikanPage("Fullmetal Alchemist: Brotherhood", 9.1, true),
		jikanPage("Steins;Gate", 9.07, false),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			fmt.Fprint(w, pages[0])
		case "2":
			fmt.Fprint(w, pages[1])
		default:
			http.Error(w, "no such page", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s, err := ImportTopAnime(db, srv.URL, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 2, s.Imported)
	assert.Equal(t, 0, s.Skipped)

	list, err := GetAnimeLike(db, "Fullmetal", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bones", list[0].Studio)
	assert.Equal(t, "Spring 2009", list[0].Premiered)
	assert.Equal(t, "Spring", list[0].Season)
	assert.Equal(t, "Action, Drama", list[0].Genres)

	// resume state points past the fetched pages
	page, err := GetState(db, topAnimeQuery, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 3, page)
}

func TestImportTopAnime_ResumesAndResets(t *testing.T) {
	db := setupTestDB(t)

	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Query().Get("page"))
		fmt.Fprint(w, jikanPage("Monster", 8.88, false))
	}))
	defer srv.Close()

	require.NoError(t, SaveState(db, topAnimeQuery, srv.URL, 5))

	_, err := ImportTopAnime(db, srv.URL, 1, false)
	require.NoError(t, err)
	require.Len(t, requested, 1)
	assert.Equal(t, "5", requested[0])

	// fresh clears the saved state and starts over
	_, err = ImportTopAnime(db, srv.URL, 1, true)
	require.NoError(t, err)
	require.Len(t, requested, 2)
	assert.Equal(t, "1", requested[1])
}

func TestImportTopAnime_FetchError(t *testing.T) {
	db := setupTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := ImportTopAnime(db, srv.URL, 1, false)
	assert.Error(t, err)
}

func TestMapTopAnime(t *testing.T) {
	a := mapTopAnime(jikanAnime{
		Title:  "No Season",
		Type:   "Movie",
		Source: "Original",
		Aired: struct {
			From string `json:"from"`
		}{From: "1997-07-19T00:00:00+00:00"},
	})
	require.NotNil(t, a)
	assert.Equal(t, "Unknown", a.Studio)
	assert.Equal(t, "UNKNOWN", a.Premiered)
	assert.Equal(t, "Summer", a.Season)
	assert.Nil(t, a.Score)

	assert.Nil(t, mapTopAnime(jikanAnime{Title: "  "}))
}
