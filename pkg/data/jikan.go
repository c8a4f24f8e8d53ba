package data

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mchmarny/anipulse/pkg/net"
	"github.com/mchmarny/anipulse/pkg/score"
)

// JikanBaseURL is the public Jikan v4 API root.
const JikanBaseURL = "https://api.jikan.moe/v4"

const (
	topAnimeQuery = "top_anime"

	// Jikan allows 3 requests per second; pace page fetches under that.
	pageDelayMillis       = 400
	pageDelayJitterMillis = 200
)

type jikanRef struct {
	Name string `json:"name"`
}

type jikanAnime struct {
	Title    string     `json:"title"`
	Type     string     `json:"type"`
	Source   string     `json:"source"`
	Rating   string     `json:"rating"`
	Season   string     `json:"season"`
	Year     int        `json:"year"`
	Score    *float64   `json:"score"`
	ScoredBy *int64     `json:"scored_by"`
	Studios  []jikanRef `json:"studios"`
	Genres   []jikanRef `json:"genres"`
	Aired    struct {
		From string `json:"from"`
	} `json:"aired"`
}

type topAnimeResponse struct {
	Pagination struct {
		HasNextPage bool `json:"has_next_page"`
	} `json:"pagination"`
	Data []jikanAnime `json:"data"`
}

// ImportTopAnime harvests up to the given number of top-anime pages from
// the Jikan API, resuming from the last saved page unless fresh is set.
func ImportTopAnime(db *sql.DB, baseURL string, pages int, fresh bool) (*ImportSummary, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if baseURL == "" {
		baseURL = JikanBaseURL
	}

	if fresh {
		if err := ClearState(db, topAnimeQuery, baseURL); err != nil {
			return nil, err
		}
	}

	page, err := GetState(db, topAnimeQuery, baseURL)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Source: baseURL}
	for fetched := 0; fetched < pages; fetched++ {
		if fetched > 0 {
			pause()
		}

		url := fmt.Sprintf("%s/top/anime?page=%d", baseURL, page)
		slog.Debug("fetching top anime", "url", url)

		var res topAnimeResponse
		if err := net.GetJSON(url, &res); err != nil {
			return nil, errors.Wrapf(err, "failed to fetch top anime page: %d", page)
		}

		list := make([]*Anime, 0, len(res.Data))
		for _, ja := range res.Data {
			summary.Rows++
			a := mapTopAnime(ja)
			if a == nil {
				summary.Skipped++
				continue
			}
			list = append(list, a)
		}
		if err := SaveAnimes(db, list); err != nil {
			return nil, errors.Wrapf(err, "failed to save top anime page: %d", page)
		}
		summary.Imported += len(list)

		page++
		if err := SaveState(db, topAnimeQuery, baseURL, page); err != nil {
			return nil, err
		}

		if !res.Pagination.HasNextPage {
			break
		}
	}

	slog.Debug("top anime import done", "rows", summary.Rows, "imported", summary.Imported, "next_page", page)
	return summary, nil
}

// mapTopAnime projects one API entry into a catalog row.
func mapTopAnime(ja jikanAnime) *Anime {
	if strings.TrimSpace(ja.Title) == "" {
		return nil
	}

	studio := score.UnknownCategory
	if len(ja.Studios) > 0 {
		studio = normalizeCategory(ja.Studios[0].Name)
	}

	genres := make([]string, 0, len(ja.Genres))
	for _, g := range ja.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			genres = append(genres, name)
		}
	}

	premiered := premieredUnknown
	season := UnknownSeason
	if ja.Season != "" && ja.Year > 0 {
		premiered = fmt.Sprintf("%s %d", capitalize(ja.Season), ja.Year)
		season = DeriveSeason(premiered)
	} else {
		season = SeasonOfDate(ja.Aired.From)
	}

	return &Anime{
		Title:     strings.TrimSpace(ja.Title),
		Studio:    studio,
		Source:    normalizeCategory(ja.Source),
		Format:    normalizeCategory(ja.Type),
		Rating:    normalizeCategory(ja.Rating),
		Premiered: premiered,
		Season:    season,
		Genres:    strings.Join(genres, ", "),
		Score:     ja.Score,
		ScoredBy:  ja.ScoredBy,
	}
}

func pause() {
	jitter := time.Duration(rand.IntN(pageDelayJitterMillis)) * time.Millisecond
	time.Sleep(pageDelayMillis*time.Millisecond + jitter)
}
