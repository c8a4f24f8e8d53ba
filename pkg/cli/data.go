package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mchmarny/anipulse/pkg/data"
	"github.com/mchmarny/anipulse/pkg/score"
)

func makeRouter(cfg *appConfig, m *score.Model, items []score.Item) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", rootHandler(m))

	// Data API
	mux.HandleFunc("GET /data/anime", animeAPIHandler(cfg))
	mux.HandleFunc("GET /data/summary", summaryAPIHandler(cfg))

	// Model API
	mux.HandleFunc("GET /data/predict", predictAPIHandler(m))
	mux.HandleFunc("GET /data/adjustments", adjustmentsAPIHandler(m))
	mux.HandleFunc("GET /data/genres", genresAPIHandler(m))
	mux.HandleFunc("GET /data/eval", evalAPIHandler(m, items))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryParamInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func rootHandler(m *score.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"name":       appName,
			"version":    version,
			"trained_on": m.TrainedOn,
			"baseline":   m.Baseline,
		})
	}
}

func animeAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter: q")
			return
		}
		limit := queryParamInt(r, "limit", queryResultLimitDefault)
		if limit > queryResultLimitDefault {
			limit = queryResultLimitDefault
		}

		list, err := data.GetAnimeLike(cfg.DB, q, limit)
		if err != nil {
			slog.Error("failed to query anime", "error", err)
			writeError(w, http.StatusInternalServerError, "error querying anime")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func summaryAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := data.GetCatalogSummary(cfg.DB)
		if err != nil {
			slog.Error("failed to query catalog summary", "error", err)
			writeError(w, http.StatusInternalServerError, "error querying summary")
			return
		}

		percent := queryParamInt(r, "percent", topPercentDefault)
		top, err := data.GetTopThreshold(cfg.DB, percent)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, &SummaryReport{Catalog: summary, Top: top})
	}
}

func predictAPIHandler(m *score.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		item := score.Item{
			Title:  q.Get("title"),
			Studio: q.Get("studio"),
			Source: q.Get("source"),
			Format: q.Get("media"),
			Rating: q.Get("rating"),
			Season: q.Get("season"),
			Genres: score.ParseGenres(q.Get("genres")),
		}

		p := m.Predict(item)
		writeJSON(w, http.StatusOK, &PredictionResult{
			Title:     item.Title,
			Baseline:  m.Baseline,
			TrainedOn: m.TrainedOn,
			Estimate:  p,
		})
	}
}

func adjustmentsAPIHandler(m *score.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attr := r.URL.Query().Get("attr")

		report := &AdjustmentReport{
			Baseline:    m.Baseline,
			TrainedOn:   m.TrainedOn,
			Adjustments: make(map[string]map[string]Cell),
		}
		for name, table := range m.Tables {
			if attr != "" && !strings.EqualFold(attr, name) {
				continue
			}
			cells := make(map[string]Cell, len(table))
			for cat, adj := range table {
				cells[cat] = Cell{Adjustment: adj, Support: m.Support[name][cat]}
			}
			report.Adjustments[name] = cells
		}

		if attr != "" && len(report.Adjustments) == 0 {
			writeError(w, http.StatusBadRequest, "unknown attribute: "+attr)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func genresAPIHandler(m *score.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := &GenreReport{
			Baseline: m.Baseline,
			Genres:   make(map[string]Cell, len(m.Genres)),
		}
		for g, adj := range m.Genres {
			report.Genres[g] = Cell{Adjustment: adj, Support: m.GenreSupport[g]}
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func evalAPIHandler(m *score.Model, items []score.Item) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := m.Evaluate(items)
		if err != nil {
			slog.Error("failed to evaluate model", "error", err)
			writeError(w, http.StatusInternalServerError, "error evaluating model")
			return
		}

		res := &EvalResult{
			Baseline:  m.Baseline,
			TrainedOn: m.TrainedOn,
			Count:     ev.Count,
			MAE:       ev.MAE,
		}
		if r.URL.Query().Get("details") == "true" {
			res.Predictions = ev.Predictions
		}
		writeJSON(w, http.StatusOK, res)
	}
}
