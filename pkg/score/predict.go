package score

import (
	"fmt"
	"sort"
)

// BaseLabel names the baseline term in a prediction breakdown.
const BaseLabel = "Base"

// GenresLabel names the averaged genre term in a prediction breakdown.
const GenresLabel = "Genres"

// Prediction is the result of scoring one query item: the clamped score,
// the pre-clamp raw value, the ordered explanation, and any query values
// the model had never seen. The baseline-inclusive sum of Contributions
// equals Raw.
type Prediction struct {
	Score         float64        `json:"score" yaml:"score"`
	Raw           float64        `json:"raw" yaml:"raw"`
	Contributions []Contribution `json:"contributions" yaml:"contributions"`
	Unknown       []string       `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// Predict scores a query item against the trained model. It is a pure
// function of the model and the item: unknown or missing attribute values
// contribute zero and are reported in Prediction.Unknown, never as an
// error, so even a query entirely outside the training vocabulary yields
// the (clamped) baseline.
func (m *Model) Predict(it Item) Prediction {
	p := Prediction{
		Raw:           m.Baseline,
		Contributions: make([]Contribution, 0, len(Attributes)+2),
	}
	p.Contributions = append(p.Contributions, Contribution{Label: BaseLabel, Value: m.Baseline})

	for _, attr := range Attributes {
		v := it.Attr(attr)
		adj, ok := m.Tables[attr][v]
		if !ok {
			adj = 0.0
			if v != "" {
				p.Unknown = append(p.Unknown, fmt.Sprintf("%s=%s", AttrLabel(attr), v))
			}
		}
		p.Raw += adj
		p.Contributions = append(p.Contributions, Contribution{Label: AttrLabel(attr), Value: adj})
	}

	// Multiple matching genres dilute rather than compound: the genre
	// term is the mean of the known tokens' adjustments, omitted when no
	// token is known.
	var genreSum float64
	var genreKnown int
	for _, g := range distinct(it.Genres) {
		adj, ok := m.Genres[g]
		if !ok {
			if !m.ignored(g) {
				p.Unknown = append(p.Unknown, fmt.Sprintf("%s=%s", GenresLabel, g))
			}
			continue
		}
		genreSum += adj
		genreKnown++
	}
	if genreKnown > 0 {
		g := genreSum / float64(genreKnown)
		p.Raw += g
		p.Contributions = append(p.Contributions, Contribution{Label: GenresLabel, Value: g})
	}

	p.Score = clamp(p.Raw, ScoreMin, ScoreMax)

	// Largest contributors first; stable so equal terms keep attribute order.
	sort.SliceStable(p.Contributions, func(i, j int) bool {
		return p.Contributions[i].Value > p.Contributions[j].Value
	})
	return p
}

func (m *Model) ignored(token string) bool {
	for _, t := range m.Opts.GenreIgnore {
		if t == token {
			return true
		}
	}
	return false
}

func clamp(v, low, high float64) float64 {
	switch {
	case v < low:
		return low
	case v > high:
		return high
	default:
		return v
	}
}
