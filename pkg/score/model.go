package score

// Default support thresholds. A category backed by fewer items than the
// threshold keeps a zero adjustment so a thin slice of the catalog cannot
// skew predictions.
const (
	MinSupportDefault      = 2
	MinGenreSupportDefault = 3

	// Score scale bounds used to clamp predictions.
	ScoreMin = 1.0
	ScoreMax = 10.0
)

// GenreIgnoreDefault lists genre tokens that carry no signal and are
// excluded from the model entirely (never given a zero entry, so they
// cannot shadow the missing-token default).
var GenreIgnoreDefault = []string{"UNKNOWN"}

// Options control model training.
type Options struct {
	// MinSupport is the minimum number of items a category needs before
	// its adjustment is trusted; below it the adjustment is 0.0.
	MinSupport int `json:"min_support" yaml:"min_support"`

	// MinGenreSupport is the equivalent threshold for genre tokens.
	MinGenreSupport int `json:"min_genre_support" yaml:"min_genre_support"`

	// GenreIgnore tokens are dropped from training and prediction.
	GenreIgnore []string `json:"genre_ignore,omitempty" yaml:"genre_ignore,omitempty"`
}

// DefaultOptions returns the standard training options.
func DefaultOptions() Options {
	return Options{
		MinSupport:      MinSupportDefault,
		MinGenreSupport: MinGenreSupportDefault,
		GenreIgnore:     GenreIgnoreDefault,
	}
}

// CategoryAdjustments maps a category value to its signed deviation from
// the baseline. Every category observed during training has an entry,
// including zero entries for categories below the support threshold, so
// lookups never need to distinguish "filtered" from "never seen".
type CategoryAdjustments map[string]float64

// GenreAdjustments maps a genre token to its deviation from the baseline.
type GenreAdjustments map[string]float64

// Model is the immutable result of training: the baseline, one adjustment
// table per single-valued attribute, the genre table, and the support
// counts behind them. Models are never mutated after Train returns and
// may be shared across concurrent predictions without locking.
type Model struct {
	Baseline     float64                        `json:"baseline" yaml:"baseline"`
	Tables       map[string]CategoryAdjustments `json:"tables" yaml:"tables"`
	Support      map[string]map[string]int      `json:"support" yaml:"support"`
	Genres       GenreAdjustments               `json:"genres" yaml:"genres"`
	GenreSupport map[string]int                 `json:"genre_support" yaml:"genre_support"`
	TrainedOn    int                            `json:"trained_on" yaml:"trained_on"`
	Opts         Options                        `json:"options" yaml:"options"`
}

// Contribution is one term of the additive decomposition of a prediction.
type Contribution struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}
