package score

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrInsufficientData is returned when the training set is empty after
// filtering out items without a usable score.
var ErrInsufficientData = errors.New("insufficient data: no scored items to train on")

// Train builds a Model from the given catalog items. Items without a
// finite score inside the scale bounds are excluded up front; the score
// of each remaining item stays part of its own category means (no
// leave-one-out correction).
func Train(items []Item, opts Options) (*Model, error) {
	if opts.MinSupport <= 0 {
		opts.MinSupport = MinSupportDefault
	}
	if opts.MinGenreSupport <= 0 {
		opts.MinGenreSupport = MinGenreSupportDefault
	}

	training := make([]Item, 0, len(items))
	var sum float64
	for _, it := range items {
		if !trainable(it) {
			continue
		}
		training = append(training, it)
		sum += *it.Score
	}
	if len(training) == 0 {
		return nil, ErrInsufficientData
	}

	m := &Model{
		Baseline:  sum / float64(len(training)),
		Tables:    make(map[string]CategoryAdjustments, len(Attributes)),
		Support:   make(map[string]map[string]int, len(Attributes)),
		TrainedOn: len(training),
		Opts:      opts,
	}

	// Each attribute table is independent; build them in parallel.
	var g errgroup.Group
	tables := make([]CategoryAdjustments, len(Attributes))
	supports := make([]map[string]int, len(Attributes))
	for i, attr := range Attributes {
		g.Go(func() error {
			tables[i], supports[i] = buildCategoryTable(training, attr, m.Baseline, opts.MinSupport)
			return nil
		})
	}
	g.Go(func() error {
		m.Genres, m.GenreSupport = buildGenreTable(training, m.Baseline, opts)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, attr := range Attributes {
		m.Tables[attr] = tables[i]
		m.Support[attr] = supports[i]
	}
	return m, nil
}

// buildCategoryTable computes the adjustment for every category value of
// one attribute: mean(category) - baseline when support reaches the
// threshold, exactly 0.0 otherwise. Missing values count as the literal
// Unknown category rather than being dropped.
func buildCategoryTable(items []Item, attr string, baseline float64, minSupport int) (CategoryAdjustments, map[string]int) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, it := range items {
		c := it.Attr(attr)
		if c == "" {
			c = UnknownCategory
		}
		sums[c] += *it.Score
		counts[c]++
	}

	table := make(CategoryAdjustments, len(counts))
	for c, n := range counts {
		if n >= minSupport {
			table[c] = sums[c]/float64(n) - baseline
		} else {
			table[c] = 0.0
		}
	}
	return table, counts
}

func trainable(it Item) bool {
	if it.Score == nil {
		return false
	}
	s := *it.Score
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return false
	}
	return s >= ScoreMin && s <= ScoreMax
}
