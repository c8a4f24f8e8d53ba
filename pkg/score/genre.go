package score

// buildGenreTable computes the adjustment for every distinct genre token
// in the training set. Support uses containment semantics: an item with
// three genres counts once toward each of the three tokens. Tokens in the
// ignore set are excluded from the table entirely; tokens below the
// support threshold get a zero entry.
func buildGenreTable(items []Item, baseline float64, opts Options) (GenreAdjustments, map[string]int) {
	ignore := make(map[string]bool, len(opts.GenreIgnore))
	for _, t := range opts.GenreIgnore {
		ignore[t] = true
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, it := range items {
		for _, g := range distinct(it.Genres) {
			if ignore[g] {
				continue
			}
			sums[g] += *it.Score
			counts[g]++
		}
	}

	table := make(GenreAdjustments, len(counts))
	for g, n := range counts {
		if n >= opts.MinGenreSupport {
			table[g] = sums[g]/float64(n) - baseline
		} else {
			table[g] = 0.0
		}
	}
	return table, counts
}

// distinct de-duplicates an item's genre tokens so a repeated token cannot
// inflate its own support.
func distinct(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
