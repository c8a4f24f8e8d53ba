package score

import "math"

// ItemPrediction pairs one item's true score with the model's prediction,
// used for accuracy reporting.
type ItemPrediction struct {
	Title     string  `json:"title" yaml:"title"`
	Actual    float64 `json:"actual" yaml:"actual"`
	Predicted float64 `json:"predicted" yaml:"predicted"`
	AbsError  float64 `json:"abs_error" yaml:"abs_error"`
}

// Evaluation summarizes model accuracy over a scored item set.
type Evaluation struct {
	Count       int              `json:"count" yaml:"count"`
	MAE         float64          `json:"mae" yaml:"mae"`
	Predictions []ItemPrediction `json:"predictions,omitempty" yaml:"predictions,omitempty"`
}

// Evaluate applies the model back over the given items and returns the
// mean absolute error with per-item details. Items without a usable score
// are skipped. This is a diagnostic only; it plays no part in prediction.
func (m *Model) Evaluate(items []Item) (*Evaluation, error) {
	ev := &Evaluation{
		Predictions: make([]ItemPrediction, 0, len(items)),
	}

	var errSum float64
	for _, it := range items {
		if !trainable(it) {
			continue
		}
		p := m.Predict(it)
		e := math.Abs(*it.Score - p.Score)
		errSum += e
		ev.Predictions = append(ev.Predictions, ItemPrediction{
			Title:     it.Title,
			Actual:    *it.Score,
			Predicted: p.Score,
			AbsError:  e,
		})
		ev.Count++
	}

	if ev.Count == 0 {
		return nil, ErrInsufficientData
	}
	ev.MAE = errSum / float64(ev.Count)
	return ev, nil
}
