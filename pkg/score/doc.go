// Package score implements the additive categorical-effects quality model.
//
// Training computes a global baseline (the mean score of the catalog) and,
// for each categorical attribute, a frozen table of signed deviations from
// that baseline. Prediction is the baseline plus the looked-up deviations,
// with the multi-valued genre attribute averaged rather than summed, the
// result clamped to the score scale, and every term reported back as an
// explanation.
//
// A trained Model is immutable and safe to share across any number of
// concurrent Predict and Evaluate calls.
package score
