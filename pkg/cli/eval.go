package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mchmarny/anipulse/pkg/score"
)

var (
	detailsFlag = &cli.BoolFlag{
		Name:  "details",
		Usage: "Include per-item predictions in the output",
	}

	evalCmd = &cli.Command{
		Name:            "eval",
		Aliases:         []string{"e"},
		Usage:           "Evaluate the model against the scored catalog (mean absolute error)",
		HideHelpCommand: true,
		Action:          cmdEval,
		Flags: []cli.Flag{
			detailsFlag,
			formatFlag,
		},
	}
)

// EvalResult reports the model fit over its own training data.
type EvalResult struct {
	Baseline    float64                `json:"baseline" yaml:"baseline"`
	TrainedOn   int                    `json:"trained_on" yaml:"trained_on"`
	Count       int                    `json:"count" yaml:"count"`
	MAE         float64                `json:"mae" yaml:"mae"`
	Predictions []score.ItemPrediction `json:"predictions,omitempty" yaml:"predictions,omitempty"`
}

func cmdEval(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)

	m, items, err := trainModel(cfg)
	if err != nil {
		return err
	}

	ev, err := m.Evaluate(items)
	if err != nil {
		return fmt.Errorf("evaluating model: %w", err)
	}

	res := &EvalResult{
		Baseline:  m.Baseline,
		TrainedOn: m.TrainedOn,
		Count:     ev.Count,
		MAE:       ev.MAE,
	}
	if c.Bool(detailsFlag.Name) {
		res.Predictions = ev.Predictions
	}

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return nil
}
