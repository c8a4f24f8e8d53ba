package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mchmarny/anipulse/pkg/score"
)

var (
	titleFlag = &cli.StringFlag{
		Name:  "title",
		Usage: "Anime title (informational only, does not affect the estimate)",
	}

	studioFlag = &cli.StringFlag{
		Name:  "studio",
		Usage: "Animation studio",
	}

	sourceFlag = &cli.StringFlag{
		Name:  "source",
		Usage: "Source material (e.g. Manga, Original, Light novel)",
	}

	mediaFormatFlag = &cli.StringFlag{
		Name:  "media",
		Usage: "Media format (e.g. TV, Movie, OVA)",
	}

	ratingFlag = &cli.StringFlag{
		Name:  "rating",
		Usage: "Audience rating (e.g. PG-13, R - 17+)",
	}

	seasonFlag = &cli.StringFlag{
		Name:  "season",
		Usage: "Release season (Winter, Spring, Summer, Fall)",
	}

	genresFlag = &cli.StringFlag{
		Name:  "genres",
		Usage: "Comma-delimited genre list (e.g. \"Action, Drama\")",
	}

	predictCmd = &cli.Command{
		Name:    "predict",
		Aliases: []string{"p"},
		Usage:   "Estimate the quality score of a hypothetical anime",
		UsageText: `anictl predict --studio Bones --source Manga --media TV --genres "Action, Drama"
   anictl predict --studio "Kyoto Animation" --season Spring`,
		HideHelpCommand: true,
		Action:          cmdPredict,
		Flags: []cli.Flag{
			titleFlag,
			studioFlag,
			sourceFlag,
			mediaFormatFlag,
			ratingFlag,
			seasonFlag,
			genresFlag,
			formatFlag,
		},
	}
)

// PredictionResult pairs the estimate with the model context it came from.
type PredictionResult struct {
	Title     string           `json:"title,omitempty" yaml:"title,omitempty"`
	Baseline  float64          `json:"baseline" yaml:"baseline"`
	TrainedOn int              `json:"trained_on" yaml:"trained_on"`
	Estimate  score.Prediction `json:"estimate" yaml:"estimate"`
}

func cmdPredict(c *cli.Context) error {
	applyFlags(c)

	item := score.Item{
		Title:  c.String(titleFlag.Name),
		Studio: c.String(studioFlag.Name),
		Source: c.String(sourceFlag.Name),
		Format: c.String(mediaFormatFlag.Name),
		Rating: c.String(ratingFlag.Name),
		Season: c.String(seasonFlag.Name),
		Genres: score.ParseGenres(c.String(genresFlag.Name)),
	}

	cfg := getConfig(c)

	m, _, err := trainModel(cfg)
	if err != nil {
		return err
	}

	p := m.Predict(item)

	res := &PredictionResult{
		Title:     item.Title,
		Baseline:  m.Baseline,
		TrainedOn: m.TrainedOn,
		Estimate:  p,
	}

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return nil
}
