package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mchmarny/anipulse/pkg/data"
)

var (
	subTypeFlag = &cli.StringFlag{
		Name:  "type",
		Usage: fmt.Sprintf("Substitution type [%s]", strings.Join(data.UpdatableProperties, ",")),
	}

	oldValFlag = &cli.StringFlag{
		Name:     "old",
		Usage:    "Old value",
		Required: true,
	}

	newValFlag = &cli.StringFlag{
		Name:     "new",
		Usage:    "New value",
		Required: true,
	}

	substituteCmd = &cli.Command{
		Name:    "substitute",
		Aliases: []string{"sub"},
		Usage:   "Create a global data substitution (e.g. standardize a studio name)",
		UsageText: `anictl substitute --type studio --old "ufotable, inc." --new "ufotable"   # standardize studio
   anictl sub --type rating --old "R - 17+ (violence & profanity)" --new "R-17"`,
		HideHelpCommand: true,
		Action:          cmdSubstitutes,
		Flags: []cli.Flag{
			subTypeFlag,
			oldValFlag,
			newValFlag,
			formatFlag,
		},
	}
)

func cmdSubstitutes(c *cli.Context) error {
	applyFlags(c)
	sub := c.String(subTypeFlag.Name)
	old := c.String(oldValFlag.Name)
	new := c.String(newValFlag.Name)

	if sub == "" || old == "" || new == "" {
		return cli.ShowSubcommandHelp(c)
	}

	cfg := getConfig(c)

	res, err := data.SaveAndApplySub(cfg.DB, sub, old, new)
	if err != nil {
		return fmt.Errorf("failed to apply substitution: %w", err)
	}

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return nil
}
