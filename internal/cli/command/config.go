package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration inspection",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration after files, environment and --set",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	env := GetEnv(c)
	return env.Print(env.Config)
}

// configValidate succeeds whenever the Before hook could load the
// configuration, since loading verifies it.
func configValidate(c *cli.Context) error {
	env := GetEnv(c)
	if env.ConfigPath == "" {
		fmt.Fprintf(env.Out, "✓ No configuration file given; defaults and environment are valid\n")
		return nil
	}
	fmt.Fprintf(env.Out, "✓ Configuration file is valid: %s\n", env.ConfigPath)
	return nil
}
