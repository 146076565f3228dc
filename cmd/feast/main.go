package main

import (
	"fmt"
	"os"

	"github.com/lysyi3m/feast/app/cfg"
	"github.com/lysyi3m/feast/app/fetcher"
	"github.com/lysyi3m/feast/app/logging"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "feast",
		Usage:   "import recipes from schema.org JSON-LD and build shopping lists",
		Version: cfg.GetVersion(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging", EnvVars: []string{"DEBUG"}},
		},
		Before: func(c *cli.Context) error {
			logging.SetupWriter(c.App.ErrWriter, c.Bool("debug"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "fetch",
				Usage:     "fetch a recipe page and print the parsed recipe",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{Name: "user-agent", Value: fetcher.DefaultUserAgent, Usage: "User-Agent header sent with the request"},
					&cli.DurationFlag{Name: "timeout", Value: fetcher.DefaultTimeout, Usage: "total fetch timeout"},
					&cli.IntFlag{Name: "max-redirects", Value: fetcher.DefaultMaxRedirects, Usage: "maximum number of redirects to follow"},
				},
				Action: FetchAction,
			},
			{
				Name:      "parse",
				Usage:     "parse a saved HTML page (use - for stdin)",
				ArgsUsage: "<file.html>",
				Flags:     []cli.Flag{formatFlag()},
				Action:    ParseAction,
			},
			{
				Name:      "aggregate",
				Usage:     "combine a YAML or JSON5 list of ingredient usages into a shopping list",
				ArgsUsage: "<usages.yml|usages.json5>",
				Flags:     []cli.Flag{formatFlag()},
				Action:    AggregateAction,
			},
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "json",
		Usage:   "output format: json or yaml",
	}
}
