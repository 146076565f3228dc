package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lysyi3m/feast/app/fetcher"
	"github.com/lysyi3m/feast/app/importer"
	"github.com/lysyi3m/feast/app/logging"
	"github.com/lysyi3m/feast/app/recipe"
	"github.com/lysyi3m/feast/app/shopping"
	"github.com/urfave/cli/v2"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

func FetchAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: feast fetch <url>", 2)
	}

	f := fetcher.NewFetcher(fetcher.Options{
		UserAgent:    c.String("user-agent"),
		Timeout:      c.Duration("timeout"),
		MaxRedirects: c.Int("max-redirects"),
	})
	imp := importer.NewImporter(f, recipe.NewParser(), nil)

	ctx, _ := logging.EnsureCorrelationID(c.Context)
	start := time.Now()

	result, err := imp.Parse(ctx, c.Args().First())
	if err != nil {
		logging.FromContext(ctx).Debug("Fetch failed", "url", logging.RedactURL(c.Args().First()), "error", err)
		return cli.Exit(importer.UserMessage(err), 1)
	}

	logging.FromContext(ctx).Debug("Fetch completed",
		"url", logging.RedactURL(result.SourceURL),
		"ingredients", logging.FormatCount(len(result.Recipe.Ingredients), "ingredient"),
		"duration", time.Since(start))

	return write(c, result)
}

func ParseAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: feast parse <file.html>", 2)
	}

	html, err := readInput(c, c.Args().First())
	if err != nil {
		return err
	}

	parsed, err := recipe.NewParser().Run(string(html))
	if err != nil {
		slog.Debug("Parse failed", "file", c.Args().First(), "error", err)
		return cli.Exit(importer.UserMessage(err), 1)
	}

	return write(c, parsed)
}

func AggregateAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: feast aggregate <usages.yml|usages.json5>", 2)
	}

	path := c.Args().First()
	data, err := readInput(c, path)
	if err != nil {
		return err
	}

	usages, err := decodeUsages(path, data)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid usages file: %v", err), 1)
	}

	items := shopping.NewAggregator().Run(usages)
	slog.Debug("Aggregated usages", "usages", len(usages), "items", logging.FormatCount(len(items), "item"))

	return write(c, items)
}

// decodeUsages reads hand-written .json5 files (comments, trailing commas) leniently
// and everything else, stdin included, as YAML.
func decodeUsages(path string, data []byte) ([]shopping.Usage, error) {
	var usages []shopping.Usage

	if strings.EqualFold(filepath.Ext(path), ".json5") {
		if err := json5.Unmarshal(data, &usages); err != nil {
			return nil, err
		}
		return usages, nil
	}

	if err := yaml.Unmarshal(data, &usages); err != nil {
		return nil, err
	}
	return usages, nil
}

func readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		reader := c.App.Reader
		if reader == nil {
			reader = os.Stdin
		}
		return io.ReadAll(reader)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to read %s: %v", path, err), 1)
	}
	return data, nil
}

func write(c *cli.Context, v any) error {
	out := c.App.Writer

	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}

	return cli.Exit(fmt.Sprintf("unknown format %q (want json or yaml)", c.String("format")), 2)
}
