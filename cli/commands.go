package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"ytlessons/storage"
	"ytlessons/youtube"
)

func (a *app) fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "search one query and save labelled metadata",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Value: "guitar lessons", Usage: "search query"},
			&cli.IntFlag{Name: "max", Value: 200, Usage: "maximum videos to collect"},
			&cli.BoolFlag{Name: "transcripts", Usage: "accepted for compatibility, transcripts are not fetched"},
			&cli.StringFlag{Name: "out", Value: "data/raw/guitar_raw.json", Usage: "output JSON path"},
			&cli.BoolFlag{Name: "parquet", Value: true, Usage: "also write a Parquet mirror next to --out"},
		},
		Action: func(c *cli.Context) error {
			f, err := a.newFetcher(c)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(c)
			defer cancel()

			start := time.Now()
			query := c.String("query")
			a.logger.Info().Str("query", query).Int("max", c.Int("max")).Msg("cli: fetch started")

			records, err := f.SearchAndFetch(ctx, query, c.Int("max"), c.Bool("transcripts"))
			if err != nil {
				return err
			}
			return a.save(c, c.String("out"), records, start)
		},
	}
}

func (a *app) levelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "fetch beginner, intermediate and advanced lesson queries into one file",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-per-level", Value: 200, Usage: "maximum videos per level query"},
			&cli.BoolFlag{Name: "transcripts", Usage: "accepted for compatibility, transcripts are not fetched"},
			&cli.StringFlag{Name: "out", Value: "data/raw/guitar_lessons_all_levels.json", Usage: "output JSON path"},
			&cli.BoolFlag{Name: "parquet", Usage: "also write a Parquet mirror next to --out"},
		},
		Action: func(c *cli.Context) error {
			f, err := a.newFetcher(c)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(c)
			defer cancel()

			start := time.Now()
			records, err := f.FetchAllLevels(ctx, youtube.DefaultLevelQueries(), c.Int("max-per-level"), c.Bool("transcripts"))
			if err != nil {
				return err
			}
			return a.save(c, c.String("out"), records, start)
		},
	}
}

func (a *app) classifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "label a single title and description without calling the API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "video title"},
			&cli.StringFlag{Name: "description", Usage: "video description"},
		},
		Action: func(c *cli.Context) error {
			res := a.classifier.Classify(c.String("title"), c.String("description"))

			w := c.App.Writer
			fmt.Fprintf(w, "level: %s\n", color.CyanString(res.Level))
			fmt.Fprintf(w, "topic: %s\n", color.YellowString(res.Topic))
			return nil
		},
	}
}

func (a *app) relabelCommand() *cli.Command {
	return &cli.Command{
		Name:  "relabel",
		Usage: "re-run the classifier over a saved JSON or Parquet file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "input .json or .parquet file"},
			&cli.StringFlag{Name: "out", Usage: "output JSON path (default: --in, or its .json sibling)"},
			&cli.BoolFlag{Name: "parquet", Usage: "also write a Parquet mirror next to --out"},
		},
		Action: func(c *cli.Context) error {
			start := time.Now()
			in := c.String("in")
			records, err := storage.Load(in)
			if err != nil {
				return err
			}

			changed := 0
			for i := range records {
				res := a.classifier.Classify(records[i].Title, records[i].Description)
				if res.Level != records[i].Level || res.Topic != records[i].Topic {
					changed++
				}
				records[i].Level = res.Level
				records[i].Topic = res.Topic
			}
			a.logger.Info().Str("in", in).Int("records", len(records)).Int("changed", changed).Msg("cli: relabelled")
			fmt.Fprintf(c.App.Writer, "Relabelled %d records, %d changed\n", len(records), changed)

			out := c.String("out")
			if out == "" {
				out = jsonSibling(in)
			}
			return a.save(c, out, records, start)
		},
	}
}

// save writes records to out and prints a per-label summary.
func (a *app) save(c *cli.Context, out string, records []youtube.VideoRecord, start time.Time) error {
	res, err := storage.Save(out, records, storage.SaveOptions{
		Parquet: c.Bool("parquet"),
		Logger:  &a.logger,
	})
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Saved %s records to %s in %s\n", color.GreenString("%d", res.Records), res.JSONPath, since(start))
	if res.ParquetPath != "" {
		fmt.Fprintf(w, "Parquet mirror: %s\n", res.ParquetPath)
	}
	if res.MirrorErr != nil {
		fmt.Fprintf(w, "%s parquet mirror failed, saved JSON only: %v\n", color.YellowString("Warning:"), res.MirrorErr)
	}
	printSummary(w, records)
	return nil
}

// printSummary tabulates record counts per level and per topic.
func printSummary(w io.Writer, records []youtube.VideoRecord) {
	if len(records) == 0 {
		return
	}

	levels := make(map[string]int)
	topics := make(map[string]int)
	for _, r := range records {
		levels[r.Level]++
		topics[r.Topic]++
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nLABEL\tVALUE\tVIDEOS")
	for _, name := range sortedKeys(levels) {
		fmt.Fprintf(tw, "level\t%s\t%d\n", name, levels[name])
	}
	for _, name := range sortedKeys(topics) {
		fmt.Fprintf(tw, "topic\t%s\t%d\n", name, topics[name])
	}
	tw.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// jsonSibling is the JSON path relabel writes when --out is not given.
func jsonSibling(in string) string {
	if strings.HasSuffix(in, ".parquet") {
		return strings.TrimSuffix(in, ".parquet") + ".json"
	}
	return in
}
