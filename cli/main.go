package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"google.golang.org/api/option"

	"ytlessons/classify"
	"ytlessons/config"
	"ytlessons/internal/logging"
	"ytlessons/youtube"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		stop()
		os.Exit(1)
	}
}

// app holds state shared by every command, set up once in before.
type app struct {
	cfg        *config.Config
	logger     zerolog.Logger
	runID      string
	classifier *classify.Classifier
}

func newApp(stdout, stderr io.Writer) *cli.App {
	a := &app{}
	return &cli.App{
		Name:      "ytlessons",
		Usage:     "fetch YouTube guitar lesson metadata and label it by level and topic",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file (default: ./ytlessons.json or ~/.config/ytlessons/ytlessons.json)",
			},
			&cli.StringFlag{
				Name:  "keywords",
				Usage: "JSON file overriding the level/topic keyword tables",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "overall deadline for API work (0 = none)",
			},
			&cli.StringFlag{
				Name:   "api-endpoint",
				Usage:  "override the YouTube Data API base URL",
				Hidden: true,
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.fetchCommand(),
			a.levelsCommand(),
			a.classifyCommand(),
			a.relabelCommand(),
		},
		EnableBashCompletion: true,
	}
}

// before loads configuration, installs the logger and builds the classifier.
func (a *app) before(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("keywords") {
		cfg.KeywordsFile = c.String("keywords")
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger, a.runID = logging.Init(level, c.App.ErrWriter)

	tables := classify.DefaultTables()
	if cfg.KeywordsFile != "" {
		tables, err = classify.LoadTables(cfg.KeywordsFile)
		if err != nil {
			return err
		}
		a.logger.Debug().Str("path", cfg.KeywordsFile).Msg("cli: loaded keyword tables")
	}
	a.classifier = classify.New(classify.Options{
		Tables:         tables,
		LevelThreshold: cfg.LevelThreshold,
		TopicThreshold: cfg.TopicThreshold,
		Logger:         &a.logger,
	})
	return nil
}

// newFetcher builds a fetcher from the loaded configuration.
func (a *app) newFetcher(c *cli.Context) (*youtube.Fetcher, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	opts := []youtube.FetcherOption{
		youtube.WithPause(a.cfg.RateLimitPause),
		youtube.WithPageSize(a.cfg.SearchPageSize),
		youtube.WithBatchSize(a.cfg.MetadataBatchSize),
		youtube.WithClassifier(a.classifier),
		youtube.WithLogger(a.logger),
	}
	if endpoint := c.String("api-endpoint"); endpoint != "" {
		opts = append(opts, youtube.WithClientOptions(option.WithEndpoint(endpoint)))
	}
	return youtube.NewFetcher(a.cfg.APIKey, opts...)
}

// context applies the global --timeout to the command context.
func (a *app) context(c *cli.Context) (context.Context, context.CancelFunc) {
	if d := c.Duration("timeout"); d > 0 {
		return context.WithTimeout(c.Context, d)
	}
	return context.WithCancel(c.Context)
}

// since formats an elapsed time for summaries.
func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
