package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/chimei/internal/inference"
	"github.com/samcharles93/chimei/internal/logger"
)

type generateOutput struct {
	Seed  int64    `json:"seed"`
	Names []string `json:"names"`
}

func generateCmd() *cli.Command {
	var (
		s      generateSettings
		raw    bool
		asJSON bool
	)

	flags := append(commonModelFlags(),
		&cli.IntFlag{
			Name:        "count",
			Aliases:     []string{"n"},
			Usage:       "number of names to generate",
			Value:       10,
			Destination: &s.count,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "sampling seed (random when unset)",
			Destination: &s.seed,
		},
		&cli.IntFlag{
			Name:        "workers",
			Usage:       "names generated in parallel",
			Value:       1,
			Destination: &s.workers,
		},
		&cli.StringFlag{
			Name:        "on-error",
			Usage:       "what to do when a name fails (abort, skip)",
			Value:       inference.FailAbort.String(),
			Destination: &s.onError,
		},
		&cli.BoolFlag{
			Name:        "raw",
			Usage:       "print names exactly as sampled, without capitalization",
			Destination: &raw,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print the batch as JSON",
			Destination: &asJSON,
		},
	)

	return &cli.Command{
		Name:   "generate",
		Usage:  "Generate a batch of names",
		Flags:  append(append(flags, samplingFlags(&s.sampling)...), loggingFlags()...),
		Before: installLogger,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			applyGenerateConfig(cmd, LoadConfig(), &s)
			if !cmd.IsSet("seed") && !s.seedSet {
				s.seed = rand.Int63()
			}
			policy, err := inference.ParseFailurePolicy(s.onError)
			if err != nil {
				return err
			}

			orch, _, err := newOrchestrator(ctx, s.sampling.apply(inference.Config{
				Seed:      s.seed,
				Workers:   s.workers,
				OnFailure: policy,
			}))
			if err != nil {
				return err
			}
			defer func() {
				if err := orch.Close(); err != nil {
					log.Warn("close engine", "error", err)
				}
			}()

			log.Debug("generating names", "count", s.count, "seed", s.seed, "workers", s.workers)
			names, err := orch.GenerateNames(ctx, s.count)
			if err != nil {
				return err
			}
			if !raw {
				names = inference.CapitalizeAll(names)
			}
			if asJSON {
				return writeNamesJSON(os.Stdout, s.seed, names)
			}
			writeNames(os.Stdout, names)
			return nil
		},
	}
}

func writeNamesJSON(w io.Writer, seed int64, names []string) error {
	if names == nil {
		names = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(generateOutput{Seed: seed, Names: names})
}

// writeNames prints one name per line with the first one highlighted.
func writeNames(w io.Writer, names []string) {
	featured := color.New(color.FgHiCyan, color.Bold)
	for i, name := range names {
		if i == 0 {
			_, _ = featured.Fprintln(w, name)
			continue
		}
		_, _ = fmt.Fprintln(w, name)
	}
}
