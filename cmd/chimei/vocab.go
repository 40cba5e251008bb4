package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/chimei/internal/vocab"
)

func vocabCmd() *cli.Command {
	var asYAML bool

	return &cli.Command{
		Name:  "vocab",
		Usage: "Print the active vocabulary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "vocab",
				Usage:       "vocabulary file (yaml or json); defaults to the built-in Japanese table",
				Destination: &vocabPath,
			},
			&cli.BoolFlag{
				Name:        "yaml",
				Usage:       "print as a yaml list that --vocab can read back",
				Destination: &asYAML,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cfg := LoadConfig(); cfg.Vocab != "" && !cmd.IsSet("vocab") {
				vocabPath = cfg.Vocab
			}
			v, err := loadVocabulary(vocabPath)
			if err != nil {
				return err
			}
			if asYAML {
				out, err := yaml.Marshal(v.Symbols())
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(out)
				return err
			}
			return printVocab(v)
		},
	}
}

func printVocab(v *vocab.Vocabulary) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "INDEX\tSYMBOL")
	for i, sym := range v.Symbols() {
		if i == vocab.Terminator {
			sym += " (terminator)"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\n", i, sym)
	}
	return tw.Flush()
}
