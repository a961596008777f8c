package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	outputFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   formatText,
			Usage:   "output format: text, json, yaml, csv, xlsx",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the report to this file instead of stdout",
		},
		&cli.StringFlag{
			Name:  "fields",
			Usage: "comma-separated top-level fields to keep in the report",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored text output",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "warn",
			Usage: "log level for diagnostics written to stderr",
		},
	}

	return &cli.App{
		Name:  "docscore",
		Usage: "score document extractions and report per-field confidence",
		Commands: []*cli.Command{
			{
				Name:      "score",
				Usage:     "score an existing extraction without OCR or LLM calls",
				ArgsUsage: "<request.json>",
				Flags:     outputFlags,
				Action:    ScoreAction,
			},
			{
				Name:      "extract",
				Usage:     "run OCR, classification, extraction and scoring on a document",
				ArgsUsage: "<document.pdf|png|jpg|tiff|bmp|gif>",
				Flags:     outputFlags,
				Action:    ExtractAction,
			},
		},
	}
}
