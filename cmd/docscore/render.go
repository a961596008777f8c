package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"docextract/internal/domain"
	"docextract/internal/export"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

func emit(c *cli.Context, name string, report *domain.DocumentConfidenceReport) error {
	out := io.Writer(os.Stdout)
	noColor := c.Bool("no-color")
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		out = f
		noColor = true
	}
	return render(out, c.String("format"), name, report, noColor)
}

func render(w io.Writer, format, name string, report *domain.DocumentConfidenceReport, noColor bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatText, "":
		return renderText(w, report, noColor)
	case formatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		return export.Write(w, f, name, report)
	}
}

type palette struct {
	title, header, high, medium, low, dim *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		title:  color.New(color.FgWhite, color.Bold),
		header: color.New(color.FgBlue, color.Bold),
		high:   color.New(color.FgGreen),
		medium: color.New(color.FgYellow),
		low:    color.New(color.FgRed),
		dim:    color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.header, p.high, p.medium, p.low, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

// level picks the color band for a confidence score.
func (p palette) level(conf float64) *color.Color {
	switch {
	case conf >= 0.8:
		return p.high
	case conf >= 0.5:
		return p.medium
	default:
		return p.low
	}
}

func renderText(w io.Writer, report *domain.DocumentConfidenceReport, noColor bool) error {
	p := newPalette(noColor)

	p.title.Fprintf(w, "Document type: %s\n", report.DocType)
	fmt.Fprint(w, "Overall confidence: ")
	p.level(report.OverallConfidence).Fprintf(w, "%.2f\n\n", report.OverallConfidence)

	if len(report.Fields) > 0 {
		p.header.Fprintln(w, "FIELDS")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, f := range report.Fields {
			loc := "-"
			if f.Source != nil {
				loc = fmt.Sprintf("p%d [%.0f %.0f %.0f %.0f]", f.Source.Page,
					f.Source.BBox[0], f.Source.BBox[1], f.Source.BBox[2], f.Source.BBox[3])
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", f.Name, f.Value, p.level(f.Confidence).Sprintf("%.2f", f.Confidence), loc)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	p.header.Fprintln(w, "VALIDATION")
	for _, r := range report.QA.PassedRules {
		p.high.Fprintf(w, "  ✓ %s\n", r)
	}
	for _, r := range report.QA.FailedRules {
		p.low.Fprintf(w, "  ✗ %s\n", r)
	}
	if report.QA.Notes != "" {
		p.dim.Fprintf(w, "  %s\n", report.QA.Notes)
	}
	return nil
}
