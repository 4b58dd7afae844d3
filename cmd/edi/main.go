package main

import (
	"fmt"
	"os"
	"time"

	"github.com/oarkflow/json"
	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/edi"
	"github.com/oarkflow/edi/pkg/config"
	"github.com/oarkflow/edi/pkg/report"
)

func main() {
	app := &cli.App{
		Name:  "edi",
		Usage: "Parse and validate X12 healthcare interchanges",
		Commands: []*cli.Command{
			{
				Name:  "parse",
				Usage: "Parse a file and print the rendered document",
				Flags: []cli.Flag{
					fileFlag(),
					configFlag(),
					&cli.BoolFlag{
						Name:  "detect",
						Usage: "Read separators from the interchange header",
					},
				},
				Action: runParse,
			},
			{
				Name:   "validate",
				Usage:  "Parse a file and run the rule engine, printing findings",
				Flags:  []cli.Flag{fileFlag(), configFlag()},
				Action: runValidate,
			},
			{
				Name:   "report",
				Usage:  "Summarize remittance claims with aging buckets",
				Flags:  []cli.Flag{fileFlag(), configFlag()},
				Action: runReport,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.DefaultLogger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to the X12 file",
		Required: true,
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML configuration file",
	}
}

func buildParser(c *cli.Context) (*edi.Parser, error) {
	var opts []edi.Option
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, edi.WithConfig(cfg))
	}
	if c.Bool("detect") {
		opts = append(opts, edi.WithDetectDelimiters())
	}
	return edi.New(opts...)
}

func readInput(c *cli.Context) ([]byte, error) {
	return os.ReadFile(c.String("file"))
}

func runParse(c *cli.Context) error {
	runID := xid.New().String()
	logger := log.DefaultLogger
	p, err := buildParser(c)
	if err != nil {
		return err
	}
	raw, err := readInput(c)
	if err != nil {
		return err
	}
	started := time.Now()
	doc, findings, err := p.Parse(raw)
	if err != nil {
		return err
	}
	logger.Info().
		Str("run_id", runID).
		Str("file", c.String("file")).
		Int("interchanges", len(doc.Interchanges)).
		Int("findings", len(findings)).
		Dur("duration", time.Since(started)).
		Msg("parse complete")
	return printJSON(map[string]any{
		"document": doc.Render(),
		"findings": findings,
	})
}

func runValidate(c *cli.Context) error {
	runID := xid.New().String()
	logger := log.DefaultLogger
	p, err := buildParser(c)
	if err != nil {
		return err
	}
	raw, err := readInput(c)
	if err != nil {
		return err
	}
	started := time.Now()
	doc, result, err := p.ParseAndValidate(raw)
	if err != nil {
		return err
	}
	logger.Info().
		Str("run_id", runID).
		Str("file", c.String("file")).
		Int("interchanges", len(doc.Interchanges)).
		Int("findings", len(result.Findings)).
		Bool("valid", result.Valid).
		Dur("duration", time.Since(started)).
		Msg("validation complete")
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Valid {
		return cli.Exit("document has error findings", 2)
	}
	return nil
}

func runReport(c *cli.Context) error {
	p, err := buildParser(c)
	if err != nil {
		return err
	}
	raw, err := readInput(c)
	if err != nil {
		return err
	}
	doc, _, err := p.Parse(raw)
	if err != nil {
		return err
	}
	summary := report.Build(doc, time.Now())
	log.DefaultLogger.Info().
		Str("file", c.String("file")).
		Int("claims", summary.Claims).
		Str("total_paid", report.FormatAmount(summary.TotalPaid)).
		Msg("report complete")
	return printJSON(summary)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
