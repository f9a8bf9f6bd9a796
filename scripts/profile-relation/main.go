// profile-relation prints the minimal unique column combinations of each CSV
// file and the unary inclusion dependencies across all of them.
//
// Usage: go run ./scripts/profile-relation [flags] <file.csv> [more.csv...]
//
// Flags:
//
//	-format       Output format: yaml or json (default: yaml)
//	-delimiter    Field delimiter (default: ",")
//	-null         Cell text read as null (default: none)
//	-parallelism  Concurrent PLI intersections per lattice level (default: 1)
//	-nary         Request n-ary inclusion dependencies (not supported)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/ekaya-profiler/pkg/adapters/datasource/csv"
	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
	"github.com/ekaya-inc/ekaya-profiler/pkg/profiling"
)

// Report is the CLI output.
type Report struct {
	Relations []RelationReport `json:"relations" yaml:"relations"`
	INDs      []string         `json:"inds" yaml:"inds"`
}

// RelationReport summarizes one file.
type RelationReport struct {
	Name    string     `json:"name" yaml:"name"`
	Rows    int        `json:"rows" yaml:"rows"`
	Columns int        `json:"columns" yaml:"columns"`
	UCCs    [][]string `json:"uccs" yaml:"uccs"`
}

type options struct {
	format      string
	delimiter   string
	nullToken   string
	parallelism int
	nary        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.format, "format", "yaml", "Output format: yaml or json")
	flag.StringVar(&opts.delimiter, "delimiter", ",", "Field delimiter")
	flag.StringVar(&opts.nullToken, "null", "", "Cell text read as null")
	flag.IntVar(&opts.parallelism, "parallelism", 1, "Concurrent PLI intersections per lattice level")
	flag.BoolVar(&opts.nary, "nary", false, "Request n-ary inclusion dependencies (not supported)")
	flag.Parse()

	files := flag.Args()
	if len(files) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-nary] [-format yaml|json] <file.csv> [more.csv...]\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(context.Background(), os.Stdout, files, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, files []string, opts options) error {
	if opts.format != "yaml" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (want yaml or json)", opts.format)
	}
	if utf8.RuneCountInString(opts.delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", opts.delimiter)
	}
	delimiter, _ := utf8.DecodeRuneInString(opts.delimiter)

	logger := zap.NewNop()
	relations := make([]*models.Relation, 0, len(files))
	for _, path := range files {
		loader := csv.NewLoader(&csv.Config{
			Path:      path,
			Delimiter: delimiter,
			NullToken: opts.nullToken,
			HasHeader: true,
		}, logger)
		rel, err := loader.LoadRelation(ctx, "")
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		relations = append(relations, rel)
	}

	report, err := buildReport(ctx, relations, opts.parallelism, opts.nary, logger)
	if err != nil {
		return err
	}
	return writeReport(w, report, opts.format)
}

func buildReport(ctx context.Context, relations []*models.Relation, parallelism int, nary bool, logger *zap.Logger) (*Report, error) {
	uccProfiler := profiling.NewUCCProfiler(profiling.UCCProfilerConfig{Parallelism: parallelism}, logger)

	report := &Report{Relations: make([]RelationReport, 0, len(relations)), INDs: []string{}}
	for _, rel := range relations {
		uccs, err := uccProfiler.Profile(ctx, rel)
		if err != nil {
			return nil, fmt.Errorf("profile uccs of %s: %w", rel.Name, err)
		}
		names := make([][]string, len(uccs))
		for i, u := range uccs {
			names[i] = u.Names()
		}
		report.Relations = append(report.Relations, RelationReport{
			Name:    rel.Name,
			Rows:    rel.RowCount(),
			Columns: rel.ColumnCount(),
			UCCs:    names,
		})
	}

	inds, err := profiling.NewINDProfiler(logger).Profile(ctx, relations, nary)
	if err != nil {
		return nil, fmt.Errorf("profile inds: %w", err)
	}
	for _, ind := range inds {
		report.INDs = append(report.INDs, ind.String())
	}
	return report, nil
}

func writeReport(w io.Writer, report *Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
