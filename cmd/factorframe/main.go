// Command factorframe runs a transform or a pipeline definition over a
// table file and writes the result.
//
//	factorframe -in prices.csv -index date -op pct_change -periods 20 -out momentum.csv
//	factorframe -in prices.xlsx -pipeline momentum.yaml -out ranks.arrow
//
// When -in is a directory every table file in it is processed and -out
// names the output directory.
//
//	factorframe -in reports/ -pipeline momentum.yaml -out ranks/ -format .arrow -jobs 4
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"factorframe/internal/config"
	"factorframe/internal/dataprocessing"
	"factorframe/internal/exporter"
	"factorframe/internal/files"
	"factorframe/internal/infrastructure"
	"factorframe/internal/pipeline"
	"factorframe/internal/validation"
	"factorframe/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// optionalFloat is a float flag that remembers whether it was set.
type optionalFloat struct{ v *float64 }

func (f *optionalFloat) String() string {
	if f.v == nil {
		return ""
	}
	return strconv.FormatFloat(*f.v, 'g', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.v = &v
	return nil
}

// optionalInt is an int flag that remembers whether it was set.
type optionalInt struct{ v *int }

func (f *optionalInt) String() string {
	if f.v == nil {
		return ""
	}
	return strconv.Itoa(*f.v)
}

func (f *optionalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	f.v = &v
	return nil
}

type options struct {
	in, out      string
	pipelineFile string
	op           string
	window       int
	periods      optionalInt
	fill         optionalFloat
	min, max     optionalFloat
	output       string

	index          string
	sheet          string
	stripThousands bool
	missingToken   string
	bom            bool

	format string
	jobs   int

	parallelism int
	logLevel    string
	list        bool
	version     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("factorframe", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.in, "in", "", "input table (.csv, .xlsx, .arrow, .ipc)")
	fs.StringVar(&o.out, "out", "", "output table; the extension selects the format")
	fs.StringVar(&o.pipelineFile, "pipeline", "", "YAML pipeline definition")
	fs.StringVar(&o.op, "op", "", "single operation to apply instead of -pipeline")
	fs.IntVar(&o.window, "window", 0, "window length for rolling_max and rolling_std")
	fs.Var(&o.periods, "periods", "periods for pct_change and shift")
	fs.Var(&o.fill, "fill", "fill value for rows vacated by shift")
	fs.Var(&o.min, "min", "lower bound for mask_between")
	fs.Var(&o.max, "max", "upper bound for mask_between")
	fs.StringVar(&o.output, "output", "", "result column name for row_mean")

	fs.StringVar(&o.index, "index", "", "column holding row labels, e.g. a date")
	fs.StringVar(&o.sheet, "sheet", "", "worksheet for Excel input and output")
	fs.BoolVar(&o.stripThousands, "strip-thousands", false, "remove ',' thousands separators from input numbers")
	fs.StringVar(&o.missingToken, "missing", "", "text written for missing cells")
	fs.BoolVar(&o.bom, "bom", false, "prefix CSV output with a UTF-8 BOM")

	fs.StringVar(&o.format, "format", "", "output extension in directory mode; empty keeps each input's")
	fs.IntVar(&o.jobs, "jobs", 1, "files processed concurrently in directory mode")

	fs.IntVar(&o.parallelism, "parallelism", 1, "chunks each transform fans out to")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&o.list, "list", false, "list available operations and exit")
	fs.BoolVar(&o.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return &o, nil
}

func (o *options) validate() error {
	if o.list || o.version {
		return nil
	}
	switch {
	case o.in == "":
		return errors.New("-in is required")
	case o.out == "":
		return errors.New("-out is required")
	case o.pipelineFile == "" && o.op == "":
		return errors.New("one of -pipeline or -op is required")
	case o.pipelineFile != "" && o.op != "":
		return errors.New("-pipeline and -op are mutually exclusive")
	case o.parallelism < 1:
		return fmt.Errorf("-parallelism must be at least 1, got %d", o.parallelism)
	case o.jobs < 1:
		return fmt.Errorf("-jobs must be at least 1, got %d", o.jobs)
	}
	return nil
}

func (o *options) definition() (*pipeline.Definition, error) {
	if o.pipelineFile != "" {
		return pipeline.LoadDefinition(o.pipelineFile)
	}
	def := &pipeline.Definition{
		Name: o.op,
		Steps: []pipeline.StepConfig{{
			Op:      o.op,
			Window:  o.window,
			Periods: o.periods.v,
			Fill:    o.fill.v,
			Min:     o.min.v,
			Max:     o.max.v,
			Output:  o.output,
		}},
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if err := o.validate(); err != nil {
		return err
	}

	if o.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	logger, _, err := infrastructure.NewLogger(config.LoggingConfig{
		Level:  o.logLevel,
		Format: "text",
		Output: "console",
	}, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	ctx = infrastructure.EnsureTraceID(ctx)

	runner, err := pipeline.NewRunner(nil, logger, pipeline.WithParallelism(o.parallelism))
	if err != nil {
		return err
	}

	if o.list {
		for _, step := range runner.Registry().List() {
			fmt.Fprintf(stdout, "%-16s %s\n", step.ID(), step.Description())
		}
		return nil
	}

	def, err := o.definition()
	if err != nil {
		return err
	}
	if err := runner.Check(def); err != nil {
		return err
	}

	if info, err := os.Stat(o.in); err == nil && info.IsDir() {
		return runBatch(ctx, o, runner, def, logger)
	}
	return processFile(ctx, o, runner, def, o.in, o.out, logger)
}

// runBatch processes every table file in o.in, o.jobs at a time. The
// first failure cancels files not yet started.
func runBatch(ctx context.Context, o *options, runner *pipeline.Runner, def *pipeline.Definition, logger *slog.Logger) error {
	inputs, err := files.NewDiscovery("").FindTableFiles(o.in)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no table files found in %s", o.in)
	}
	logger.InfoContext(ctx, "batch started",
		slog.String("directory", o.in),
		slog.Int("files", len(inputs)),
		slog.Int("jobs", o.jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.jobs)
	for _, in := range inputs {
		out := files.OutputPath(in, o.out, o.format)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := processFile(ctx, o, runner, def, in.Path, out, logger); err != nil {
				return fmt.Errorf("%s: %w", in.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func processFile(ctx context.Context, o *options, runner *pipeline.Runner, def *pipeline.Definition, in, out string, logger *slog.Logger) error {
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputTable(in); err != nil {
		return err
	}
	if err := validator.ValidateOutputTable(out); err != nil {
		return err
	}

	start := time.Now()
	ds, err := dataprocessing.LoadFile(in, dataprocessing.ParseOptions{
		IndexColumn:    o.index,
		Sheet:          o.sheet,
		StripThousands: o.stripThousands,
	})
	if err != nil {
		return err
	}
	rows, cols := ds.Table.Shape()
	logger.InfoContext(ctx, "input loaded",
		slog.String("file", in),
		slog.Int("rows", rows),
		slog.Int("cols", cols))

	res, err := runner.Run(ctx, ds.Table, def)
	if err != nil {
		return err
	}

	result, err := ds.WithTable(res.Table)
	if err != nil {
		return err
	}
	if err := exporter.SaveFile(out, result, exporter.WriteOptions{
		MissingToken: o.missingToken,
		BOMPrefix:    o.bom,
		Sheet:        o.sheet,
	}); err != nil {
		return err
	}

	logger.InfoContext(ctx, "output written",
		slog.String("file", out),
		slog.String("pipeline", res.Name),
		slog.Int("steps", len(res.Steps)),
		slog.Int("missing", res.Table.MissingCount()),
		slog.Duration("duration", time.Since(start)))
	return nil
}
