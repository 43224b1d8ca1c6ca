package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/pcdecode/batch"
	"github.com/wippyai/pcdecode/decompiler"
	"github.com/wippyai/pcdecode/manifest"
)

type config struct {
	in          string
	refs        string
	manifest    string
	out         string
	expected    string
	workers     int
	header      int
	verify      bool
	trace       bool
	verbose     bool
	interactive bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "Path to a program bytecode file")
	flag.StringVar(&cfg.refs, "refs", "", "Symbol file (YAML) for -in")
	flag.StringVar(&cfg.manifest, "manifest", "", "Batch manifest (YAML)")
	flag.StringVar(&cfg.out, "out", "", "Output file for -in, output directory for -manifest")
	flag.StringVar(&cfg.expected, "expected", "", "Reference copy to verify -in against")
	flag.IntVar(&cfg.workers, "workers", 0, "Concurrent decodes for -manifest (default from manifest)")
	flag.IntVar(&cfg.header, "header", 0, "Header bytes before the first token (default 37)")
	flag.BoolVar(&cfg.verify, "verify", false, "Compare output with the expected copy")
	flag.BoolVar(&cfg.trace, "trace", false, "Dump every token to stderr")
	flag.BoolVar(&cfg.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&cfg.interactive, "i", false, "Interactive viewer")
	flag.Parse()

	if (cfg.in == "") == (cfg.manifest == "") {
		fmt.Fprintln(os.Stderr, "Usage: pcdecode -in <program.bin> [-refs refs.yaml] [-out file] [-expected file]")
		fmt.Fprintln(os.Stderr, "       pcdecode -manifest <batch.yaml> [-out dir] [-workers n] [-verify]")
		fmt.Fprintln(os.Stderr, "       add -i for the interactive viewer")
		os.Exit(1)
	}

	log, err := newLogger(cfg.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	decompiler.SetLogger(log)
	manifest.SetLogger(log)
	batch.SetLogger(log)

	if cfg.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", e)
		}
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(ctx context.Context, cfg config, stdout, stderr io.Writer) error {
	var stats decompiler.Stats
	opts := batch.Options{
		Workers:    cfg.workers,
		HeaderSize: cfg.header,
		Verify:     cfg.verify || cfg.expected != "",
		Metrics:    &stats,
	}
	if cfg.trace {
		opts.Trace = newTracer(stderr)
	}

	if cfg.in != "" {
		return runSingle(ctx, cfg, opts, stdout)
	}

	m, err := manifest.Load(cfg.manifest)
	if err != nil {
		return err
	}
	if cfg.out != "" {
		m.OutputDir = cfg.out
	}

	results, err := batch.RunManifest(ctx, m, opts)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(stdout, "FAIL %s\n", r.Name)
		case r.Path != "":
			fmt.Fprintf(stdout, "ok   %s -> %s\n", r.Name, r.Path)
		default:
			fmt.Fprintf(stdout, "ok   %s\n", r.Name)
		}
	}

	snap := stats.Snapshot()
	fmt.Fprintf(stdout, "\n%d decoded, %d failed, %d chars in %s\n",
		snap.Decodes-snap.Failures, len(batch.Failed(results)), snap.Chars, snap.Elapsed)
	return err
}

// runSingle decodes one program and prints it unless -out names a file.
func runSingle(ctx context.Context, cfg config, opts batch.Options, stdout io.Writer) error {
	job := batch.Job{
		Program: manifest.Program{
			Name:     programName(cfg.in),
			Bytecode: cfg.in,
			Symbols:  cfg.refs,
			Expected: cfg.expected,
		},
		OutputPath: cfg.out,
	}

	results, err := batch.NewRunner(opts).Run(ctx, []batch.Job{job})
	if err != nil {
		return err
	}
	if cfg.out == "" {
		fmt.Fprintln(stdout, results[0].Output)
	}
	return nil
}

func programName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// newTracer returns a batch trace callback that dumps events to w.
func newTracer(w io.Writer) func(string, decompiler.TraceEvent) {
	dump := spew.ConfigState{
		Indent:                  " ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	var mu sync.Mutex
	return func(job string, ev decompiler.TraceEvent) {
		mu.Lock()
		defer mu.Unlock()
		dump.Fprintf(w, "%s %+v\n", job, ev)
	}
}
