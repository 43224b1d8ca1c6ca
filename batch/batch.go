package batch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/pcdecode/decompiler"
	"github.com/wippyai/pcdecode/errors"
	"github.com/wippyai/pcdecode/manifest"
)

// Options configures a Runner.
type Options struct {
	Logger  *zap.Logger
	Metrics decompiler.Metrics
	// Trace, when set, receives the tokens of every job. It is called from
	// worker goroutines and must be safe for concurrent use.
	Trace func(job string, ev decompiler.TraceEvent)
	// Workers bounds the number of concurrent decodes. Zero means one.
	Workers    int
	HeaderSize int
	// Verify compares each output with the job's expected copy.
	Verify bool
}

// Job is one program to decode.
type Job struct {
	manifest.Program
	// OutputPath receives the decoded text when set.
	OutputPath string
}

// Result is the outcome of one Job.
type Result struct {
	Err     error
	Name    string
	Output  string
	Path    string
	Elapsed time.Duration
}

// Runner decodes jobs on a bounded worker pool.
type Runner struct {
	opts Options
	log  *zap.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Runner{opts: opts, log: log}
}

// Jobs returns one Job per manifest program, writing under the manifest's
// output directory.
func Jobs(m *manifest.Manifest) []Job {
	jobs := make([]Job, len(m.Programs))
	for i, p := range m.Programs {
		jobs[i] = Job{Program: p, OutputPath: m.OutputPath(p)}
	}
	return jobs
}

// RunManifest decodes every program of m using the manifest's header size and
// worker count unless opts overrides them.
func RunManifest(ctx context.Context, m *manifest.Manifest, opts Options) ([]Result, error) {
	if opts.Workers == 0 {
		opts.Workers = m.Workers
	}
	if opts.HeaderSize == 0 {
		opts.HeaderSize = m.HeaderSize
	}
	return NewRunner(opts).Run(ctx, Jobs(m))
}

// Run decodes jobs concurrently. A failing job does not stop the others;
// results are returned in job order and the error combines every failure.
// Jobs not started before ctx is done fail with a canceled error.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i := range jobs {
		i := i // per-iteration copy (go.mod targets Go 1.21 loop semantics)
		results[i].Name = jobs[i].Name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = errors.New(errors.PhaseBatch, errors.KindCanceled).
					Program(jobs[i].Name).
					Detail("job not started").
					Cause(err).
					Build()
				return nil
			}
			results[i] = r.runJob(jobs[i])
			return nil
		})
	}
	_ = g.Wait()

	var err error
	for _, res := range results {
		err = multierr.Append(err, res.Err)
	}

	r.log.Debug("batch finished",
		zap.Int("jobs", len(jobs)),
		zap.Int("failed", len(multierr.Errors(err))))
	return results, err
}

func (r *Runner) runJob(job Job) Result {
	res := Result{Name: job.Name}
	start := time.Now()

	out, err := r.decode(job)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = errors.InProgram(job.Name, err)
		r.log.Warn("decode failed", zap.String("program", job.Name), zap.Error(err))
		return res
	}
	res.Output = out

	if job.OutputPath != "" {
		if err := writeOutput(job.OutputPath, out); err != nil {
			res.Err = errors.InProgram(job.Name, err)
			return res
		}
		res.Path = job.OutputPath
	}

	if r.opts.Verify && job.Expected != "" {
		want, err := job.ReadExpected()
		if err != nil {
			res.Err = errors.InProgram(job.Name, err)
			return res
		}
		if err := Verify(job.Name, out, want); err != nil {
			res.Err = err
			r.log.Warn("output differs from reference copy",
				zap.String("program", job.Name), zap.Error(err))
			return res
		}
	}

	r.log.Debug("decoded",
		zap.String("program", job.Name),
		zap.Int("chars", len(out)),
		zap.Duration("elapsed", res.Elapsed))
	return res
}

func (r *Runner) decode(job Job) (string, error) {
	program, err := job.ReadBytecode()
	if err != nil {
		return "", err
	}
	symbols, err := job.SymbolTable()
	if err != nil {
		return "", err
	}

	opts := decompiler.Options{
		HeaderSize: r.opts.HeaderSize,
		Logger:     r.log.With(zap.String("program", job.Name)),
		Metrics:    r.opts.Metrics,
	}
	if r.opts.Trace != nil {
		name := job.Name
		opts.Trace = func(ev decompiler.TraceEvent) { r.opts.Trace(name, ev) }
	}
	return decompiler.DecompileWithOptions(program, symbols, opts)
}

func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.PhaseBatch, errors.KindInvalidInput, err, "create output directory")
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errors.Wrap(errors.PhaseBatch, errors.KindInvalidInput, err, "write output")
	}
	return nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
