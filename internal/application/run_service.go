package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/tsukasaI/fini/internal/domain"
	"github.com/tsukasaI/fini/internal/domain/normalize"
)

// ErrInvalidUTF8 is returned when piped input is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// RunOptions configures a single run over a set of paths.
type RunOptions struct {
	Check    bool
	Jobs     int
	Config   normalize.Config
	Exclude  []string
	Progress domain.ProgressReporter
}

// RunService collects files, normalizes them in parallel and, outside check
// mode, writes the results back.
type RunService struct {
	walker domain.FileWalker
	logger *log.Logger
}

func NewRunService(walker domain.FileWalker, logger *log.Logger) *RunService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RunService{walker: walker, logger: logger}
}

// Run processes every file under paths. Per-file failures are recorded in
// the report; only path collection and cancellation abort the run.
func (s *RunService) Run(ctx context.Context, paths []string, opts RunOptions) (*domain.RunReport, error) {
	files, err := s.walker.Walk(paths, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("collecting files: %w", err)
	}
	s.logger.Debug("collected files", "count", len(files))

	report := &domain.RunReport{Mode: modeName(opts.Check), Files: make([]domain.FileReport, len(files))}

	progress := opts.Progress
	if progress == nil {
		progress = nopProgress{}
	}
	progress.Start(len(files))
	defer progress.Finish()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Files[i] = s.ProcessFile(path, opts.Check, opts.Config)
			progress.Advance(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Tally()
	return report, nil
}

// ProcessFile normalizes one file. In check mode the file is never written.
func (s *RunService) ProcessFile(path string, check bool, cfg normalize.Config) domain.FileReport {
	fr := domain.FileReport{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return s.failed(fr, fmt.Errorf("reading %s: %w", path, err))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s.failed(fr, fmt.Errorf("reading %s: %w", path, err))
	}

	switch {
	case len(data) == 0:
		return skipped(fr, domain.SkipEmpty)
	case domain.IsBinary(data):
		fr.MIMEType = mimetype.Detect(data).String()
		return skipped(fr, domain.SkipBinary)
	case !utf8.Valid(data):
		return skipped(fr, domain.SkipNonUTF8)
	}

	res := normalize.Normalize(string(data), cfg)
	fr.Result = res
	fr.Problems = domain.NewProblemViews(res.Problems)

	if check {
		fr.Status = domain.StatusClean
		if res.HasIssues() {
			fr.Status = domain.StatusProblems
		}
		return fr
	}

	if res.HasChanges() {
		if err := os.WriteFile(path, []byte(res.Content), info.Mode().Perm()); err != nil {
			return s.failed(fr, fmt.Errorf("writing %s: %w", path, err))
		}
		s.logger.Debug("fixed file", "path", path, "problems", len(res.Problems))
		fr.Status = domain.StatusFixed
		return fr
	}

	fr.Status = domain.StatusClean
	if len(res.Problems) > 0 {
		fr.Status = domain.StatusFlagged
	}
	return fr
}

// NormalizeReader normalizes all of r. Used for piped input, which is
// never written anywhere but the caller's output.
func (s *RunService) NormalizeReader(r io.Reader, cfg normalize.Config) (*normalize.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	return normalize.Normalize(string(data), cfg), nil
}

func (s *RunService) failed(fr domain.FileReport, err error) domain.FileReport {
	s.logger.Error("processing file", "path", fr.Path, "err", err)
	fr.Status = domain.StatusError
	fr.Error = err.Error()
	return fr
}

func skipped(fr domain.FileReport, reason string) domain.FileReport {
	fr.Status = domain.StatusSkipped
	fr.SkipReason = reason
	return fr
}

func modeName(check bool) string {
	if check {
		return "check"
	}
	return "fix"
}

type nopProgress struct{}

func (nopProgress) Start(int)      {}
func (nopProgress) Advance(string) {}
func (nopProgress) Finish()        {}
