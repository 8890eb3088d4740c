package domain

import (
	"bytes"

	"github.com/tsukasaI/fini/internal/domain/normalize"
)

// FileStatus is the outcome of processing one file.
type FileStatus string

const (
	StatusClean    FileStatus = "clean"
	StatusProblems FileStatus = "problems"
	StatusFixed    FileStatus = "fixed"
	StatusFlagged  FileStatus = "flagged"
	StatusSkipped  FileStatus = "skipped"
	StatusError    FileStatus = "error"
)

// Skip reasons.
const (
	SkipEmpty   = "empty"
	SkipBinary  = "binary"
	SkipNonUTF8 = "non-UTF-8"
)

// FileReport describes what happened to a single file.
type FileReport struct {
	Path       string            `json:"path"`
	Status     FileStatus        `json:"status"`
	SkipReason string            `json:"skip_reason,omitempty"`
	MIMEType   string            `json:"mime_type,omitempty"`
	Problems   []ProblemView     `json:"problems,omitempty"`
	Error      string            `json:"error,omitempty"`
	Result     *normalize.Result `json:"-"`
}

// ProblemView is a Problem flattened for JSON output.
type ProblemView struct {
	normalize.Problem
	Message       string `json:"message"`
	DetectionOnly bool   `json:"detection_only"`
}

// NewProblemViews converts problems for reporting.
func NewProblemViews(problems []normalize.Problem) []ProblemView {
	if len(problems) == 0 {
		return nil
	}
	out := make([]ProblemView, len(problems))
	for i, p := range problems {
		out[i] = ProblemView{Problem: p, Message: p.Message(), DetectionOnly: p.IsDetectionOnly()}
	}
	return out
}

// Warnings returns the problems surfaced as warnings in fix mode: full-width
// spaces and every detection-only finding.
func Warnings(r *normalize.Result) []normalize.Problem {
	if r == nil {
		return nil
	}
	var out []normalize.Problem
	for _, p := range r.Problems {
		if p.Kind == normalize.KindFullWidthSpace || p.IsDetectionOnly() {
			out = append(out, p)
		}
	}
	return out
}

// RunReport aggregates the outcome of a run.
type RunReport struct {
	Mode              string       `json:"mode"`
	Files             []FileReport `json:"files"`
	FilesChecked      int          `json:"files_checked"`
	FilesFixed        int          `json:"files_fixed"`
	FilesWithProblems int          `json:"files_with_problems"`
	FilesSkipped      int          `json:"files_skipped"`
	FilesFailed       int          `json:"files_failed"`
	Warnings          int          `json:"warnings"`
}

// HasProblems reports whether check mode should fail.
func (r *RunReport) HasProblems() bool {
	return r.FilesWithProblems > 0
}

// Tally recomputes the counters from Files.
func (r *RunReport) Tally() {
	r.FilesChecked, r.FilesFixed, r.FilesWithProblems = 0, 0, 0
	r.FilesSkipped, r.FilesFailed, r.Warnings = 0, 0, 0

	for _, f := range r.Files {
		switch f.Status {
		case StatusSkipped:
			r.FilesSkipped++
			continue
		case StatusError:
			r.FilesFailed++
			continue
		case StatusProblems:
			r.FilesWithProblems++
		case StatusFixed:
			r.FilesFixed++
		}
		r.FilesChecked++
		r.Warnings += len(Warnings(f.Result))
	}
}

// binarySniffLen is how much of a file is inspected for NUL bytes.
const binarySniffLen = 8192

// IsBinary reports whether content looks binary: a NUL byte within the
// first 8192 bytes.
func IsBinary(content []byte) bool {
	if len(content) > binarySniffLen {
		content = content[:binarySniffLen]
	}
	return bytes.IndexByte(content, 0) >= 0
}
