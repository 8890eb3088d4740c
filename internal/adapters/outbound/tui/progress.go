package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-runewidth"
)

// ProgressThreshold is the smallest file count that shows a progress bar.
const ProgressThreshold = 10

const (
	barWidth  = 30
	pathWidth = 40
)

// Progress draws a single-line progress bar. It is safe for concurrent use
// and does nothing unless enabled and the run is large enough.
type Progress struct {
	w       io.Writer
	enabled bool

	mu     sync.Mutex
	bar    progress.Model
	total  int
	done   int
	active bool
}

// NewProgress returns a progress bar writing to w. Pass enabled=false for
// quiet runs or when w is not a terminal.
func NewProgress(w io.Writer, enabled, color bool) *Progress {
	return &Progress{
		w:       w,
		enabled: enabled,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
			progress.WithColorProfile(ColorProfile(color)),
		),
	}
}

func (p *Progress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = 0
	p.active = p.enabled && total >= ProgressThreshold
	if p.active {
		p.draw("")
	}
}

func (p *Progress) Advance(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if p.active {
		p.draw(path)
	}
}

// Finish clears the bar so later output starts on a clean line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active {
		fmt.Fprint(p.w, "\r\x1b[2K")
		p.active = false
	}
}

func (p *Progress) draw(path string) {
	pct := float64(p.done) / float64(p.total)
	fmt.Fprintf(p.w, "\r\x1b[2K%s %d/%d %s",
		p.bar.ViewAs(pct), p.done, p.total, runewidth.Truncate(path, pathWidth, "…"))
}
