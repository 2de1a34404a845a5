// Package progress reports the advance of long running steps of a run.
package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Unit is what a step counts.
type Unit int

const (
	// Items counts records such as telegrams.
	Items Unit = iota
	// Bytes counts input read, shown with size units.
	Bytes
)

// Reporter receives progress of one step at a time.
type Reporter interface {
	// Start begins a step of total units; a negative total is unknown.
	Start(total int64, unit Unit, description string)
	Add(n int64)
	Finish()
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Start(int64, Unit, string) {}
func (Nop) Add(int64) {}
func (Nop) Finish() {}

// Bar renders progress with a terminal progress bar.
type Bar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBar returns a Bar writing to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Start replaces any running bar with a new one.
func (b *Bar) Start(total int64, unit Unit, description string) {
	b.Finish()
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionThrottle(100 * time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(b.w, "\n") }),
	}
	if unit == Bytes {
		opts = append(opts, progressbar.OptionShowBytes(true))
	} else {
		opts = append(opts, progressbar.OptionShowCount())
	}
	b.bar = progressbar.NewOptions64(total, opts...)
}

// Add advances the running bar, if any, by n.
func (b *Bar) Add(n int64) {
	if b.bar != nil {
		_ = b.bar.Add64(n)
	}
}

// Finish completes the running bar. Calling it again is a no-op.
func (b *Bar) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
		b.bar = nil
	}
}

// Reader reports bytes read through r.
func Reader(r io.Reader, rep Reporter) io.Reader {
	return &reader{r: r, rep: rep}
}

type reader struct {
	r   io.Reader
	rep Reporter
}

func (r *reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.rep.Add(int64(n))
	}
	return n, err
}
