package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Progress displays a bar counting completed steps of a known total.
type Progress struct {
	w       io.Writer
	title   string
	total   int
	current int
	width   int
	mu      sync.Mutex
}

// NewProgress creates a progress bar for total steps.
func NewProgress(w io.Writer, title string, total int) *Progress {
	return &Progress{
		w:     w,
		title: title,
		total: total,
		width: 30,
	}
}

// Step marks one more step as completed and appends detail to the bar.
func (p *Progress) Step(detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	p.render(detail)
}

// Finish ends the bar line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w)
}

func (p *Progress) render(detail string) {
	percent := 1.0
	if p.total > 0 {
		percent = min(float64(p.current)/float64(p.total), 1)
	}

	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	fmt.Fprintf(p.w, "\r\033[K%s [%s] %d/%d", p.title, bar, p.current, p.total)
	if detail != "" {
		fmt.Fprintf(p.w, " %s", detail)
	}
}
