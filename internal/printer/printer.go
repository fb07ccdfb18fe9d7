// Package printer renders lines read by the CLI on a terminal.
package printer

import (
	"fmt"
	"io"
	"sync"

	"github.com/logrusorgru/aurora"
)

type Printer struct {
	w      io.Writer
	au     aurora.Aurora
	number bool

	mu sync.Mutex
}

func New(w io.Writer, number, color bool) *Printer {
	return &Printer{
		w:      w,
		au:     aurora.NewAurora(color),
		number: number,
	}
}

// Header announces the input whose lines follow.
func (p *Printer) Header(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s\n", p.au.Cyan(fmt.Sprintf("==> %s <==", name)))
}

func (p *Printer) Line(n int, line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.number {
		fmt.Fprintf(p.w, "%s   ", p.au.BrightBlack(fmt.Sprintf("%6d", n)))
	}
	fmt.Fprintln(p.w, line)
}

// Count prints the number of lines of one input, or of all when name is empty.
func (p *Printer) Count(name string, lines int, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := p.au.Bold(fmt.Sprintf("%8d", lines))
	if failed {
		count = p.au.Red(fmt.Sprintf("%8d", lines))
	}
	if name == "" {
		name = "total"
	}
	fmt.Fprintf(p.w, "%s %s\n", count, name)
}
