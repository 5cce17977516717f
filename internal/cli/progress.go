package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/glorpus-work/wpm/pkg/download"
	"github.com/glorpus-work/wpm/pkg/job"
)

// progressPrinter renders job events. On a terminal it redraws a single
// status line; elsewhere it prints one line whenever the current step changes.
type progressPrinter struct {
	out      io.Writer
	tty      bool
	width    int
	interval time.Duration

	mu       sync.Mutex
	last     time.Time
	lastHint string
	drawn    bool
}

func newProgressPrinter(out io.Writer, tty bool, width int, interval time.Duration) *progressPrinter {
	return &progressPrinter{out: out, tty: tty, width: width, interval: interval}
}

// stderrProgress prints to stderr so that stdout stays machine readable.
func stderrProgress(interval time.Duration) *progressPrinter {
	return newProgressPrinter(os.Stderr, isTerminal(os.Stderr), terminalWidth(os.Stderr, defaultTerminalWidth), interval)
}

// newJob creates a root job that reports to p.
func (p *progressPrinter) newJob(title string) *job.Job {
	return job.New(title, job.WithListener(p.handle))
}

func (p *progressPrinter) handle(ev job.Event) {
	if ev.State == job.Failed {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	changed := ev.Hint != p.lastHint
	if !p.tty {
		if changed && ev.State == job.Running {
			p.lastHint = ev.Hint
			_, _ = fmt.Fprintf(p.out, "[%3.0f%%] %s\n", ev.Progress*100, ev.Hint)
		}
		return
	}

	if !changed && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now
	p.lastHint = ev.Hint
	p.drawLocked(fmt.Sprintf("[%3.0f%%] %s", ev.Progress*100, ev.Hint))
}

// download adapts the printer to repository downloads.
func (p *progressPrinter) download() download.ProgressFunc {
	return func(item download.Item, read, total int64) {
		if !p.tty {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		now := time.Now()
		if now.Sub(p.last) < p.interval {
			return
		}
		p.last = now
		line := fmt.Sprintf("Downloading %s: %s", item.ID, formatBytes(read))
		if total > 0 {
			line = fmt.Sprintf("[%3.0f%%] %s of %s", float64(read)*100/float64(total), line, formatBytes(total))
		}
		p.drawLocked(line)
	}
}

func (p *progressPrinter) drawLocked(line string) {
	w := p.width - 1
	line = truncate(line, w)
	_, _ = dimColor.Fprintf(p.out, "\r%s%s", line, strings.Repeat(" ", max(0, w-len([]rune(line)))))
	p.drawn = true
}

// Done clears the status line.
func (p *progressPrinter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty && p.drawn {
		_, _ = fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", p.width-1))
		p.drawn = false
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
