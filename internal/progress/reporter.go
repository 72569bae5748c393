package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter shows that a request is in flight.
type Reporter interface {
	Start(message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{out: os.Stderr}
	}
	return &TerminalReporter{out: os.Stderr}
}

// TerminalReporter displays a spinner in the terminal.
type TerminalReporter struct {
	out  io.Writer
	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

// NewTerminalReporter creates a spinner that writes to out.
func NewTerminalReporter(out io.Writer) *TerminalReporter {
	return &TerminalReporter{out: out}
}

func (r *TerminalReporter) Start(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		return
	}
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(message),
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.spin(r.bar, r.stop, r.done)
}

func (r *TerminalReporter) spin(bar *progressbar.ProgressBar, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func (r *TerminalReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}
	close(r.stop)
	<-r.done
	_ = r.bar.Finish()
	r.bar = nil
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	out   io.Writer
	start time.Time
}

// NewCIReporter creates a line reporter that writes to out.
func NewCIReporter(out io.Writer) *CIReporter {
	return &CIReporter{out: out}
}

func (r *CIReporter) Start(message string) {
	r.start = time.Now()
	fmt.Fprintln(r.out, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.out, "done in %s\n", time.Since(r.start).Round(time.Millisecond))
}
