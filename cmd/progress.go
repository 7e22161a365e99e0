package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

type progressPrinter struct {
	total    int
	mu       sync.Mutex
	done     int
	last     string
	duration time.Duration
	updates  chan struct{}
	quit     chan struct{}
	stopOnce sync.Once
}

func newProgressPrinter(total int) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		total:   total,
		updates: make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	go p.loop()
}

func (p *progressPrinter) StageDone(name string, duration time.Duration) {
	p.mu.Lock()
	p.done++
	p.last = name
	p.duration += duration
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
	})
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
	p.print()
	fmt.Fprintln(os.Stdout)
}

func (p *progressPrinter) loop() {
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.print()
		case <-ticker.C:
			p.print()
		case <-p.quit:
			return
		}
	}
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	done := p.done
	last := p.last
	dur := p.duration
	p.mu.Unlock()

	percent := (float64(done) / float64(p.total)) * 100
	line := fmt.Sprintf("\rStages: %d/%d (%.0f%%) elapsed:%.1fs", done, p.total, percent, dur.Seconds())
	if last != "" {
		line += " last:" + last
	}
	fmt.Fprintf(os.Stdout, "%s", line)
}
