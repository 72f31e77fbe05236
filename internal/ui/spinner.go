package ui

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sqve/shipit/internal/styles"
)

// Spinner animates a progress message while a blocking operation runs.
// On non-interactive writers it prints the message once instead.
type Spinner struct {
	out     io.Writer
	message atomic.Value
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func StartSpinner(out io.Writer, interactive bool, message string) *Spinner {
	s := &Spinner{out: out, done: make(chan struct{})}
	s.message.Store(message)

	if !interactive {
		fmt.Fprintf(out, "%s %s\n", styles.Render(&styles.Info, "→"), message)
		s.once.Do(func() { close(s.done) })
		return s
	}

	s.wg.Add(1)
	go s.animate()
	return s
}

func (s *Spinner) animate() {
	defer s.wg.Done()
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.done:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
			msg, _ := s.message.Load().(string)
			fmt.Fprintf(s.out, "\r%s %s", styles.Render(&styles.Info, frames[i]), msg)
			i = (i + 1) % len(frames)
		}
	}
}

func (s *Spinner) Update(message string) {
	s.message.Store(message)
}

func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}
