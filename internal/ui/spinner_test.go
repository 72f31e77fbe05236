package ui

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/sqve/shipit/internal/config"
	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerNonInteractive(t *testing.T) {
	config.Global.Plain = true
	t.Cleanup(func() { config.Global.Plain = false })

	var out syncBuffer
	s := StartSpinner(&out, false, "Pushing to origin")
	s.Stop()
	s.Stop()

	assert.Equal(t, "→ Pushing to origin\n", out.String())
}

func TestSpinnerInteractive(t *testing.T) {
	var out syncBuffer
	s := StartSpinner(&out, true, "Pushing")
	s.Update("Still pushing")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	assert.Contains(t, out.String(), "Still pushing")
	assert.Contains(t, out.String(), "\r\033[K")
}
