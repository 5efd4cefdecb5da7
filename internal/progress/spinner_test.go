package progress

import (
	"bytes"
	"sync"
	"testing"
	"time"

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

func TestSpinnerDisabledOffTerminal(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf)
	s.Start("morphing")
	s.Stop()
	assert.Empty(t, buf.String())
}

func TestSpinnerWritesUntilStopped(t *testing.T) {
	var buf syncBuffer
	s := &Spinner{w: &buf, enabled: true, interval: time.Millisecond}
	s.Start("morphing")
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "\rmorphing -")
	assert.Contains(t, out, "morphing done\n")
}
