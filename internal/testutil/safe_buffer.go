package testutil

import (
	"bytes"
	"sync"
)

// SafeBuffer is a bytes.Buffer that is safe for concurrent use, for tests
// that read output while the code under test is still writing it.
type SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
