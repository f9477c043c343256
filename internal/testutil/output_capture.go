package testutil

import (
	"bytes"
	"strings"
	"sync"
)

// TestWriter provides a thread-safe io.Writer for tests. It is safe to hand
// to a child process and read from the test goroutine at the same time.
type TestWriter struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

// NewTestWriter creates a new TestWriter.
func NewTestWriter() *TestWriter {
	return &TestWriter{}
}

// Write implements io.Writer.
func (tw *TestWriter) Write(p []byte) (n int, err error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.buf.Write(p)
}

// String returns the written content.
func (tw *TestWriter) String() string {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.buf.String()
}

// Lines returns the written content split into lines without the trailing newline.
func (tw *TestWriter) Lines() []string {
	s := strings.TrimSuffix(tw.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Reset clears the buffer.
func (tw *TestWriter) Reset() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.buf.Reset()
}
