package testutil

import (
	"bytes"
	"io"
	"sync"

	"github.com/dtroode/pauselab/internal/logger"
)

// MakeNoopLogger returns a logger that discards everything.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithFormat(io.Discard, 0, "text")
}

// LogBuffer is a goroutine-safe sink for asserting on log output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// MakeBufferLogger returns a debug-level text logger writing into the returned buffer.
func MakeBufferLogger() (*logger.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return logger.NewWithFormat(buf, -4, "text"), buf
}
