package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const logBufferSize = 128

// FileLogger writes log messages to a file from a background goroutine so
// callers never block on disk.
type FileLogger struct {
	messages chan string
	file     *os.File
	done     sync.WaitGroup
	mu       sync.Mutex // guards file during Close
}

// NewFileLogger opens (or creates) the log file for appending and starts the
// writer goroutine.
func NewFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	l := &FileLogger{
		messages: make(chan string, logBufferSize),
		file:     f,
	}

	l.done.Add(1)
	go l.writer()

	return l, nil
}

func (l *FileLogger) writer() {
	defer l.done.Done()
	for msg := range l.messages {
		l.mu.Lock()
		if l.file != nil {
			_, _ = l.file.WriteString(msg)
		}
		l.mu.Unlock()
	}
}

// Log queues a timestamped message. When the buffer is full the message is
// dropped rather than blocking the caller.
func (l *FileLogger) Log(format string, args ...interface{}) {
	ts := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	msg := fmt.Sprintf("[%s] %s\n", ts, fmt.Sprintf(format, args...))

	select {
	case l.messages <- msg:
	default:
	}
}

// IsEnabled always returns true for a file logger.
func (l *FileLogger) IsEnabled() bool {
	return true
}

// Close drains pending messages and closes the file.
func (l *FileLogger) Close() error {
	close(l.messages)
	l.done.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

var _ Logger = (*FileLogger)(nil)
