package download

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Log file layout.
const (
	LogHeader       = "Download Logs"
	LogSeparator    = "============="
	DefaultLogName  = "download_log.txt"
	logPermissions  = 0644
	logPrefixRaw    = "progress: "
	logPrefixWarn   = "warning: "
	logPrefixOK     = "success: "
	logPrefixFailed = "failure: "
)

// eventLog is the plain-text, append-only record of one download. A failed
// write is returned to the caller and later writes keep trying.
type eventLog struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// openEventLog truncates path and writes the header.
func openEventLog(path string) (*eventLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open download log: %w", err)
	}
	l := &eventLog{w: f}
	if err := l.line(LogHeader); err != nil {
		return l, err
	}
	return l, l.line(LogSeparator)
}

func (l *eventLog) line(text string) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	text = strings.ReplaceAll(text, "\n", " ")
	_, err := io.WriteString(l.w, text+"\n")
	return err
}

func (l *eventLog) progress(text string) error { return l.line(logPrefixRaw + text) }
func (l *eventLog) warning(text string) error  { return l.line(logPrefixWarn + text) }

func (l *eventLog) outcome(success bool, message string) error {
	if success {
		return l.line(logPrefixOK + message)
	}
	return l.line(logPrefixFailed + message)
}

func (l *eventLog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}
