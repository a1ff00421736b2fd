package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	audit "govintel/pkg/platform/audit"
	"govintel/pkg/platform/sentinel"
)

// Store appends audit events to a JSON-lines file. Every entry is written with a
// single Write under the store mutex, so concurrent callers never interleave
// partial lines. A failed append is rolled back to the previous end of file so
// a retry never follows a torn line.
type Store struct {
	mu     sync.Mutex
	path   string
	f      logFile
	fsync  bool
	closed bool
}

// logFile is the subset of *os.File the store writes through.
type logFile interface {
	io.Writer
	io.Seeker
	io.Closer
	Sync() error
	Truncate(size int64) error
}

// Option configures the Store.
type Option func(*Store)

// WithFsync flushes the file to stable storage after every append.
func WithFsync(enabled bool) Option {
	return func(s *Store) {
		s.fsync = enabled
	}
}

// Open creates or opens the file at path for appending.
func Open(path string, opts ...Option) (*Store, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open audit log %s: %w", path, err)
	}
	s := &Store{path: path, f: f}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	line, err := event.MarshalLine()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sentinel.ErrClosed
	}
	end, err := s.f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("locate end of audit log: %w", err)
	}
	if _, err := s.f.Write(line); err != nil {
		return s.rollback(end, fmt.Errorf("write audit entry: %w", err))
	}
	if s.fsync {
		if err := s.f.Sync(); err != nil {
			return s.rollback(end, fmt.Errorf("sync audit log: %w", err))
		}
	}
	return nil
}

// rollback cuts the file back to end after a failed append.
func (s *Store) rollback(end int64, cause error) error {
	if err := s.f.Truncate(end); err != nil {
		return errors.Join(cause, sentinel.ErrCorrupt, fmt.Errorf("truncate audit log: %w", err))
	}
	return cause
}

// ListRecent reads the file back and returns the last limit entries.
func (s *Store) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log for read: %w", err)
	}
	defer f.Close()

	var events []audit.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		event, err := audit.UnmarshalLine(scanner.Bytes())
		if err != nil {
			return nil, errors.Join(sentinel.ErrCorrupt, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}
