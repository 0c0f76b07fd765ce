package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"catalog/domain"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MemoryEventLog keeps published events in process, in append order.
type MemoryEventLog struct {
	mu     sync.RWMutex
	events []domain.EventEnvelope
}

var _ domain.EventLog = (*MemoryEventLog)(nil)

func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{}
}

func (l *MemoryEventLog) Append(ctx context.Context, env domain.EventEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, env)
	return nil
}

func (l *MemoryEventLog) ForAggregate(ctx context.Context, aggregateID string) ([]domain.EventEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.EventEnvelope, 0)
	for _, env := range l.events {
		if env.AggregateID == aggregateID {
			out = append(out, env)
		}
	}
	return out, nil
}

// FileEventLog appends events as JSON lines to a file.
type FileEventLog struct {
	mu   sync.Mutex
	path string
}

var _ domain.EventLog = (*FileEventLog)(nil)

func NewFileEventLog(path string) *FileEventLog {
	return &FileEventLog{path: path}
}

// EventLogPath derives the event log file that sits next to a product file.
func EventLogPath(productFile string) string {
	return strings.TrimSuffix(productFile, filepath.Ext(productFile)) + ".events.jsonl"
}

func (l *FileEventLog) Append(ctx context.Context, env domain.EventEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(env)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", l.path, err)
	}
	return f.Close()
}

func (l *FileEventLog) ForAggregate(ctx context.Context, aggregateID string) ([]domain.EventEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.EventEnvelope, 0)
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var env domain.EventEnvelope
		if err := json.UnmarshalFromString(line, &env); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", l.path, lineNo, err)
		}
		if env.AggregateID == aggregateID {
			out = append(out, env)
		}
	}
	return out, sc.Err()
}
