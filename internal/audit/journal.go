package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Journal is the destination for audit entries
type Journal interface {
	Append(ctx context.Context, entry Entry) error
}

// WriterJournal appends entries to w as JSON lines
type WriterJournal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterJournal creates a journal writing to w
func NewWriterJournal(w io.Writer) *WriterJournal {
	return &WriterJournal{w: w}
}

// Append writes entry as a single line
func (j *WriterJournal) Append(_ context.Context, entry Entry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.w.Write(line); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}
