package output

import (
	"io"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/masmgr/gitsymphony/internal/music"
)

// EventRecord is one line of an event log.
type EventRecord struct {
	Time  time.Time   `json:"time"`
	Hash  string      `json:"hash"`
	Index int         `json:"index"`
	Total int         `json:"total"`
	Event music.Event `json:"event"`
}

// EventLog writes emitted events as newline-delimited JSON.
type EventLog struct {
	mu  sync.Mutex
	enc *jsoniter.Encoder
}

// NewEventLog creates an event log writing to out.
func NewEventLog(out io.Writer) *EventLog {
	return &EventLog{enc: json.NewEncoder(out)}
}

// Append writes one record.
func (l *EventLog) Append(rec EventRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(rec)
}
