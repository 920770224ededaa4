// Package audit records API activity.
//
// Every handled request produces a user action [Event]; every request that
// fails with a server-side error additionally produces a server error event.
// Events go to a [Sink]: [MongoSink] stores them in MongoDB, [NopSink]
// discards them and [Recorder] keeps them in memory.
package audit

import (
	"context"
	"sync"
	"time"
)

// Event types.
const (
	TypeUserAction  = "user_action"
	TypeServerError = "server_error"
)

// Event is one audit record.
type Event struct {
	Type       string    `bson:"type" json:"type"`
	Action     string    `bson:"action" json:"action"`
	RequestID  string    `bson:"request_id,omitempty" json:"request_id,omitempty"`
	SessionID  string    `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Board      string    `bson:"board,omitempty" json:"board,omitempty"`
	Formats    []string  `bson:"formats,omitempty" json:"formats,omitempty"`
	Status     int       `bson:"status" json:"status"`
	Code       string    `bson:"code,omitempty" json:"code,omitempty"`
	Message    string    `bson:"message,omitempty" json:"message,omitempty"`
	RemoteAddr string    `bson:"remote_addr,omitempty" json:"remote_addr,omitempty"`
	Duration   int64     `bson:"duration_ms" json:"duration_ms"`
	Time       time.Time `bson:"time" json:"time"`
}

// Sink receives audit events.
type Sink interface {
	Record(ctx context.Context, e Event) error
	Close(ctx context.Context) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Record(context.Context, Event) error { return nil }
func (NopSink) Close(context.Context) error         { return nil }

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record appends e.
func (r *Recorder) Record(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Close does nothing.
func (r *Recorder) Close(context.Context) error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

var (
	_ Sink = NopSink{}
	_ Sink = (*Recorder)(nil)
)
