package telemetry

import (
	"encoding/json"
	"io"
	"sync"
)

// Sink receives telemetry payloads. The runner calls Send inline from
// the step loop, so implementations that do real I/O should buffer; a
// Send error is logged by the caller and never stops the run.
type Sink interface {
	Send(p *Payload) error
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(p *Payload) error

// Send calls f(p).
func (f SinkFunc) Send(p *Payload) error { return f(p) }

// Discard drops every payload.
var Discard Sink = SinkFunc(func(*Payload) error { return nil })

// JSONLineSink writes each payload as one JSON object per line, the
// shape hosting front ends consume directly. Safe for concurrent use.
type JSONLineSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLineSink returns a sink encoding payloads to w.
func NewJSONLineSink(w io.Writer) *JSONLineSink {
	return &JSONLineSink{enc: json.NewEncoder(w)}
}

// Send encodes p as a single JSON line.
func (s *JSONLineSink) Send(p *Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(p)
}
