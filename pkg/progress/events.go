// Package progress defines the JSON-discriminated event stream the API
// server pushes over /ws/build while an index is being constructed,
// grounded on the teacher's changestream.ChangeEvent /
// handlers.ChangeStreamResponse pairing: one envelope type with a Type
// discriminator, and a payload field per event kind that is only
// populated for its own Type.
package progress

// EventType discriminates the kind of a build Event, mirroring
// changestream.OperationType's role for change events.
type EventType string

const (
	// EventConnected is the first event of a build, sent when it starts.
	EventConnected EventType = "connected"
	// EventFlush reports one SPIMI block flush.
	EventFlush EventType = "flush"
	// EventMemoryPressure reports the Memory Monitor tripping its
	// threshold, just before a flush is triggered by it.
	EventMemoryPressure EventType = "memoryPressure"
	// EventMerging reports the External Merger starting after ingestion.
	EventMerging EventType = "merging"
	// EventDone reports a completed, queryable index.
	EventDone EventType = "done"
	// EventError reports a fatal build error; no further events follow.
	EventError EventType = "error"
)

// Event is one message in the build progress stream.
type Event struct {
	Type EventType `json:"type"`

	// DocumentsIngested is set on EventFlush and EventDone: the running
	// total of documents appended to review_ids.txt so far.
	DocumentsIngested int `json:"documentsIngested,omitempty"`

	// FlushCount is set on EventFlush: the 1-based ordinal of the block
	// just written.
	FlushCount int `json:"flushCount,omitempty"`

	// BlockPath is set on EventFlush: the path of the block just written.
	BlockPath string `json:"blockPath,omitempty"`

	// SegmentCount and TermCount are set on EventDone: the final shape
	// of the merged index.
	SegmentCount int `json:"segmentCount,omitempty"`
	TermCount    int `json:"termCount,omitempty"`

	// Message carries a human-readable detail for EventConnected,
	// EventMemoryPressure, and EventMerging.
	Message string `json:"message,omitempty"`

	// Error is set on EventError.
	Error string `json:"error,omitempty"`
}

// Sink receives build progress events. The SPIMI Indexer depends on
// this interface, not on a concrete WebSocket connection, so it stays
// usable from the CLI (a no-op Sink) and from tests.
type Sink interface {
	Send(Event)
}

// DiscardSink drops every event. The CLI build path uses it;
// cmd/indexer prints only a final summary line.
type DiscardSink struct{}

func (DiscardSink) Send(Event) {}

// CollectingSink appends every event it receives, for tests that need
// to assert on the emitted sequence.
type CollectingSink struct {
	Events []Event
}

func (s *CollectingSink) Send(e Event) {
	s.Events = append(s.Events, e)
}
