package apiserver

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mnohosten/revidx/pkg/progress"
)

// broadcastSink fans one build's progress.Event stream out to every
// currently-attached WebSocket subscriber, and keeps the full history
// so a client that connects to /ws/build after the build already
// started still sees everything from the beginning — the same
// replay-from-connect guarantee the teacher's change streams give via
// resume tokens, simplified here since one build's event list is
// always small.
type broadcastSink struct {
	mu          sync.Mutex
	history     []progress.Event
	subscribers map[int]chan progress.Event
	nextSubID   int
}

func newBroadcastSink() *broadcastSink {
	return &broadcastSink{subscribers: make(map[int]chan progress.Event)}
}

func (s *broadcastSink) Send(e progress.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, e)
	for _, ch := range s.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// subscribe returns the events seen so far plus a channel for every
// subsequent event, and a detach function the caller must invoke when
// done listening.
func (s *broadcastSink) subscribe() ([]progress.Event, <-chan progress.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan progress.Event, 64)
	s.subscribers[id] = ch
	backlog := append([]progress.Event(nil), s.history...)

	detach := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
		close(ch)
	}
	return backlog, ch, detach
}

// build tracks one in-flight or completed index build.
type build struct {
	id       string
	sink     *broadcastSink
	done     atomic.Bool
	indexDir string
}

// buildManager owns every build this process has started, keyed by
// build ID, the same registry role the teacher's ChangeStreamManager
// plays for active WebSocket connections.
type buildManager struct {
	mu     sync.Mutex
	builds map[string]*build
	nextID int
}

func newBuildManager() *buildManager {
	return &buildManager{builds: make(map[string]*build)}
}

func (m *buildManager) create(indexDir string) *build {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b := &build{id: fmt.Sprintf("build-%d", m.nextID), sink: newBroadcastSink(), indexDir: indexDir}
	m.builds[b.id] = b
	return b
}

func (m *buildManager) get(id string) (*build, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.builds[id]
	return b, ok
}
