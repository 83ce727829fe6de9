package driver

import "time"

// Stage describes a compile phase.
type Stage string

const (
	StageLoad    Stage = "load"
	StageBackend Stage = "backend"
	StageScan    Stage = "scan"
	StageEmit    Stage = "emit"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusPartial marks a unit scanned with partial failures.
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// Event reports progress for a unit (or for the whole run when Unit is empty).
// Total is set on the load event and counts the units reachable from the root.
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Total   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emitProgress(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
