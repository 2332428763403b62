package driver

import (
	"time"

	"idlc/internal/diag"
	"idlc/internal/source"
)

// Stage is a pipeline pass as seen by a progress consumer.
type Stage string

const (
	StageLoad     Stage = "load"
	StageParse    Stage = "parse"
	StageBuild    Stage = "build"
	StageResolve  Stage = "resolve"
	StageValidate Stage = "validate"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued: the file was loaded and waits for parsing.
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusError: the file carries at least one error diagnostic.
	StatusError Status = "error"
)

// Event reports progress for a file, or for the whole compilation when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from
// several parser goroutines at once.
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

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// reportOutcome closes every file with done or error, depending on whether
// an error diagnostic points into it.
func (st *State) reportOutcome(sink ProgressSink, files []loadedFile) {
	if sink == nil {
		return
	}
	failed := make(map[source.FileID]bool)
	for _, d := range st.Bag.Items() {
		if d.Severity >= diag.SevError {
			failed[d.Primary.File] = true
		}
	}
	for _, in := range files {
		status := StatusDone
		if failed[in.id] {
			status = StatusError
		}
		sink.OnEvent(Event{File: in.path, Status: status})
	}
}
