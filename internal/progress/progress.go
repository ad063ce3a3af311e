// Package progress carries live status updates out of long-running pipeline
// stages. Events flow through a Sink callback; callers that want a channel
// or a polled status object wrap a Sink themselves.
package progress

// Phase labels the pipeline stage that emitted an event.
type Phase string

const (
	PhaseLoading      Phase = "loading"
	PhaseExtracting   Phase = "extracting"
	PhaseChunking     Phase = "chunking"
	PhaseTranscribing Phase = "transcribing"
	PhaseComplete     Phase = "complete"
	PhaseError        Phase = "error"
)

// Event is a single progress update. Percent is 0-100 and non-decreasing
// within one job on the success path; error events carry the percent at
// which the failure occurred.
type Event struct {
	Phase   Phase
	Percent float64
	Message string
}

// Sink receives progress events. A nil Sink is valid and discards events;
// emit through Sink.Emit rather than calling the function directly.
type Sink func(Event)

// Emit sends an event to the sink, tolerating a nil sink.
func (s Sink) Emit(phase Phase, percent float64, message string) {
	if s == nil {
		return
	}
	s(Event{Phase: phase, Percent: percent, Message: message})
}

// Monotonic wraps a sink so that percent never decreases across non-error
// events. Error events pass through unchanged so the failure percent is
// preserved.
func Monotonic(s Sink) Sink {
	if s == nil {
		return nil
	}
	highWater := 0.0
	return func(e Event) {
		if e.Phase != PhaseError {
			if e.Percent < highWater {
				e.Percent = highWater
			} else {
				highWater = e.Percent
			}
		}
		s(e)
	}
}

// Window rescales a sub-task's 0-100 percent into the band
// [base, base+width] of an enclosing job. A caller driving N chunks gives
// each chunk its own window so the combined stream stays monotonic.
func Window(s Sink, base, width float64) Sink {
	if s == nil {
		return nil
	}
	return func(e Event) {
		if e.Phase != PhaseError {
			e.Percent = base + e.Percent*width/100
		}
		s(e)
	}
}

// Channel returns a sink that forwards events to ch, plus a done function
// that closes the channel. The send blocks, preserving emission order; the
// consumer must drain ch until it is closed.
func Channel(ch chan<- Event) (Sink, func()) {
	sink := func(e Event) {
		ch <- e
	}
	return sink, func() { close(ch) }
}
