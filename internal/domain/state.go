package domain

// SearchState is the lifecycle state of a search session.
type SearchState string

const (
	StateIdle    SearchState = "idle"
	StateLoading SearchState = "loading"
	StateSuccess SearchState = "success"
	StateError   SearchState = "error"
)

// SearchEvent transitions a SearchSession. Each event carries the sequence
// number of the search it belongs to; completions for a superseded search
// are ignored (last-started-wins).
type SearchEvent interface {
	seq() uint64
}

// SearchStarted moves the session to Loading and makes Seq the current search.
type SearchStarted struct {
	Seq uint64
}

// SearchSucceeded completes search Seq with a result.
type SearchSucceeded struct {
	Seq  uint64
	Data *ProductData
}

// SearchFailed completes search Seq with a user-facing message.
type SearchFailed struct {
	Seq     uint64
	Message string
}

func (e SearchStarted) seq() uint64   { return e.Seq }
func (e SearchSucceeded) seq() uint64 { return e.Seq }
func (e SearchFailed) seq() uint64    { return e.Seq }

// SearchSession is the explicit application-state value for one client:
// Idle -> Loading -> {Success, Error}, and Success/Error -> Loading on the
// next search. A new SearchStarted supersedes any in-flight search.
type SearchSession struct {
	State   SearchState
	Seq     uint64
	Data    *ProductData
	Message string
}

// NewSearchSession returns a session in the Idle state.
func NewSearchSession() *SearchSession {
	return &SearchSession{State: StateIdle}
}

// Apply transitions the session and reports whether the event took effect.
// Completion events are dropped unless the session is Loading the same
// sequence the event was issued for.
func (s *SearchSession) Apply(event SearchEvent) bool {
	switch ev := event.(type) {
	case SearchStarted:
		if ev.Seq <= s.Seq && s.Seq != 0 {
			return false
		}
		s.State = StateLoading
		s.Seq = ev.Seq
		s.Data = nil
		s.Message = ""
		return true

	case SearchSucceeded:
		if s.State != StateLoading || ev.Seq != s.Seq {
			return false
		}
		s.State = StateSuccess
		s.Data = ev.Data
		s.Message = ""
		return true

	case SearchFailed:
		if s.State != StateLoading || ev.Seq != s.Seq {
			return false
		}
		s.State = StateError
		s.Data = nil
		s.Message = ev.Message
		return true
	}
	return false
}
