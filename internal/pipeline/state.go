package pipeline

// State is the stage a run is in.
type State int

const (
	Idle State = iota
	FetchingMetadata
	Downloading
	Splitting
	Tagging
	Complete
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FetchingMetadata:
		return "fetching metadata"
	case Downloading:
		return "downloading"
	case Splitting:
		return "splitting"
	case Tagging:
		return "tagging"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run. Terminal states stay until the
// run is acknowledged or a new one starts.
func (s State) Terminal() bool {
	return s == Complete || s == Failed || s == Cancelled
}

// Running reports whether s is one of the in-progress stages.
func (s State) Running() bool {
	return s != Idle && !s.Terminal()
}
