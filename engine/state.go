package engine

// State is the analysis lifecycle, kept separate from any rendering concern.
type State int

const (
	StateIdle State = iota
	StateUploading
	StateAnalyzing
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUploading:
		return "uploading"
	case StateAnalyzing:
		return "analyzing"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}
