package player

// State is a step of the playback loop
type State uint8

const (
	StateAwaitNextFrame State = iota
	StateHandleDisposal
	StateDraw
	StateSleep
	StateDone
)

// String returns human-readable state name
func (s State) String() string {
	switch s {
	case StateAwaitNextFrame:
		return "AwaitNextFrame"
	case StateHandleDisposal:
		return "HandleDisposal"
	case StateDraw:
		return "Draw"
	case StateSleep:
		return "Sleep"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}
