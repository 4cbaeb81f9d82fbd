package override

// State is the engine's position in the override protocol.
type State int

const (
	// Inactive: no avatar.
	Inactive State = iota
	// PassThrough: upstream writers are committed untouched.
	PassThrough
	// Overriding: the override map replaces every other writer.
	Overriding
	// ResetPendingOnly: one all-zero frame is due in the next early phase.
	ResetPendingOnly
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case PassThrough:
		return "pass-through"
	case Overriding:
		return "overriding"
	case ResetPendingOnly:
		return "reset-pending"
	}
	return "unknown"
}
