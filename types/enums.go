package types

// Action is a type that represents a cache operation mediated by the pipeline.
type Action string

// Constants for the four actions the pipeline wraps.
const (
	ActionGet    Action = "get"    // read a document
	ActionSet    Action = "set"    // create a document
	ActionUpdate Action = "update" // replace a document
	ActionDelete Action = "delete" // remove a document
)

// String returns the string representation of the Action.
func (a Action) String() string {
	return string(a)
}

// Valid reports whether the action is one of the four known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionGet, ActionSet, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// Phase is a type that represents the placement of a hook relative to the
// adapter call.
type Phase string

const (
	// PhaseBefore runs a hook before the adapter call.
	PhaseBefore Phase = "before"
	// PhaseAfter runs a hook after the adapter call.
	PhaseAfter Phase = "after"
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	return string(p)
}

// Valid reports whether the phase is known.
func (p Phase) Valid() bool {
	return p == PhaseBefore || p == PhaseAfter
}

// Stat is a type that represents the different stat values that can be collected by the stats collector.
type Stat string

const (
	// StatIncr represent a stat that should be incremented
	StatIncr Stat = "incr"
	// StatDecr represent a stat that should be decremented
	StatDecr Stat = "decr"
	// StatTiming represent a stat that represents the time it takes for an event to occur
	StatTiming Stat = "timing"
	// StatGauge represent a stat that represents the current value of a statistic
	StatGauge Stat = "gauge"
	// StatHistogram represent a stat that represents the statistical distribution of a set of values
	StatHistogram Stat = "histogram"
)

// String returns the string representation of a Stat.
func (s Stat) String() string {
	return string(s)
}
