package domain

// ActionType is a reconcile decision for one entry.
type ActionType int

const (
	// ActionCreate means no destination entry exists for the natural key.
	ActionCreate ActionType = iota
	// ActionUpdate means an entry exists and at least one tracked
	// attribute differs (or rebuild mode forced the update).
	ActionUpdate
	// ActionSkip means an entry exists and all tracked attributes match.
	ActionSkip
)

// String implements fmt.Stringer.
func (a ActionType) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Action is the reconciler's decision for one entry. PageID is set only for
// updates and skips, where it names the matched destination entry.
type Action struct {
	Type   ActionType
	PageID string
}
