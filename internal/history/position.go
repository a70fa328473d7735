package history

import "strconv"

// Position is the recall cursor: either Idle or navigating at an index into
// the active partition. The zero value is Idle.
type Position struct {
	index      int
	navigating bool
}

// Idle is the position outside of recall.
var Idle = Position{}

// navigatingAt returns a navigating position. Only the controller builds
// these, always from an in-range index.
func navigatingAt(i int) Position {
	return Position{index: i, navigating: true}
}

// Index returns the recall index and whether a recall is in progress.
func (p Position) Index() (int, bool) {
	return p.index, p.navigating
}

// Navigating reports whether a recall is in progress.
func (p Position) Navigating() bool {
	return p.navigating
}

func (p Position) String() string {
	if !p.navigating {
		return "idle"
	}
	return "navigating(" + strconv.Itoa(p.index) + ")"
}
