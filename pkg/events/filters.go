package events

import (
	"github.com/quantbay/smc/pkg/types"
)

// LevelTypeFilter wraps a handler so it only fires for events carrying a
// level of the given family.
func LevelTypeFilter(t types.LevelType, h Handler) Handler {
	return func(e Event) {
		if e.Level == nil || e.Level.Type != t {
			return
		}

		h(e)
	}
}

// DirectionFilter wraps a handler so it only fires for events with the
// given direction.
func DirectionFilter(d types.Direction, h Handler) Handler {
	return func(e Event) {
		if e.Direction != d {
			return
		}

		h(e)
	}
}
