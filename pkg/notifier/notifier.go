package notifier

import (
	"fmt"

	"github.com/quantbay/smc/pkg/events"
	"github.com/quantbay/smc/pkg/types"
)

// Notifier is the outbound notification collaborator. The engine never
// requires one; Bind attaches an implementation to the event stream.
type Notifier interface {
	Notify(format string, args ...interface{})
}

// Bind subscribes the notifier to the externally interesting topics.
func Bind(bus *events.Bus, n Notifier) {
	bus.Subscribe(events.TopicBreakOfStructure, func(e events.Event) {
		n.Notify("BOS %s at %s", e.Direction, formatPoint(e.Point))
	})

	bus.Subscribe(events.TopicChangeOfCharacter, func(e events.Event) {
		n.Notify("CHOCH %s at %s", e.Direction, formatPoint(e.Point))
	})

	bus.Subscribe(events.TopicLevelDetected, func(e events.Event) {
		n.Notify("%s %s detected: %.4f - %.4f", e.Level.Type, e.Direction, e.Level.Low, e.Level.High)
	})

	bus.Subscribe(events.TopicLevelConfirmed, func(e events.Event) {
		n.Notify("%s %s confirmed at bar %d", e.Level.Type, e.Direction, e.Index)
	})

	bus.Subscribe(events.TopicLevelActivated, func(e events.Event) {
		n.Notify("%s %s activated at bar %d", e.Level.Type, e.Direction, e.Index)
	})
}

func formatPoint(p *types.SwingPoint) string {
	if p == nil {
		return "?"
	}

	return fmt.Sprintf("%.4f (bar %d)", p.Price, p.Index)
}
