package events

import (
	"github.com/quantbay/smc/pkg/types"
)

// Topic identifies one event kind. The set is closed: detectors publish
// exactly one topic per detection kind and subscribers key on it.
type Topic int

const (
	TopicSwingDetected Topic = iota
	TopicSwingSwept
	TopicSwingRemoved

	TopicBreakOfStructure
	TopicChangeOfCharacter
	TopicInducementUpdated

	TopicLevelDetected
	TopicLevelConfirmed
	TopicLevelActivated
	TopicLevelSwept
	TopicLevelRemoved
)

var topicNames = map[Topic]string{
	TopicSwingDetected:     "swing_detected",
	TopicSwingSwept:        "swing_swept",
	TopicSwingRemoved:      "swing_removed",
	TopicBreakOfStructure:  "break_of_structure",
	TopicChangeOfCharacter: "change_of_character",
	TopicInducementUpdated: "inducement_updated",
	TopicLevelDetected:     "level_detected",
	TopicLevelConfirmed:    "level_confirmed",
	TopicLevelActivated:    "level_activated",
	TopicLevelSwept:        "level_swept",
	TopicLevelRemoved:      "level_removed",
}

func (t Topic) String() string {
	if s, ok := topicNames[t]; ok {
		return s
	}

	return "unknown"
}

// Event is a tagged value: Topic says which payload fields are set. Point
// is set for swing and structure topics, Level for level topics,
// Projection optionally on a break of structure.
type Event struct {
	Topic     Topic
	Index     int
	Direction types.Direction

	Point      *types.SwingPoint
	Level      *types.Level
	Projection *types.StdDevProjection
}

type Handler func(e Event)

// Bus is a synchronous publish/subscribe mediator. Publish invokes every
// handler registered for the event's topic, in registration order, before
// returning. Handlers may publish again; termination is the publisher's
// contract (dedup checks and idempotent transitions in the detectors).
//
// The bus is not safe for concurrent use; the engine is single threaded by
// contract.
type Bus struct {
	handlers map[Topic][]Handler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Topic][]Handler),
	}
}

func (b *Bus) Subscribe(t Topic, h Handler) {
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *Bus) Publish(e Event) {
	for _, h := range b.handlers[e.Topic] {
		h(e)
	}
}
