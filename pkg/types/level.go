package types

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// LevelType tags the pattern family a level belongs to.
type LevelType string

const (
	LevelFVG            LevelType = "fvg"
	LevelOrderBlock     LevelType = "order_block"
	LevelBreakerBlock   LevelType = "breaker_block"
	LevelRejectionBlock LevelType = "rejection_block"
	LevelOrderFlow      LevelType = "order_flow"
	LevelCISD           LevelType = "cisd"
	LevelUnicorn        LevelType = "unicorn"
)

// Level is the generic record for every detected structure. The detectors
// mutate it in place as later bars confirm, activate, sweep or invert it.
// Back-references to other levels are id lookups through the repository,
// never owning pointers.
type Level struct {
	ID        uuid.UUID `json:"id"`
	Type      LevelType `json:"type"`
	Direction Direction `json:"direction"`

	Low  float64 `json:"low"`
	High float64 `json:"high"`

	LowTime  time.Time `json:"lowTime"`
	HighTime time.Time `json:"highTime"`

	// AnchorIndex is the candle the pattern hangs off; HighIndex and
	// LowIndex locate the candles defining each price edge.
	AnchorIndex int `json:"anchorIndex"`
	HighIndex   int `json:"highIndex"`
	LowIndex    int `json:"lowIndex"`

	Confirmed    bool `json:"confirmed"`
	ConfirmIndex int  `json:"confirmIndex"`

	Activated       bool `json:"activated"`
	ActivationIndex int  `json:"activationIndex"`

	// Inverted is set when an order block or gap is broken and repurposed
	// as a breaker; the original record is kept for the audit trail.
	Inverted bool `json:"inverted"`

	LiquiditySwept bool `json:"liquiditySwept"`

	SweptPoints []*SwingPoint `json:"sweptPoints,omitempty"`

	// RelatedID points at an associated level (a CISD's breaker block, a
	// unicorn's breaker block); SourceID at the level this one was cloned
	// from (a unicorn's source gap).
	RelatedID uuid.UUID `json:"relatedId"`
	SourceID  uuid.UUID `json:"sourceId"`

	Quadrants []Quadrant `json:"quadrants,omitempty"`
}

func NewLevel(t LevelType, dir Direction, low, high float64) *Level {
	return &Level{
		ID:              uuid.New(),
		Type:            t,
		Direction:       dir,
		Low:             low,
		High:            high,
		ConfirmIndex:    -1,
		ActivationIndex: -1,
	}
}

// Valid reports whether the level geometry is storable: finite prices with
// low not above high.
func (l *Level) Valid() bool {
	if l == nil {
		return false
	}

	if math.IsNaN(l.Low) || math.IsNaN(l.High) || math.IsInf(l.Low, 0) || math.IsInf(l.High, 0) {
		return false
	}

	return l.Low <= l.High
}

func (l *Level) Mid() float64 {
	return (l.Low + l.High) / 2
}

func (l *Level) MidTime() time.Time {
	if l.LowTime.IsZero() || l.HighTime.IsZero() {
		return l.LowTime
	}

	return l.LowTime.Add(l.HighTime.Sub(l.LowTime) / 2)
}

// IsActive is derived, never stored: a level is active while it has not
// been liquidity swept and at least one quadrant (if any) is unswept.
func (l *Level) IsActive() bool {
	if l.LiquiditySwept {
		return false
	}

	if len(l.Quadrants) == 0 {
		return true
	}

	for _, q := range l.Quadrants {
		if !q.Swept {
			return true
		}
	}

	return false
}

// Overlaps reports open-interval price overlap with another level.
func (l *Level) Overlaps(o *Level) bool {
	if o == nil {
		return false
	}

	return !(l.High < o.Low || l.Low > o.High)
}

// CoversIndex reports whether the index is one of the level's three
// defining candle indexes.
func (l *Level) CoversIndex(i int) bool {
	return l.AnchorIndex == i || l.HighIndex == i || l.LowIndex == i
}

// AttachQuadrants builds the quadrant set from the current price range.
func (l *Level) AttachQuadrants() {
	l.Quadrants = BuildQuadrants(l.Low, l.High)
}

// SweepQuadrants marks every unswept quadrant covered by the candle range
// and returns how many were swept by this candle.
func (l *Level) SweepQuadrants(c Candle) int {
	var n int
	for i := range l.Quadrants {
		if l.Quadrants[i].SweepBy(c) {
			n++
		}
	}

	return n
}

func (l *Level) String() string {
	return fmt.Sprintf("%s %s [%.4f, %.4f] @%d", l.Type, l.Direction, l.Low, l.High, l.AnchorIndex)
}
