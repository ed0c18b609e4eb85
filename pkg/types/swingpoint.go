package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MarkType classifies a swing point relative to the prior structure. It is
// assigned by the market structure analyzer, not by the swing detector.
type MarkType string

const (
	MarkNone       MarkType = ""
	MarkHigherHigh MarkType = "HH"
	MarkLowerHigh  MarkType = "LH"
	MarkHigherLow  MarkType = "HL"
	MarkLowerLow   MarkType = "LL"
)

// SwingPoint is a confirmed local extreme. Direction up means a swing high,
// down a swing low. The point stays in the repositories after it is swept;
// only a removal event purges it.
type SwingPoint struct {
	Price     float64   `json:"price"`
	Time      time.Time `json:"time"`
	Index     int       `json:"index"`
	Direction Direction `json:"direction"`

	Swept      bool `json:"swept"`
	SweptIndex int  `json:"sweptIndex"`

	Mark MarkType `json:"mark"`

	// ActivatedLevels holds the ids of levels this point activated,
	// resolved through the level repository at read time.
	ActivatedLevels []uuid.UUID `json:"activatedLevels,omitempty"`
}

func NewSwingPoint(c Candle, dir Direction) *SwingPoint {
	price := c.High
	if dir == DirectionDown {
		price = c.Low
	}

	return &SwingPoint{
		Price:      price,
		Time:       c.StartTime,
		Index:      c.Index,
		Direction:  dir,
		SweptIndex: -1,
	}
}

// SweepBy marks the point as swept by the candle at the given index. The
// first sweeping candle wins.
func (p *SwingPoint) SweepBy(index int) {
	if p.Swept {
		return
	}

	p.Swept = true
	p.SweptIndex = index
}

// BreachedBy reports whether the candle trades beyond the point's price.
func (p *SwingPoint) BreachedBy(c Candle) bool {
	if p.Direction == DirectionUp {
		return c.High > p.Price
	}

	return c.Low < p.Price
}

func (p *SwingPoint) AttachLevel(id uuid.UUID) {
	p.ActivatedLevels = append(p.ActivatedLevels, id)
}

func (p *SwingPoint) String() string {
	return fmt.Sprintf("swing %s %.4f @%d %s", p.Direction, p.Price, p.Index, p.Mark)
}
