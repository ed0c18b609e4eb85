package types

import (
	"fmt"
	"math"
	"time"
)

// Candle is a single closed bar. It is immutable once it enters the candle
// store; every other entity refers to it by Index instead of holding it.
type Candle struct {
	Index     int       `json:"index"`
	StartTime time.Time `json:"startTime"`

	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

func (c Candle) Direction() Direction {
	switch {
	case c.Close > c.Open:
		return DirectionUp
	case c.Close < c.Open:
		return DirectionDown
	}

	return DirectionNone
}

func (c Candle) Body() float64 {
	return math.Abs(c.Close - c.Open)
}

func (c Candle) Range() float64 {
	return c.High - c.Low
}

func (c Candle) Mid() float64 {
	return (c.High + c.Low) / 2
}

func (c Candle) UpperWick() float64 {
	return c.High - math.Max(c.Open, c.Close)
}

func (c Candle) LowerWick() float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

func (c Candle) String() string {
	return fmt.Sprintf("#%d O:%.4f H:%.4f L:%.4f C:%.4f %s",
		c.Index, c.Open, c.High, c.Low, c.Close,
		c.StartTime.Format("2006-01-02 15:04"))
}
