package types

// StdDevProjection projects the -2 and -4 standard deviation extensions of
// the most recent structural leg beyond the breaking extreme. It is minted
// on a break of structure and replaced whenever either anchor moves.
type StdDevProjection struct {
	Direction Direction `json:"direction"`

	AnchorLow  float64 `json:"anchorLow"`
	AnchorHigh float64 `json:"anchorHigh"`

	AnchorLowIndex  int `json:"anchorLowIndex"`
	AnchorHighIndex int `json:"anchorHighIndex"`

	Minus2 float64 `json:"minus2"`
	Minus4 float64 `json:"minus4"`

	Minus2Swept bool `json:"minus2Swept"`
	Minus4Swept bool `json:"minus4Swept"`
}

// NewStdDevProjection builds the projection for a leg from anchorLow to
// anchorHigh. For an up leg the extensions sit above the high; for a down
// leg below the low.
func NewStdDevProjection(dir Direction, anchorLow, anchorHigh float64, lowIndex, highIndex int) *StdDevProjection {
	r := anchorHigh - anchorLow
	p := &StdDevProjection{
		Direction:       dir,
		AnchorLow:       anchorLow,
		AnchorHigh:      anchorHigh,
		AnchorLowIndex:  lowIndex,
		AnchorHighIndex: highIndex,
	}

	if dir == DirectionUp {
		p.Minus2 = anchorHigh + 2*r
		p.Minus4 = anchorHigh + 4*r
	} else {
		p.Minus2 = anchorLow - 2*r
		p.Minus4 = anchorLow - 4*r
	}

	return p
}

// Update marks the projection prices the candle has traded through. Each
// projection price carries its own swept flag.
func (p *StdDevProjection) Update(c Candle) {
	if p.Direction == DirectionUp {
		if !p.Minus2Swept && c.High >= p.Minus2 {
			p.Minus2Swept = true
		}
		if !p.Minus4Swept && c.High >= p.Minus4 {
			p.Minus4Swept = true
		}
		return
	}

	if !p.Minus2Swept && c.Low <= p.Minus2 {
		p.Minus2Swept = true
	}
	if !p.Minus4Swept && c.Low <= p.Minus4 {
		p.Minus4Swept = true
	}
}

// AnchoredTo reports whether the projection hangs off the swing point at
// the given index.
func (p *StdDevProjection) AnchoredTo(index int) bool {
	return p.AnchorLowIndex == index || p.AnchorHighIndex == index
}
