package store

import (
	"github.com/quantbay/smc/pkg/types"
)

// SwingPointRepository holds every confirmed swing point, swept ones
// included; swept points are excluded from the active-extreme queries
// only.
type SwingPointRepository struct {
	*Repository[*types.SwingPoint]
}

func NewSwingPointRepository() *SwingPointRepository {
	return &SwingPointRepository{
		Repository: NewRepository[*types.SwingPoint](),
	}
}

func (r *SwingPointRepository) All() []*types.SwingPoint {
	return r.Items()
}

func (r *SwingPointRepository) ByDirection(d types.Direction) []*types.SwingPoint {
	return r.Filter(func(p *types.SwingPoint) bool {
		return p.Direction == d
	})
}

// Unswept returns the active extremes of the given direction.
func (r *SwingPointRepository) Unswept(d types.Direction) []*types.SwingPoint {
	return r.Filter(func(p *types.SwingPoint) bool {
		return p.Direction == d && !p.Swept
	})
}

// MostRecent returns the latest confirmed point of the given direction.
func (r *SwingPointRepository) MostRecent(d types.Direction) (*types.SwingPoint, bool) {
	return r.LastWhere(func(p *types.SwingPoint) bool {
		return p.Direction == d
	})
}

func (r *SwingPointRepository) Remove(p *types.SwingPoint) bool {
	return r.RemoveWhere(func(v *types.SwingPoint) bool {
		return v == p
	}) > 0
}
