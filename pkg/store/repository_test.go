package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/quantbay/smc/pkg/types"
)

func TestRepositoryQueries(t *testing.T) {
	r := NewRepository[int]()
	for _, v := range []int{1, 2, 3, 4, 5} {
		r.Add(v)
	}

	assert.Equal(t, 5, r.Len())
	assert.Equal(t, []int{2, 4}, r.Filter(func(v int) bool { return v%2 == 0 }))
	assert.True(t, r.Any(func(v int) bool { return v == 3 }))
	assert.False(t, r.Any(func(v int) bool { return v == 9 }))

	v, ok := r.First(func(v int) bool { return v > 2 })
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = r.LastWhere(func(v int) bool { return v < 4 })
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = r.First(func(v int) bool { return v > 9 })
	assert.False(t, ok)
}

func TestRepositoryRemoveWherePreservesOrder(t *testing.T) {
	r := NewRepository[int]()
	for _, v := range []int{1, 2, 3, 4, 5} {
		r.Add(v)
	}

	removed := r.RemoveWhere(func(v int) bool { return v%2 == 0 })
	assert.Equal(t, 2, removed)
	assert.Equal(t, []int{1, 3, 5}, r.Items())
}

func TestSwingPointRepositoryQueries(t *testing.T) {
	r := NewSwingPointRepository()

	h1 := &types.SwingPoint{Price: 110, Index: 2, Direction: types.DirectionUp}
	l1 := &types.SwingPoint{Price: 90, Index: 5, Direction: types.DirectionDown}
	h2 := &types.SwingPoint{Price: 120, Index: 9, Direction: types.DirectionUp, Swept: true, SweptIndex: 12}

	r.Add(h1)
	r.Add(l1)
	r.Add(h2)

	assert.Len(t, r.All(), 3)
	assert.Equal(t, []*types.SwingPoint{h1, h2}, r.ByDirection(types.DirectionUp))
	assert.Equal(t, []*types.SwingPoint{h1}, r.Unswept(types.DirectionUp))

	p, ok := r.MostRecent(types.DirectionUp)
	assert.True(t, ok)
	assert.Equal(t, h2, p)

	assert.True(t, r.Remove(l1))
	assert.False(t, r.Remove(l1))
	assert.Len(t, r.All(), 2)
}

func TestLevelRepositoryQueries(t *testing.T) {
	r := NewLevelRepository()

	f1 := types.NewLevel(types.LevelFVG, types.DirectionUp, 100, 102)
	f2 := types.NewLevel(types.LevelFVG, types.DirectionDown, 104, 106)
	ob := types.NewLevel(types.LevelOrderBlock, types.DirectionUp, 98, 99)

	r.Add(f1)
	r.Add(f2)
	r.Add(ob)

	assert.Len(t, r.ByType(types.LevelFVG), 2)
	assert.Equal(t, []*types.Level{f1, ob}, r.ByDirection(types.DirectionUp))
	assert.Equal(t, []*types.Level{f1}, r.ByTypeAndDirection(types.LevelFVG, types.DirectionUp))

	lv, ok := r.ByID(f2.ID)
	assert.True(t, ok)
	assert.Equal(t, f2, lv)

	lv, ok = r.MostRecent(types.LevelFVG)
	assert.True(t, ok)
	assert.Equal(t, f2, lv)

	lv, ok = r.MostRecent(types.LevelFVG, types.DirectionUp)
	assert.True(t, ok)
	assert.Equal(t, f1, lv)

	_, ok = r.MostRecent(types.LevelCISD)
	assert.False(t, ok)
}

func TestLevelRepositoryByIDNil(t *testing.T) {
	r := NewLevelRepository()
	r.Add(types.NewLevel(types.LevelFVG, types.DirectionUp, 1, 2))

	_, ok := r.ByID(uuid.Nil)
	assert.False(t, ok)
}
