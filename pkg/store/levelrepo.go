package store

import (
	"github.com/google/uuid"

	"github.com/quantbay/smc/pkg/types"
)

// LevelRepository holds every detected level across all pattern families.
// Each detector owns the slice matching its own type tag.
type LevelRepository struct {
	*Repository[*types.Level]
}

func NewLevelRepository() *LevelRepository {
	return &LevelRepository{
		Repository: NewRepository[*types.Level](),
	}
}

func (r *LevelRepository) All() []*types.Level {
	return r.Items()
}

func (r *LevelRepository) ByType(t types.LevelType) []*types.Level {
	return r.Filter(func(l *types.Level) bool {
		return l.Type == t
	})
}

func (r *LevelRepository) ByDirection(d types.Direction) []*types.Level {
	return r.Filter(func(l *types.Level) bool {
		return l.Direction == d
	})
}

func (r *LevelRepository) ByTypeAndDirection(t types.LevelType, d types.Direction) []*types.Level {
	return r.Filter(func(l *types.Level) bool {
		return l.Type == t && l.Direction == d
	})
}

func (r *LevelRepository) ByID(id uuid.UUID) (*types.Level, bool) {
	if id == uuid.Nil {
		return nil, false
	}

	return r.First(func(l *types.Level) bool {
		return l.ID == id
	})
}

// MostRecent returns the latest stored level of the given type, optionally
// narrowed to one direction.
func (r *LevelRepository) MostRecent(t types.LevelType, dir ...types.Direction) (*types.Level, bool) {
	return r.LastWhere(func(l *types.Level) bool {
		if l.Type != t {
			return false
		}
		if len(dir) > 0 && l.Direction != dir[0] {
			return false
		}
		return true
	})
}

func (r *LevelRepository) Remove(l *types.Level) bool {
	return r.RemoveWhere(func(v *types.Level) bool {
		return v == l
	}) > 0
}
