package store

// Repository is an append-ordered in-memory collection with predicate
// queries. It backs the per-family pattern repositories.
//
// Not safe for concurrent mutation; the engine is single threaded by
// contract.
type Repository[T any] struct {
	items []T
}

func NewRepository[T any]() *Repository[T] {
	return &Repository[T]{}
}

func (r *Repository[T]) Add(v T) {
	r.items = append(r.items, v)
}

func (r *Repository[T]) Len() int {
	return len(r.items)
}

// Items returns the backing slice in insertion order. Callers must not
// append to it.
func (r *Repository[T]) Items() []T {
	return r.items
}

func (r *Repository[T]) Filter(pred func(T) bool) []T {
	var out []T
	for _, v := range r.items {
		if pred(v) {
			out = append(out, v)
		}
	}

	return out
}

func (r *Repository[T]) Any(pred func(T) bool) bool {
	for _, v := range r.items {
		if pred(v) {
			return true
		}
	}

	return false
}

func (r *Repository[T]) First(pred func(T) bool) (T, bool) {
	for _, v := range r.items {
		if pred(v) {
			return v, true
		}
	}

	var zero T
	return zero, false
}

// LastWhere returns the most recently inserted item matching the
// predicate.
func (r *Repository[T]) LastWhere(pred func(T) bool) (T, bool) {
	for i := len(r.items) - 1; i >= 0; i-- {
		if pred(r.items[i]) {
			return r.items[i], true
		}
	}

	var zero T
	return zero, false
}

// RemoveWhere deletes all matching items preserving order and returns how
// many were removed.
func (r *Repository[T]) RemoveWhere(pred func(T) bool) int {
	kept := r.items[:0]
	var removed int
	for _, v := range r.items {
		if pred(v) {
			removed++
			continue
		}
		kept = append(kept, v)
	}

	// clear the tail so removed pointers do not linger
	for i := len(kept); i < len(r.items); i++ {
		var zero T
		r.items[i] = zero
	}

	r.items = kept
	return removed
}
