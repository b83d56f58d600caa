package records

// Predicate decides whether a row of a store is visible.
type Predicate interface {
	Matches(s *Store, h Handle) bool
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(s *Store, h Handle) bool

// Matches calls f(s, h).
func (f PredicateFunc) Matches(s *Store, h Handle) bool {
	return f(s, h)
}

// View is the subset of a store's rows accepted by a predicate, in store
// order. Membership is only recomputed by Refresh; positions handed out by
// the view refer to the last refresh.
type View struct {
	store   *Store
	pred    Predicate
	handles []Handle
}

// NewView returns a view over store that shows every row. Call Refresh to
// populate it.
func NewView(store *Store) *View {
	return &View{store: store}
}

// Store returns the underlying store.
func (v *View) Store() *Store {
	return v.store
}

// SetVisibilityPredicate replaces the predicate. A nil predicate shows every
// row. The view keeps its current membership until the next Refresh.
func (v *View) SetVisibilityPredicate(p Predicate) {
	v.pred = p
}

// Refresh rescans the store and keeps exactly the rows the predicate accepts.
func (v *View) Refresh() {
	v.handles = v.handles[:0]
	for h := range v.store.All() {
		if v.pred == nil || v.pred.Matches(v.store, h) {
			v.handles = append(v.handles, h)
		}
	}
}

// Len returns the number of visible rows.
func (v *View) Len() int {
	return len(v.handles)
}

// Handles returns a copy of the visible row handles in store order.
func (v *View) Handles() []Handle {
	out := make([]Handle, len(v.handles))
	copy(out, v.handles)
	return out
}

// ToStoreHandle translates a position in the view into the handle of the
// underlying row.
func (v *View) ToStoreHandle(pos int) (Handle, bool) {
	if pos < 0 || pos >= len(v.handles) {
		return Handle{}, false
	}
	return v.handles[pos], true
}

// Position returns the view position of h, or false when h is not visible.
func (v *View) Position(h Handle) (int, bool) {
	for i, candidate := range v.handles {
		if candidate == h {
			return i, true
		}
	}
	return 0, false
}
