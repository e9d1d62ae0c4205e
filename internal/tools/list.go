package tools

// List is an ordered, index-addressed collection edited in place.
// Duplicates and empty entries are allowed.
type List[T any] struct {
	items []T
}

func NewList[T any](items []T) *List[T] {
	return &List[T]{items: append([]T{}, items...)}
}

func (l *List[T]) Add(v T) { l.items = append(l.items, v) }

// Set replaces the item at i. Out-of-range indexes are ignored.
func (l *List[T]) Set(i int, v T) {
	if i >= 0 && i < len(l.items) {
		l.items[i] = v
	}
}

// Remove deletes the item at i, shifting later items down.
func (l *List[T]) Remove(i int) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
}

func (l *List[T]) Len() int { return len(l.items) }

// Items returns a copy.
func (l *List[T]) Items() []T { return append([]T{}, l.items...) }
