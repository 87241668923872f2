// Package worklist provides the queue and fixed-point loop every closure and
// set computation in this module is built on.
package worklist

// List is a FIFO queue that holds each item at most once at a time.
type List[T comparable] struct {
	items  []T
	queued map[T]struct{}
}

func New[T comparable](items ...T) *List[T] {
	l := &List[T]{
		queued: map[T]struct{}{},
	}
	for _, item := range items {
		l.Push(item)
	}
	return l
}

// Push enqueues item unless it is already waiting in the queue.
func (l *List[T]) Push(item T) bool {
	if _, ok := l.queued[item]; ok {
		return false
	}
	l.queued[item] = struct{}{}
	l.items = append(l.items, item)
	return true
}

func (l *List[T]) Pop() (T, bool) {
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	item := l.items[0]
	l.items[0] = zero
	l.items = l.items[1:]
	delete(l.queued, item)
	return item, true
}

func (l *List[T]) Len() int {
	return len(l.items)
}

// Drain pops items until the queue is empty. visit may push new items.
func (l *List[T]) Drain(visit func(item T) error) error {
	for {
		item, ok := l.Pop()
		if !ok {
			return nil
		}
		if err := visit(item); err != nil {
			return err
		}
	}
}

// Until runs step until it reports that nothing changed. step must be monotone,
// otherwise Until may not terminate.
func Until(step func() (bool, error)) error {
	for {
		changed, err := step()
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
}

// Seen records visited items. It complements List for traversals where an item
// must be processed only once in total.
type Seen[T comparable] map[T]struct{}

// Add reports whether item was not seen before.
func (s Seen[T]) Add(item T) bool {
	if _, ok := s[item]; ok {
		return false
	}
	s[item] = struct{}{}
	return true
}

func (s Seen[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}
