package session

import "sync"

// feed delivers the latest value to each new subscriber, then every published value in order.
// Callbacks run synchronously under the feed lock and must not subscribe or unsubscribe.
type feed[T any] struct {
	mu     sync.Mutex
	latest T
	nextID int
	subs   map[int]func(T)
	clone  func(T) T
}

func newFeed[T any](initial T, clone func(T) T) *feed[T] {
	return &feed[T]{
		latest: initial,
		subs:   make(map[int]func(T)),
		clone:  clone,
	}
}

func (f *feed[T]) subscribe(fn func(T)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	fn(f.clone(f.latest))

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
		})
	}
}

func (f *feed[T]) publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = f.clone(v)
	for _, fn := range f.subs {
		fn(f.clone(v))
	}
}

func (f *feed[T]) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func identity[T any](v T) T { return v }
