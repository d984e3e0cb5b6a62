package strategies

import "sync"

// Memo runs each keyed computation at most once and hands every caller the same
// result. A nil Memo runs the computation on every call.
type Memo struct {
	mu      sync.Mutex
	entries map[string]*memoEntry
}

type memoEntry struct {
	once  sync.Once
	value any
	err   error
}

func NewMemo() *Memo {
	return &Memo{entries: make(map[string]*memoEntry)}
}

// Do returns the result of fn for key, calling fn only for the first caller.
// Concurrent callers of the same key wait for that call to finish.
func (m *Memo) Do(key string, fn func() (any, error)) (any, error) {
	if m == nil {
		return fn()
	}

	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &memoEntry{}
		m.entries[key] = e
	}
	m.mu.Unlock()

	e.once.Do(func() {
		e.value, e.err = fn()
	})
	return e.value, e.err
}
