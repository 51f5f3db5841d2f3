package bridge

import "sync"

// Handler receives a decoded message.
type Handler func(Message)

// Endpoint is one side of a bridge.
type Endpoint interface {
	// Notify sends m to the other side. It never blocks on the receiver and
	// never reports delivery.
	Notify(m Message)

	// OnMessage registers h for messages arriving from the other side, in
	// arrival order. The returned function unregisters h; calling it more
	// than once is harmless.
	OnMessage(h Handler) func()
}

// Handlers is a registration list that dispatches to every handler in
// registration order. The zero value is ready to use.
type Handlers struct {
	mu      sync.Mutex
	entries []handlerEntry
	nextID  int
}

type handlerEntry struct {
	id int
	fn Handler
}

// Add registers h and returns its idempotent unregister function.
func (hs *Handlers) Add(h Handler) func() {
	hs.mu.Lock()
	id := hs.nextID
	hs.nextID++
	hs.entries = append(hs.entries, handlerEntry{id: id, fn: h})
	hs.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			hs.mu.Lock()
			defer hs.mu.Unlock()
			for i, e := range hs.entries {
				if e.id == id {
					hs.entries = append(hs.entries[:i:i], hs.entries[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch calls every registered handler with m. Handlers run outside the
// lock and may register or unregister handlers themselves.
func (hs *Handlers) Dispatch(m Message) int {
	hs.mu.Lock()
	fns := make([]Handler, len(hs.entries))
	for i, e := range hs.entries {
		fns[i] = e.fn
	}
	hs.mu.Unlock()

	for _, fn := range fns {
		fn(m)
	}
	return len(fns)
}

// Len returns the number of registered handlers.
func (hs *Handlers) Len() int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return len(hs.entries)
}

// Clear unregisters every handler.
func (hs *Handlers) Clear() {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.entries = nil
}
