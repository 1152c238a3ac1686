package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Listener receives a snapshot after every reduction.
type Listener func(State)

// Option configures a Store.
type Option func(*Store)

// WithInitialState starts the store from s instead of InitialState().
func WithInitialState(s State) Option {
	return func(st *Store) { st.state = s.clone() }
}

// WithRequestTimeout bounds every remote call made by effect runs.
func WithRequestTimeout(d time.Duration) Option {
	return func(st *Store) { st.timeout = d }
}

// WithContext sets the parent context of every effect run. Cancelling it
// fails in-flight remote calls.
func WithContext(ctx context.Context) Option {
	return func(st *Store) { st.parent = ctx }
}

type subscription struct {
	id uint64
	fn Listener
}

// Store owns the product view state. State changes only through Dispatch;
// requested intents additionally start effect runs whose follow-up intents
// are dispatched back into the same store.
//
// Snapshots reach listeners in the order the reductions happened, one at a
// time, even when effect runs settle concurrently.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []subscription
	nextID    uint64
	closed    bool

	// pending holds snapshots not yet delivered, oldest first. At most one
	// goroutine drains it at a time.
	pending    []State
	delivering bool

	// busy counts undelivered snapshots plus running effect runs.
	busy int
	idle *sync.Cond

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	effects *Orchestrator
}

// NewStore constructs a Store backed by api.
func NewStore(api ProductAPI, opts ...Option) *Store {
	s := &Store{
		state:  InitialState(),
		parent: context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.idle = sync.NewCond(&s.mu)
	s.ctx, s.cancel = context.WithCancel(s.parent)
	s.effects = NewOrchestrator(api, s.timeout)
	return s
}

// Dispatch reduces in into the state, queues the new snapshot for listeners
// and, for requested kinds, starts an effect run. It is safe for concurrent
// use. Once the store is closed, requested intents are dropped so no
// in-flight flag is raised that nothing would settle.
func (s *Store) Dispatch(in Intent) {
	s.mu.Lock()
	if s.closed && s.effects.watches(in.Kind) {
		s.mu.Unlock()
		log.Debug().Str("intent_id", in.ID).Str("kind", string(in.Kind)).Msg("Store closed, dropping intent")
		return
	}
	s.state = Reduce(s.state, in)
	s.pending = append(s.pending, s.state.clone())
	s.busy++
	drain := !s.delivering
	s.delivering = true
	s.mu.Unlock()

	log.Debug().Str("intent_id", in.ID).Str("kind", string(in.Kind)).Msg("Intent dispatched")

	if drain {
		s.deliver()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.effects.watches(in.Kind) {
		return
	}
	s.busy++
	s.effects.handle(s.ctx, in, s.Dispatch, s.settle)
}

// deliver hands queued snapshots to the listeners until the queue is empty.
// A listener that dispatches only queues its snapshot; it is delivered by
// this loop once the current one has reached every listener.
func (s *Store) deliver() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			s.mu.Unlock()
			return
		}
		snapshot := s.pending[0]
		s.pending = s.pending[1:]
		listeners := make([]Listener, len(s.listeners))
		for i, sub := range s.listeners {
			listeners[i] = sub.fn
		}
		s.mu.Unlock()

		for _, l := range listeners {
			notify(l, snapshot.clone())
		}
		s.settle()
	}
}

func notify(l Listener, snapshot State) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Msg("Store listener panicked")
		}
	}()
	l(snapshot)
}

func (s *Store) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy--
	if s.busy == 0 {
		s.idle.Broadcast()
	}
}

// Subscribe registers l and returns a function that removes it. Listeners
// are called in subscription order, one snapshot at a time, and may dispatch.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// GetState returns a snapshot of the current state.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Wait blocks until all in-flight effect runs have settled and every
// snapshot has been delivered. It must not be called from a listener.
func (s *Store) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.busy > 0 {
		s.idle.Wait()
	}
}

// Close stops starting new effect runs, cancels in-flight remote calls and
// waits for them to settle. Terminal intents still reduce afterwards, so
// late results settle their flags, and the state stays readable.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.Wait()
}
