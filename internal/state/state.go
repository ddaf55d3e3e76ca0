// Package state publishes a read-only view of the editor for observers
// outside the editor loop, such as the simulator's status line.
package state

import "sync"

type Phase int

const (
	BOOTING Phase = iota
	EDITING
	REINITIALIZING
	POWERING_OFF
	STOPPED
	FAILED
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case EDITING:
		return "editing"
	case REINITIALIZING:
		return "reinitializing"
	case POWERING_OFF:
		return "powering off"
	case STOPPED:
		return "stopped"
	case FAILED:
		return "failed"
	default:
		return "unknown"
	}
}

type State struct {
	Phase   Phase
	Lines   int
	Active  string
	Page    string
	Overlay string
	Err     string
}

type Store struct {
	mu    sync.RWMutex
	state State
	subs  []chan State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.Update(func(s *State) { s.Phase = phase })
}

// Update applies fn under the lock and notifies subscribers if the state
// changed.
func (store *Store) Update(fn func(*State)) {
	store.mu.Lock()
	defer store.mu.Unlock()
	before := store.state
	fn(&store.state)
	after := store.state
	if before == after {
		return
	}
	// Each channel holds at most one state: replace a value the reader has
	// not taken yet. Senders only run under the lock.
	for _, ch := range store.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- after:
		default:
		}
	}
}

// Subscribe returns a channel receiving the latest state after changes.
// Slow readers miss intermediate states but always see the newest one.
func (store *Store) Subscribe() <-chan State {
	ch := make(chan State, 1)
	store.mu.Lock()
	store.subs = append(store.subs, ch)
	store.mu.Unlock()
	return ch
}
