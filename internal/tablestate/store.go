// Package tablestate carries the "table was just freed" fact between
// screens. The table list was fetched before the close-out happened and has
// no live feed from the backend, so the closure side records releases here
// and the list side consumes them exactly once.
package tablestate

import "sync"

type Store struct {
	mu    sync.Mutex
	freed map[int64]struct{}
	subs  map[int]chan int64
	next  int
}

func NewStore() *Store {
	return &Store{
		freed: make(map[int64]struct{}),
		subs:  make(map[int]chan int64),
	}
}

// MarkFreed records a release and fans it out to subscribers. Subscribers
// that are not draining are skipped rather than blocked on.
func (s *Store) MarkFreed(tableID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.freed[tableID] = struct{}{}
	for _, ch := range s.subs {
		select {
		case ch <- tableID:
		default:
		}
	}
}

// Consume reports whether the table was freed since the last check, and
// clears the flag. One-shot on purpose: honoring the signal twice would turn
// navigation into a refetch loop.
func (s *Store) Consume(tableID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.freed[tableID]; !ok {
		return false
	}
	delete(s.freed, tableID)
	return true
}

// ConsumeAll drains every pending release. The table list does not care
// which table was freed, only that its snapshot is stale.
func (s *Store) ConsumeAll() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.freed) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(s.freed))
	for id := range s.freed {
		ids = append(ids, id)
	}
	s.freed = make(map[int64]struct{})
	return ids
}

// Subscribe returns a channel of freed table IDs and a cancel func.
func (s *Store) Subscribe() (<-chan int64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan int64, 16)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}
