package eventstore

import (
	"sync"

	"github.com/SaponinRacer/Market-Making/pkg/market/model"
)

type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[string][]*model.FillEvent
	latest map[string]*model.FillEvent
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[string][]*model.FillEvent),
		latest: make(map[string]*model.FillEvent),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.FillEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.Pair] = append(s.events[ev.Pair], ev)
	s.latest[ev.Pair] = ev
}

func (s *InMemoryEventStore) ByPair(pair string) []*model.FillEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.FillEvent(nil), s.events[pair]...)
}

func (s *InMemoryEventStore) Latest(pair string) *model.FillEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest[pair]
}
