package tgbot

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// subscriptions maps a club slug to the chats notified about it.
type subscriptions struct {
	mu sync.RWMutex
	m  map[string]mapset.Set[int64]
}

func newSubs() *subscriptions {
	return &subscriptions{
		m: make(map[string]mapset.Set[int64]),
	}
}

func (s *subscriptions) Add(club string, chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m[club] == nil {
		s.m[club] = mapset.NewSet[int64]()
	}
	s.m[club].Add(chatID)
}

func (s *subscriptions) Remove(club string, chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m[club] == nil {
		return
	}
	s.m[club].Remove(chatID)
}

func (s *subscriptions) GetChatIDs(club string) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.m[club] == nil {
		return nil
	}
	return s.m[club].ToSlice()
}
