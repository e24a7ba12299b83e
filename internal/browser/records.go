package browser

import (
	"fmt"
	"sync"

	"pagePerception/internal/perception"
)

// recordSet хранит последний набор интерактивных элементов. Действия по индексу
// разрешаются только через него; переход страницы набор сбрасывает.
type recordSet struct {
	mu      sync.RWMutex
	url     string
	records map[int]perception.ElementRecord
}

func (s *recordSet) replace(url string, records []perception.ElementRecord) {
	byIndex := make(map[int]perception.ElementRecord, len(records))
	for _, r := range records {
		byIndex[r.Index] = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
	s.records = byIndex
}

func (s *recordSet) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = ""
	s.records = nil
}

func (s *recordSet) resolve(index int) (perception.ElementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.records == nil {
		return perception.ElementRecord{}, fmt.Errorf("%w: %d (набор пуст, сначала получите список элементов)", ErrUnknownIndex, index)
	}
	r, ok := s.records[index]
	if !ok {
		return perception.ElementRecord{}, fmt.Errorf("%w: %d (всего %d)", ErrUnknownIndex, index, len(s.records))
	}
	return r, nil
}

func (s *recordSet) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
