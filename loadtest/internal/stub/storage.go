package stub

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"
)

// Class is one seeded synthetic class, stored with its parsed start time.
type Class struct {
	Title        string
	StartTime    time.Time
	Duration     time.Duration
	EventType    string
	Cancelled    bool
	SkipEvent    bool
	SkipDocument bool
}

type ClassStorage struct {
	mu      sync.RWMutex
	classes map[string][]*Class // runID -> classes
}

func NewClassStorage() *ClassStorage {
	return &ClassStorage{
		classes: make(map[string][]*Class),
	}
}

func (s *ClassStorage) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.classes, runID)
}

func (s *ClassStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = make(map[string][]*Class)
}

func (s *ClassStorage) AddClass(runID string, class *Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[runID] = append(s.classes[runID], class)
}

// Events renders the seeded classes as platform events. IDs are derived from
// the run and class identity so repeated fetches return identical payloads.
func (s *ClassStorage) Events(runID string) []EventResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]EventResponse, 0)
	for _, class := range s.classes[runID] {
		if class.SkipEvent {
			continue
		}

		start := class.StartTime.UTC()
		events = append(events, EventResponse{
			ID:        generateEventID(runID, class.Title, start),
			Name:      class.Title,
			Start:     start.Format(time.RFC3339),
			End:       start.Add(class.Duration).Format(time.RFC3339),
			Type:      class.EventType,
			Cancelled: class.Cancelled,
		})
	}
	return events
}

// Document renders the seeded classes as a class-plan document in the format
// the schedule parser expects: weekday headings, an explicit date line and a
// title line per block.
func (s *ClassStorage) Document(runID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	for _, class := range s.classes[runID] {
		if class.SkipDocument {
			continue
		}

		fmt.Fprintf(&b, "### %s — %s\n\n", class.StartTime.Weekday(), class.Title)
		fmt.Fprintf(&b, "Original Class Date: %s\n", class.StartTime.Format("January 2, 2006"))
		fmt.Fprintf(&b, "Class Title: %s\n\n", class.Title)
		b.WriteString("Description:\n")
		fmt.Fprintf(&b, "Synthetic %s session seeded for a load run.\n\n", class.Title)
		b.WriteString(strings.Repeat("-", 40) + "\n\n")
	}
	return b.String()
}

func generateEventID(runID, title string, start time.Time) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s-%s-%s", runID, title, start.Format("20060102150405"))
	// Keep IDs positive and well away from zero, which the client treats as
	// "no usable id".
	return int(h.Sum32()%9_000_000) + 1_000_000
}
