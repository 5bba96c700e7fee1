// Package match pairs parsed class entries with booking-platform events so
// reminders can carry a direct join link.
package match

import (
	"sort"
	"strings"
	"time"

	"github.com/rdleal/intervalst/interval"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

// querySlack widens the tree query so candidacy at the tolerance boundary is
// decided by the exact diff filter below, not by the tree's endpoint
// semantics.
const querySlack = time.Minute

// EventIndex answers join-link lookups for class entries. Events with
// unparseable start times never become candidates. Construction parses each
// start once; lookups are interval-tree queries over start instants.
type EventIndex struct {
	events    []domain.Event
	starts    map[int]time.Time
	tree      *interval.SearchTree[[]int, time.Time]
	tolerance time.Duration
	joinBase  string
}

// NewEventIndex builds an index over events. tolerance bounds the start-time
// difference for a candidate match; joinBase is the URL prefix joined with
// the matched event id.
func NewEventIndex(events []domain.Event, tolerance time.Duration, joinBase string) *EventIndex {
	ix := &EventIndex{
		events:    events,
		starts:    make(map[int]time.Time, len(events)),
		tolerance: tolerance,
		joinBase:  strings.TrimRight(joinBase, "/"),
	}
	if len(events) == 0 {
		return ix
	}

	ix.tree = interval.NewSearchTree[[]int](func(x, y time.Time) int { return x.Compare(y) })

	// Group events sharing a start instant: inserting the same interval
	// twice would replace the earlier value.
	groups := make(map[int64][]int)
	groupStart := make(map[int64]time.Time)
	for i, event := range events {
		start, err := event.Start()
		if err != nil {
			continue
		}
		start = start.UTC()
		ix.starts[i] = start

		key := start.UnixNano()
		groups[key] = append(groups[key], i)
		groupStart[key] = start
	}

	for key, idxs := range groups {
		start := groupStart[key]
		if err := ix.tree.Insert(start.Add(-tolerance), start.Add(tolerance), idxs); err != nil {
			continue
		}
	}

	return ix
}

type candidate struct {
	idx            int
	exactMismatch  int
	substrMismatch int
	diff           time.Duration
}

// JoinReferenceFor returns the join URL for the event best matching the
// entry, or false when no candidate survives: no event within tolerance, the
// best candidate lacks an id, or no join base is configured. Ties on the
// rank tuple keep event-list order.
func (ix *EventIndex) JoinReferenceFor(entry domain.ClassEntry) (string, bool) {
	if ix == nil || ix.tree == nil || ix.joinBase == "" {
		return "", false
	}

	target := entry.StartAt.UTC()
	groups, ok := ix.tree.AllIntersections(target.Add(-querySlack), target.Add(querySlack))
	if !ok {
		return "", false
	}

	var cands []candidate
	for _, group := range groups {
		for _, i := range group {
			diff := absDuration(ix.starts[i].Sub(target))
			if diff > ix.tolerance {
				continue
			}
			exact, substr := nameRank(ix.events[i].Name, entry.Title)
			cands = append(cands, candidate{
				idx:            i,
				exactMismatch:  exact,
				substrMismatch: substr,
				diff:           diff,
			})
		}
	}
	if len(cands) == 0 {
		return "", false
	}

	// Tree results come back in tree order; restore event-list order before
	// the stable rank sort so ties resolve deterministically.
	sort.Slice(cands, func(a, b int) bool { return cands[a].idx < cands[b].idx })
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].exactMismatch != cands[b].exactMismatch {
			return cands[a].exactMismatch < cands[b].exactMismatch
		}
		if cands[a].substrMismatch != cands[b].substrMismatch {
			return cands[a].substrMismatch < cands[b].substrMismatch
		}
		return cands[a].diff < cands[b].diff
	})

	id := ix.events[cands[0].idx].ID
	if id == "" {
		return "", false
	}
	return ix.joinBase + "/" + id, true
}

// nameRank scores the title comparison: (0,0) for an exact case-insensitive
// match, (1,0) for a substring match in either direction, (1,1) otherwise.
// Empty names never match.
func nameRank(eventName, title string) (exactMismatch, substrMismatch int) {
	name := strings.ToLower(strings.TrimSpace(eventName))
	want := strings.ToLower(strings.TrimSpace(title))
	if name == "" || want == "" {
		return 1, 1
	}
	if name == want {
		return 0, 0
	}
	if strings.Contains(name, want) || strings.Contains(want, name) {
		return 1, 0
	}
	return 1, 1
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
