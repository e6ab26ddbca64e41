// Package schedule drives registered systems in phase order each tick.
package schedule

import (
	"fmt"
	"sort"

	"github.com/krillworks/krill/internal/core/ecs"
)

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseFirst      Phase = iota // event swap, input
	PhaseUpdate                  // main simulation logic
	PhasePostUpdate              // derived state, reactions
	PhasePersist                 // snapshots, saves
	PhaseLast                    // cleanup
)

func (p Phase) String() string {
	switch p {
	case PhaseFirst:
		return "first"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhasePersist:
		return "persist"
	case PhaseLast:
		return "last"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

type entry struct {
	phase Phase
	id    ecs.SystemID
}

// Schedule holds system ids grouped into phases. Within a phase, systems run
// in the order they were added.
type Schedule struct {
	entries []entry
	sorted  bool
}

func New() *Schedule {
	return &Schedule{entries: make([]entry, 0, 16)}
}

func (s *Schedule) Add(phase Phase, id ecs.SystemID) {
	s.entries = append(s.entries, entry{phase: phase, id: id})
	s.sorted = false
}

// Len reports how many systems are scheduled.
func (s *Schedule) Len() int { return len(s.entries) }

// Tick runs every scheduled system once, in phase order, through the world's
// one-shot path so cached state and deferred commands behave exactly as they
// do for any registered system.
func (s *Schedule) Tick(w *ecs.World) error {
	s.ensureSorted()
	for _, e := range s.entries {
		if err := w.RunSystemByID(e.id); err != nil {
			return fmt.Errorf("%s phase: %w", e.phase, err)
		}
	}
	return nil
}

func (s *Schedule) ensureSorted() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].phase < s.entries[j].phase
	})
	s.sorted = true
}
