package schedule

import (
	"errors"
	"testing"

	"github.com/krillworks/krill/internal/core/ecs"
)

type trace struct{ order []string }

func record(w *ecs.World, label string) ecs.SystemFn {
	return func(w *ecs.World, _ *ecs.SystemState) {
		tr := ecs.MustResource[trace](w)
		tr.order = append(tr.order, label)
	}
}

func TestTickRunsPhasesInOrder(t *testing.T) {
	w := ecs.NewWorld()
	ecs.InsertResource(w, &trace{})

	s := New()
	// added out of phase order on purpose
	s.Add(PhasePersist, w.RegisterSystem(record(w, "persist")))
	s.Add(PhaseFirst, w.RegisterSystem(record(w, "first")))
	s.Add(PhaseUpdate, w.RegisterSystem(record(w, "update-a")))
	s.Add(PhaseUpdate, w.RegisterSystem(record(w, "update-b")))

	if err := s.Tick(w); err != nil {
		t.Fatal(err)
	}

	tr := ecs.MustResource[trace](w)
	want := []string{"first", "update-a", "update-b", "persist"}
	if len(tr.order) != len(want) {
		t.Fatalf("ran %d systems, want %d: %v", len(tr.order), len(want), tr.order)
	}
	for i := range want {
		if tr.order[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s (%v)", i, tr.order[i], want[i], tr.order)
		}
	}
}

func TestTickPreservesCachedState(t *testing.T) {
	w := ecs.NewWorld()
	ecs.InsertResource(w, &trace{})

	id := w.RegisterSystem(func(w *ecs.World, state *ecs.SystemState) {
		runs := ecs.Local[int](state)
		*runs++
		if *runs == 2 {
			tr := ecs.MustResource[trace](w)
			tr.order = append(tr.order, "second-run")
		}
	})

	s := New()
	s.Add(PhaseUpdate, id)
	if err := s.Tick(w); err != nil {
		t.Fatal(err)
	}
	if err := s.Tick(w); err != nil {
		t.Fatal(err)
	}

	tr := ecs.MustResource[trace](w)
	if len(tr.order) != 1 || tr.order[0] != "second-run" {
		t.Fatalf("local state did not persist across ticks: %v", tr.order)
	}
}

func TestTickSurfacesUnknownID(t *testing.T) {
	w := ecs.NewWorld()

	id := w.RegisterSystem(func(*ecs.World, *ecs.SystemState) {})
	w.RemoveSystem(id)

	s := New()
	s.Add(PhaseUpdate, id)

	err := s.Tick(w)
	var unknown *ecs.UnknownSystemError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSystemError, got %v", err)
	}
}
