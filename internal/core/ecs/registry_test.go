package ecs

import (
	"errors"
	"testing"
)

// test resources
type counter struct{ n int }

type changeDetector struct{}

func countUp(w *World, _ *SystemState) {
	c, _ := ResourceMut[counter](w)
	c.n++
}

func TestRunSystemAdHoc(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	w.RunSystem(countUp)
	if c := MustResource[counter](w); c.n != 1 {
		t.Fatalf("expected counter 1, got %d", c.n)
	}
	w.RunSystem(countUp)
	if c := MustResource[counter](w); c.n != 2 {
		t.Fatalf("expected counter 2 after second run, got %d", c.n)
	}
}

func TestRegisterAndRunByID(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	id := w.RegisterSystem(countUp)
	if err := w.RunSystemByID(id); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if c := MustResource[counter](w); c.n != 1 {
		t.Fatalf("expected counter 1, got %d", c.n)
	}
	if err := w.RunSystemByID(id); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if c := MustResource[counter](w); c.n != 2 {
		t.Fatalf("expected counter 2, got %d", c.n)
	}
}

func TestRunByIDUnknown(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	err := w.RunSystemByID(SystemID{id: 999})
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	var unknown *UnknownSystemError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSystemError, got %T", err)
	}
	if unknown.ID != (SystemID{id: 999}) {
		t.Fatalf("error carries wrong id: %v", unknown.ID)
	}
	if c := MustResource[counter](w); c.n != 0 {
		t.Fatalf("world mutated on unknown id: counter %d", c.n)
	}
}

func TestRemoveThenRunByID(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	id := w.RegisterSystem(countUp)
	w.RemoveSystem(id)

	var unknown *UnknownSystemError
	if err := w.RunSystemByID(id); !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSystemError after remove, got %v", err)
	}
	// removing again is a no-op
	w.RemoveSystem(id)
}

func TestRegisterAllocatesFreshIDs(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	a := w.RegisterSystem(countUp)
	b := w.RegisterSystem(countUp)
	if a == b {
		t.Fatal("registering identical logic twice must yield distinct ids")
	}

	w.RemoveSystem(b)
	c := w.RegisterSystem(countUp)
	if c == a || c == b {
		t.Fatalf("ids must never be reused: a=%v b=%v c=%v", a, b, c)
	}
}

func TestChangeDetection(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})
	InsertResource(w, &changeDetector{})

	id := w.RegisterSystem(func(w *World, state *SystemState) {
		if ResourceChanged[changeDetector](w, state) {
			c, _ := ResourceMut[counter](w)
			c.n++
		}
	})

	// freshly added resources read as changed on the first run
	if err := w.RunSystemByID(id); err != nil {
		t.Fatal(err)
	}
	if c := MustResource[counter](w); c.n != 1 {
		t.Fatalf("first run: expected 1, got %d", c.n)
	}

	// nothing changed since
	if err := w.RunSystemByID(id); err != nil {
		t.Fatal(err)
	}
	if c := MustResource[counter](w); c.n != 1 {
		t.Fatalf("second run: expected 1, got %d", c.n)
	}

	MarkChanged[changeDetector](w)
	if err := w.RunSystemByID(id); err != nil {
		t.Fatal(err)
	}
	if c := MustResource[counter](w); c.n != 2 {
		t.Fatalf("third run: expected 2, got %d", c.n)
	}
}

func TestChangeDetectionIgnoresOwnWrites(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	// gated on the very resource it mutates: fires once for the fresh add,
	// then settles, because a run's own writes are not changes to it
	id := w.RegisterSystem(func(w *World, state *SystemState) {
		if ResourceChanged[counter](w, state) {
			c, _ := ResourceMut[counter](w)
			c.n++
		}
	})

	for i := 0; i < 3; i++ {
		if err := w.RunSystemByID(id); err != nil {
			t.Fatal(err)
		}
	}
	if c := MustResource[counter](w); c.n != 1 {
		t.Fatalf("system observed its own writes as changed: counter %d, want 1", c.n)
	}

	// an external mark is still visible
	MarkChanged[counter](w)
	if err := w.RunSystemByID(id); err != nil {
		t.Fatal(err)
	}
	if c := MustResource[counter](w); c.n != 2 {
		t.Fatalf("external mark not observed: counter %d, want 2", c.n)
	}
}

func TestLocalStatePersistsByID(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{n: 1})

	// doubling: counter += last; last = counter
	id := w.RegisterSystem(func(w *World, state *SystemState) {
		last := Local[counter](state)
		c, _ := ResourceMut[counter](w)
		c.n += last.n
		last.n = c.n
	})

	want := []int{1, 2, 4, 8}
	for i, expect := range want {
		if err := w.RunSystemByID(id); err != nil {
			t.Fatal(err)
		}
		if c := MustResource[counter](w); c.n != expect {
			t.Fatalf("run %d: expected %d, got %d", i+1, expect, c.n)
		}
	}
}

func TestAdHocRunsShareNoState(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	fn := func(w *World, state *SystemState) {
		calls := Local[int](state)
		*calls++
		c, _ := ResourceMut[counter](w)
		c.n = *calls
	}

	w.RunSystem(fn)
	w.RunSystem(fn)
	if c := MustResource[counter](w); c.n != 1 {
		t.Fatalf("ad hoc runs leaked local state: counter %d", c.n)
	}
}

func TestDeferredCommandsApplyAfterRun(t *testing.T) {
	w := NewWorld()

	w.RunSystem(func(w *World, state *SystemState) {
		for i := 0; i < 7; i++ {
			state.Commands().Push(CommandFunc(func(w *World) {
				w.Spawn()
			}))
		}
		// commands must not have run yet
		if w.EntityCount() != 0 {
			t.Fatalf("commands applied during run: %d entities", w.EntityCount())
		}
	})

	if n := w.EntityCount(); n != 7 {
		t.Fatalf("expected 7 entities after flush, got %d", n)
	}
}

func TestDeferredCommandsFlushInOrder(t *testing.T) {
	w := NewWorld()
	var order []int

	w.RunSystem(func(w *World, state *SystemState) {
		for i := 1; i <= 3; i++ {
			i := i
			state.Commands().Push(CommandFunc(func(w *World) {
				order = append(order, i)
			}))
		}
	})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("commands out of order: %v", order)
	}
}

func TestSequentialRunsObserveEachOther(t *testing.T) {
	w := NewWorld()

	w.RunSystem(func(w *World, state *SystemState) {
		state.Commands().Push(CommandFunc(func(w *World) {
			InsertResource(w, &counter{n: 41})
		}))
	})

	// the deferred insert is visible before the next run starts
	w.RunSystem(func(w *World, _ *SystemState) {
		c, ok := Resource[counter](w)
		if !ok {
			t.Fatal("deferred insert not applied before next run")
		}
		c.n++
	})

	if c := MustResource[counter](w); c.n != 42 {
		t.Fatalf("expected 42, got %d", c.n)
	}
}

func TestRecursiveRunPanics(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on recursive one-shot run")
		}
		// the registry must be back in place after unwinding
		if _, ok := Resource[SystemRegistry](w); !ok {
			t.Fatal("registry not reattached after panic")
		}
	}()

	w.RunSystem(func(w *World, _ *SystemState) {
		w.RunSystem(countUp)
	})
}

func TestRegistryReattachedAfterRuns(t *testing.T) {
	w := NewWorld()
	InsertResource(w, &counter{})

	w.RunSystem(countUp)
	if _, ok := Resource[SystemRegistry](w); !ok {
		t.Fatal("registry missing after RunSystem")
	}

	if err := w.RunSystemByID(SystemID{id: 5}); err == nil {
		t.Fatal("expected unknown id error")
	}
	if _, ok := Resource[SystemRegistry](w); !ok {
		t.Fatal("registry missing after RunSystemByID error path")
	}

	id := w.RegisterSystem(countUp)
	if err := w.RunSystemByID(id); err != nil {
		t.Fatal(err)
	}
	if _, ok := Resource[SystemRegistry](w); !ok {
		t.Fatal("registry missing after RunSystemByID")
	}
}
