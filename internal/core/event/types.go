package event

import "github.com/krillworks/krill/internal/core/ecs"

// TickStarted is emitted by the first-phase system at the top of every tick.
type TickStarted struct {
	Number int
	Tick   ecs.Tick
}

// SnapshotSaved is emitted after a world snapshot is written to storage.
type SnapshotSaved struct {
	Tick     ecs.Tick
	Entities int
}
