// Package scenario loads YAML scenario files that seed the blackboard and
// declare which scripted systems run in which phase.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/krillworks/krill/internal/core/ecs"
	"github.com/krillworks/krill/internal/core/schedule"
	"github.com/krillworks/krill/internal/scripting"
)

// SystemEntry names one Lua function to register and schedule.
type SystemEntry struct {
	Name   string `yaml:"name"`
	Script string `yaml:"script"` // Lua global function name
	Phase  string `yaml:"phase"`  // first|update|post_update|persist|last
}

type Scenario struct {
	Name       string             `yaml:"name"`
	Ticks      int                `yaml:"ticks"` // 0 = no tick budget
	Blackboard map[string]float64 `yaml:"blackboard"`
	Systems    []SystemEntry      `yaml:"systems"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", sc.Ticks)
	}
	for i, e := range sc.Systems {
		if e.Script == "" {
			return fmt.Errorf("system %d (%s): script must not be empty", i, e.Name)
		}
		if _, err := parsePhase(e.Phase); err != nil {
			return fmt.Errorf("system %d (%s): %w", i, e.Name, err)
		}
	}
	return nil
}

func parsePhase(s string) (schedule.Phase, error) {
	switch s {
	case "", "update":
		return schedule.PhaseUpdate, nil
	case "first":
		return schedule.PhaseFirst, nil
	case "post_update":
		return schedule.PhasePostUpdate, nil
	case "persist":
		return schedule.PhasePersist, nil
	case "last":
		return schedule.PhaseLast, nil
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// Apply seeds the blackboard resource and registers every scripted system
// with the world, scheduling each under its declared phase.
func (sc *Scenario) Apply(w *ecs.World, eng *scripting.Engine, sched *schedule.Schedule) error {
	bb := scripting.NewBlackboard()
	for k, v := range sc.Blackboard {
		bb.Values[k] = v
	}
	ecs.InsertResource(w, bb)

	for _, e := range sc.Systems {
		phase, err := parsePhase(e.Phase)
		if err != nil {
			return fmt.Errorf("system %s: %w", e.Name, err)
		}
		if !eng.HasFunction(e.Script) {
			return fmt.Errorf("system %s: lua function %q not loaded", e.Name, e.Script)
		}
		id := w.RegisterSystem(eng.SystemFn(e.Script))
		sched.Add(phase, id)
	}
	return nil
}
