package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/krillworks/krill/internal/core/ecs"
)

// Blackboard is the named numeric state scripted systems read and write,
// stored as a world resource.
type Blackboard struct {
	Values map[string]float64
}

func NewBlackboard() *Blackboard {
	return &Blackboard{Values: make(map[string]float64, 16)}
}

// Engine wraps a single gopher-lua VM. Single-goroutine access only (the
// simulation loop); all calls are protected, a failing script logs and leaves
// the blackboard untouched.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file from scriptsDir.
// A missing directory is not an error; an empty engine is still usable with
// LoadString.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString executes a chunk of Lua source, typically to define functions.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function with the given name exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// SystemFn adapts the named global Lua function into a one-shot system
// callable. The function receives the blackboard as a table; if it returns a
// table, those entries are written back and the blackboard is marked changed.
// A nil return writes nothing and leaves the change state alone.
func (e *Engine) SystemFn(name string) ecs.SystemFn {
	return func(w *ecs.World, _ *ecs.SystemState) {
		bb, ok := ecs.Resource[Blackboard](w)
		if !ok {
			e.log.Error("blackboard resource missing", zap.String("fn", name))
			return
		}

		fn := e.vm.GetGlobal(name)
		if fn == lua.LNil {
			e.log.Error("lua function not found", zap.String("fn", name))
			return
		}

		t := e.vm.NewTable()
		for k, v := range bb.Values {
			t.RawSetString(k, lua.LNumber(v))
		}

		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, t); err != nil {
			e.log.Error("lua system error", zap.String("fn", name), zap.Error(err))
			return
		}

		ret := e.vm.Get(-1)
		e.vm.Pop(1)

		rt, ok := ret.(*lua.LTable)
		if !ok {
			return // nil return means no writes
		}
		wrote := false
		rt.ForEach(func(k, v lua.LValue) {
			key, ok := k.(lua.LString)
			if !ok {
				e.log.Warn("lua system returned non-string key", zap.String("fn", name))
				return
			}
			bb.Values[string(key)] = float64(lua.LVAsNumber(v))
			wrote = true
		})
		if wrote {
			ecs.MarkChanged[Blackboard](w)
		}
	}
}
