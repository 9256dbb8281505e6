package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for behavior scripts.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load behavior scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
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

// LoadString executes a chunk of Lua source directly. Used by tests and
// embedded defaults.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasFunc reports whether a global Lua function with the given name exists.
func (e *Engine) HasFunc(name string) bool {
	return e.vm.GetGlobal(name) != lua.LNil
}

// SteerContext holds pre-packed data for a behavior steering calculation.
type SteerContext struct {
	PosX, PosY float64
	VelX, VelY float64
	Dt         float64 // seconds
	Tick       int
}

// SteerResult is returned by a Lua steering function.
type SteerResult struct {
	AX float64
	AY float64
}

// CalcSteering calls the named Lua steering function with a context table
// and returns the acceleration to apply. A missing function or a script
// error yields zero acceleration.
func (e *Engine) CalcSteering(name string, ctx SteerContext) SteerResult {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua steering function not found", zap.String("name", name))
		return SteerResult{}
	}

	t := e.vm.NewTable()
	t.RawSetString("px", lua.LNumber(ctx.PosX))
	t.RawSetString("py", lua.LNumber(ctx.PosY))
	t.RawSetString("vx", lua.LNumber(ctx.VelX))
	t.RawSetString("vy", lua.LNumber(ctx.VelY))
	t.RawSetString("dt", lua.LNumber(ctx.Dt))
	t.RawSetString("tick", lua.LNumber(ctx.Tick))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua steering error", zap.String("func", name), zap.Error(err))
		return SteerResult{}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua steering function returned non-table", zap.String("func", name))
		return SteerResult{}
	}

	return SteerResult{
		AX: lFloat(rt, "ax"),
		AY: lFloat(rt, "ay"),
	}
}

// --- Lua helpers ---

// lFloat reads a number field from a Lua table.
func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
