package fixture

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"
)

// General tracking for an entire fixture script
type ScriptState struct {
	Context       context.Context
	Fs            afero.Fs
	FileDirectory string
	Arguments     []string
	Logs          strings.Builder
	Results       []*FileResult
}

// Get full path to given file requested by user. The system has a way to set
// the "working directory" for the whole script, that's all
func (state *ScriptState) FilePath(path string) string {
	if state.FileDirectory == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(state.FileDirectory, path)
}

// Add a function to the given lua state that actually tracks with our own state.
// Usually lua functions don't accept extra go parameters
func (state *ScriptState) AddFunction(name string, f func(*lua.LState, *ScriptState) int, L *lua.LState) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int { return f(L, state) }))
}

// Return all script arguments as separate values
func luaArguments(L *lua.LState, state *ScriptState) int {
	for _, arg := range state.Arguments {
		L.Push(lua.LString(arg))
	}
	return len(state.Arguments)
}

// Like print, but captured so the caller gets it back
func luaLog(L *lua.LState, state *ScriptState) int {
	top := L.GetTop()
	for i := 1; i <= top; i++ {
		if i > 1 {
			state.Logs.WriteByte('\t')
		}
		state.Logs.WriteString(lua.LVAsString(L.ToStringMeta(L.Get(i))))
	}
	state.Logs.WriteByte('\n')
	return 0
}

// large(size, path): stream a large fixture to path, returns the result table
func luaLarge(L *lua.LState, state *ScriptState) int {
	size := luaCheckSize(L, 1)
	path := state.FilePath(L.CheckString(2))
	result, err := WriteLargeFile(state.Fs, path, size)
	if err != nil {
		L.RaiseError("Couldn't write large fixture %s: %s", path, err)
		return 0
	}
	log.Infof("Wrote large fixture %s (%s) from lua script", path, humanize.IBytes(uint64(result.Size)))
	state.Results = append(state.Results, result)
	L.Push(luaResultTable(L, result))
	return 1
}

// small(n, dir): write a full small set, returns a table of result tables
func luaSmall(L *lua.LState, state *ScriptState) int {
	n := L.CheckInt(1)
	dir := state.FilePath(L.OptString(2, ""))
	jobs := L.OptInt(3, 1)
	set, err := WriteSmallSet(state.Context, state.Fs, dir, n, SmallSetOptions{Jobs: jobs})
	if err != nil {
		L.RaiseError("Couldn't write small fixtures to '%s': %s", dir, err)
		return 0
	}
	log.Infof("Wrote %d small fixtures to '%s' from lua script", len(set), dir)
	tbl := L.CreateTable(len(set), 0)
	for _, r := range set {
		tbl.Append(luaResultTable(L, r))
	}
	state.Results = append(state.Results, set...)
	L.Push(tbl)
	return 1
}

// verify(n, dir): returns true, or false plus the reason
func luaVerify(L *lua.LState, state *ScriptState) int {
	n := L.CheckInt(1)
	dir := state.FilePath(L.OptString(2, ""))
	_, err := VerifySmallSet(state.Context, state.Fs, dir, n)
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// Run a lua fixture script. Files are created on fs relative to dir (if
// given). Returns everything the script logged plus results for every
// fixture it wrote.
func RunLuaFixtureScript(ctx context.Context, script string, arguments []string, fs afero.Fs, dir string) (string, []*FileResult, error) {
	state := ScriptState{
		Context:       ctx,
		Fs:            fs,
		FileDirectory: dir,
		Arguments:     arguments,
		Results:       make([]*FileResult, 0),
	}

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	setBasicLuaFunctions(L)
	state.AddFunction("arguments", luaArguments, L)
	state.AddFunction("log", luaLog, L)
	state.AddFunction("large", luaLarge, L)
	state.AddFunction("small", luaSmall, L)
	state.AddFunction("verify", luaVerify, L)
	state.AddFunction("listdir", luaListDir, L)

	err := L.DoString(script)
	if err != nil {
		return state.Logs.String(), state.Results, err
	}

	return state.Logs.String(), state.Results, nil
}
