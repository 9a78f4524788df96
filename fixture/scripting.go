package fixture

// General lua scripting functions.

import (
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Pull a size out of the lua stack: either a number of bytes or a humanized
// string like "4MiB". Raises a script error if it isn't usable.
func luaCheckSize(L *lua.LState, n int) int {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		size := int(v)
		if _, err := WordWidth(size); err != nil {
			L.RaiseError("Bad size: %s", err)
		}
		return size
	case lua.LString:
		size, err := ParseSize(string(v))
		if err != nil {
			L.RaiseError("Bad size: %s", err)
		}
		return size
	default:
		L.RaiseError("Size must be a number or string, got %s", v.Type())
	}
	return 0
}

// Convert a fixture result into a lua table
func luaResultTable(L *lua.LState, result *FileResult) *lua.LTable {
	tbl := L.CreateTable(0, 6)
	tbl.RawSetString("name", lua.LString(result.Name))
	tbl.RawSetString("size", lua.LNumber(result.Size))
	tbl.RawSetString("width", lua.LNumber(result.Width))
	tbl.RawSetString("words", lua.LNumber(result.Words))
	tbl.RawSetString("padding", lua.LNumber(result.Padding))
	tbl.RawSetString("xxhash", lua.LString(result.XXHash))
	return tbl
}

// Width of the hex words for a fixture of the given size
func luaWidth(L *lua.LState) int {
	width, err := WordWidth(L.CheckInt(1))
	if err != nil {
		L.RaiseError("Couldn't derive width: %s", err)
		return 0
	}
	L.Push(lua.LNumber(width))
	return 1
}

// The complete content of a small fixture, as a string
func luaSmallContent(L *lua.LState) int {
	content, err := AppendSmall(nil, luaCheckSize(L, 1))
	if err != nil {
		L.RaiseError("Couldn't generate content: %s", err)
		return 0
	}
	L.Push(lua.LString(string(content)))
	return 1
}

// Simple function to decode a string into a lua table. Returns the table.
// Raises script error on any error.
func luaJson(L *lua.LState) int {
	str := L.ToString(1)
	var value interface{}
	err := json.Unmarshal([]byte(str), &value)
	if err != nil {
		L.RaiseError("Couldn't parse json: %s", err)
		return 0
	}
	L.Push(luaDecodeValue(L, value))
	log.Debugf("Decoded json to table in lua script")
	return 1
}

// Simple function to decode a toml string into a lua table. Returns the table.
func luaToml(L *lua.LState) int {
	str := L.ToString(1)
	tree, err := toml.Load(str)
	if err != nil {
		L.RaiseError("Couldn't parse toml: %s", err)
		return 0
	}
	L.Push(luaDecodeValue(L, tree.ToMap()))
	log.Debugf("Decoded toml to table in lua script")
	return 1
}

// DecodeValue converts the value to a Lua value.
// Taken from https://github.com/layeh/gopher-json
// Only converts what the json and toml decoders produce; everything else
// becomes lua.LNil.
func luaDecodeValue(L *lua.LState, value interface{}) lua.LValue {
	switch converted := value.(type) {
	case bool:
		return lua.LBool(converted)
	case float64:
		return lua.LNumber(converted)
	case int64: // NOTE: wasn't needed for json, needed for toml
		return lua.LNumber(converted)
	case string:
		return lua.LString(converted)
	case []interface{}:
		arr := L.CreateTable(len(converted), 0)
		for _, item := range converted {
			arr.Append(luaDecodeValue(L, item))
		}
		return arr
	case map[string]interface{}:
		tbl := L.CreateTable(0, len(converted))
		for key, item := range converted {
			tbl.RawSetH(lua.LString(key), luaDecodeValue(L, item))
		}
		return tbl
	case nil:
		return lua.LNil
	}

	return lua.LNil
}

// Get basic info about the entries in a directory on the script's
// filesystem, in name order
func luaListDir(L *lua.LState, state *ScriptState) int {
	path := state.FilePath(L.ToString(1))
	entries, err := afero.ReadDir(state.Fs, path)
	if err != nil {
		L.RaiseError("Couldn't read directory: %s", err)
		return 0
	}
	result := L.CreateTable(len(entries), 0)
	for _, entry := range entries {
		entrytable := L.CreateTable(0, 4)
		entrytable.RawSetString("name", lua.LString(entry.Name()))
		entrytable.RawSetString("path", lua.LString(filepath.Join(path, entry.Name())))
		entrytable.RawSetString("is_directory", lua.LBool(entry.IsDir()))
		entrytable.RawSetString("size", lua.LNumber(entry.Size()))
		result.Append(entrytable)
	}
	L.Push(result)
	return 1
}

func setBasicLuaFunctions(L *lua.LState) {
	L.SetGlobal("width", L.NewFunction(luaWidth))
	L.SetGlobal("small_content", L.NewFunction(luaSmallContent))
	L.SetGlobal("json", L.NewFunction(luaJson))
	L.SetGlobal("toml", L.NewFunction(luaToml))
}
