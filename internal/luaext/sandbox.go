package luaext

import (
	lua "github.com/yuin/gopher-lua"
)

// sandbox strips the Lua state down to pure computation. Scripted rules
// transform text; they get string/table/math and nothing that reaches
// the filesystem, the process, or arbitrary code loading.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"print",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("io", lua.LNil)
	L.SetGlobal("os", lua.LNil)

	// Clearing the search paths keeps require from touching disk; only
	// the built-in safe modules stay loadable.
	pkg, ok := L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}
	L.SetField(pkg, "path", lua.LString(""))
	L.SetField(pkg, "cpath", lua.LString(""))

	safe := map[string]bool{"string": true, "table": true, "math": true, "utf8": true}
	origRequire := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safe[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(origRequire)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}
