package shell

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	gluahttp "github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("gofai_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

func Set(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	r, err := sc.set(&shellcmd{
		cmd:  "set",
		args: strings.Split(lv, " "),
	})
	if err != nil {
		log.Err(err).Msg("error-executing-set")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func Load(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	args := []string{}
	if strings.TrimSpace(lv) != "" {
		args = strings.Split(lv, " ")
	}
	r, err := sc.load(&shellcmd{
		cmd:  "load",
		args: args,
	})
	if err != nil {
		log.Err(err).Msg("error-executing-load")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func Fill(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	cmd, err := extractFields(strings.TrimSpace("fill " + lv))
	if err != nil {
		log.Err(err).Msg("error-parsing-fill")
		return 0
	}
	r, err := sc.fill(cmd)
	if err != nil {
		log.Err(err).Msg("error-executing-fill")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	return 1
}

func Show(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.show(&shellcmd{
		cmd: "show",
	})
	if err != nil {
		log.Err(err).Msg("error-executing-show")
		return 0
	}
	L.Push(lua.LString(r.message))
	return 1
}

func Check(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	r, err := sc.check(&shellcmd{
		cmd:  "check",
		args: strings.Split(lv, " "),
	})
	if err != nil {
		log.Err(err).Msg("error-executing-check")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	scriptPath := cmd.args[0]
	if _, err := os.Stat(scriptPath); err != nil {
		// also look relative to the executable
		scriptPath = filepath.Join(sc.execPath, cmd.args[0])
	}

	L := lua.NewState()
	defer L.Close()

	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{}).Loader)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("gofai_shell", lsc)
	L.SetGlobal("gofai_set", L.NewFunction(Set))
	L.SetGlobal("gofai_load", L.NewFunction(Load))
	L.SetGlobal("gofai_fill", L.NewFunction(Fill))
	L.SetGlobal("gofai_show", L.NewFunction(Show))
	L.SetGlobal("gofai_check", L.NewFunction(Check))

	if err := L.DoFile(scriptPath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
