// Package main is a minimal terminal frontend over the inkline editing
// core: it renders the visible representation, maps keys to edit
// commands, and round-trips everything through the runtime.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkline/internal/config"
	"github.com/dshills/inkline/internal/doc"
	"github.com/dshills/inkline/internal/engine"
	"github.com/dshills/inkline/internal/extension"
	"github.com/dshills/inkline/internal/runtime"
	"github.com/dshills/inkline/internal/segment"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var showVersion bool
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("inkline %s\n", version)
		return 0
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	reg, closeExts, err := config.BuildRegistry(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeExts()

	var path string
	var source string
	if args := flag.Args(); len(args) > 0 {
		path = args[0]
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		source = string(data)
	}

	rt := runtime.New(reg)
	st := rt.CreateState(source, doc.Caret(0, doc.Backward))

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	ed := &editor{rt: rt, st: st, screen: screen, path: path}
	ed.loop()
	return 0
}

type editor struct {
	rt     *runtime.Runtime
	st     *runtime.State
	screen tcell.Screen
	path   string
	status string
}

func (e *editor) loop() {
	for {
		e.draw()
		ev := e.screen.PollEvent()
		switch tev := ev.(type) {
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventKey:
			if !e.handleKey(tev) {
				return
			}
		}
	}
}

func (e *editor) handleKey(ev *tcell.EventKey) bool {
	e.status = ""
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return false
	case tcell.KeyCtrlS:
		e.save()
	case tcell.KeyEnter:
		e.apply(extension.Command{Name: extension.CmdInsertLineBreak})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.apply(extension.Command{Name: extension.CmdDeleteBackward})
	case tcell.KeyDelete:
		e.apply(extension.Command{Name: extension.CmdDeleteForward})
	case tcell.KeyCtrlB:
		e.apply(extension.ToggleInline("**"))
	case tcell.KeyCtrlE:
		e.apply(extension.ToggleInline("*"))
	case tcell.KeyLeft:
		e.move(-1)
	case tcell.KeyRight:
		e.move(1)
	case tcell.KeyRune:
		e.apply(extension.Insert(string(ev.Rune())))
	}
	return true
}

func (e *editor) apply(cmd extension.Command) {
	ns, err := e.rt.ApplyEdit(e.st, cmd)
	if err != nil {
		e.status = err.Error()
		return
	}
	e.st = ns
}

func (e *editor) move(delta int) {
	sel := e.st.Selection()
	aff := doc.Backward
	if delta > 0 {
		aff = doc.Forward
	}
	next := doc.Caret(sel.Start+delta, aff)
	e.st = e.rt.UpdateSelection(e.st, next, runtime.SelectionKeyboard)
}

func (e *editor) save() {
	if e.path == "" {
		e.status = "no file to save to"
		return
	}
	if err := os.WriteFile(e.path, []byte(e.st.Source()), 0o644); err != nil {
		e.status = err.Error()
		return
	}
	e.status = "saved " + e.path
}

func (e *editor) draw() {
	e.screen.Clear()
	style := tcell.StyleDefault

	lines := engine.FlattenLines(e.st.Document())
	for y, ln := range lines {
		x := 0
		for _, cluster := range segment.Clusters(ln.Text) {
			if segment.IsPlaceholder(cluster) {
				e.screen.SetContent(x, y, '·', nil, style.Dim(true))
				x++
				continue
			}
			runes := []rune(cluster)
			e.screen.SetContent(x, y, runes[0], runes[1:], style)
			x++
		}
	}

	_, h := e.screen.Size()
	statusLine := e.status
	if statusLine == "" {
		sel := e.st.Selection()
		statusLine = fmt.Sprintf("%s  rev %.8s", sel, e.st.Revision())
	}
	for x, r := range []rune(statusLine) {
		e.screen.SetContent(x, h-1, r, nil, style.Reverse(true))
	}

	li, off := engine.Resolve(lines, e.st.Selection().Normalize().Start)
	e.screen.ShowCursor(off, li)
	e.screen.Show()
}
