package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mko/chirp/chip8"
	"github.com/mko/chirp/vip"
)

type debugView struct {
	r *vip.Runner

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	brk int // breakpoint address, -1 when clear

	mu      sync.Mutex
	watches []watch
}

// watch is one watched memory address; short watches show one byte, the
// others a 16-bit word.
type watch struct {
	addr  uint16
	short bool
}

func newDebugView() *debugView {
	d := &debugView{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
		brk: -1,
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 3, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		if cmd == "exit" {
			d.app.Stop()
			return
		}
		if cmd, arg, ok := strings.Cut(cmd, " "); ok {
			addr, err := parseAddr(arg)
			if err != nil {
				log.Printf("invalid addr %q", arg)
				return
			}
			switch cmd {
			case "b", "break":
				d.brk = int(addr)
				d.r.Debug("break", int(addr))
				log.Printf("set break %.4x", addr)
				return
			case "w", "w2", "watch", "watch2":
				d.mu.Lock()
				d.watches = append(d.watches,
					watch{addr: addr, short: !strings.HasSuffix(cmd, "2")})
				d.mu.Unlock()
				log.Printf("watching %.4x", addr)
				return
			default:
				log.Printf("unknown command %q", cmd)
				return
			}
		}
		switch cmd {
		case "b", "break":
			d.brk = -1
			d.r.Debug("break", -1)
			log.Print("cleared break")
		case "w", "watch":
			d.mu.Lock()
			d.watches = nil
			d.mu.Unlock()
			log.Print("cleared watches")
		case "p", "pause", "c", "cont", "s", "step", "r", "reset":
			d.r.Debug(cmd, 0)
		default:
			log.Printf("unknown command %q", cmd)
		}
	})
	return d
}

func parseAddr(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 12)
	return uint16(v), err
}

func (d *debugView) Run() error { return d.app.Run() }

func (d *debugView) StateFunc(m *chip8.Machine, k vip.StateKind) {
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != vip.ClearState && k != vip.QuietState {
		state = stateMsg(m, k)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case vip.DebugState, vip.ClearState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case vip.BreakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case vip.PauseState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case vip.HaltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		if k != vip.QuietState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(m *chip8.Machine, k vip.StateKind) string {
	op := uint16(m.Mem[m.PC&0xFFF])<<8 | uint16(m.Mem[(m.PC+1)&0xFFF])
	kind := "       "
	switch k {
	case vip.BreakState:
		kind = "[break]"
	case vip.DebugState:
		kind = "[debug]"
	case vip.PauseState:
		kind = "[pause]"
	case vip.HaltState:
		kind = "[HALT!]"
	}
	var regs strings.Builder
	for i, v := range m.V {
		if i != 0 {
			regs.WriteByte(' ')
		}
		fmt.Fprintf(&regs, "%.2x", v)
	}
	return fmt.Sprintf("%.4x %-14s %s\nv0-vf: %s\ni: %.4x  sp: %.2x  dt: %.2x  st: %.2x\n",
		m.PC, disasm(op), kind, regs.String(), m.I, m.SP, m.Delay, m.Sound)
}

func (d *debugView) watchContent(m *chip8.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if d.brk >= 0 {
		fmt.Fprintf(&b, "[%.4x] brk!\n", d.brk)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%.4x] ", w.addr)
		if w.short {
			fmt.Fprintf(&b, "  %.2x", m.Mem[w.addr&0xFFF])
		} else {
			fmt.Fprintf(&b, "%.2x%.2x", m.Mem[w.addr&0xFFF], m.Mem[(w.addr+1)&0xFFF])
		}
	}
	return b.String()
}
