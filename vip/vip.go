// Package vip emulates the console around the CHIP-8 interpreter, in the
// manner of the COSMAC VIP it originally ran on: a 60Hz frame clock, the
// hex keypad, display front ends, and a debug protocol.
package vip

import (
	"log"
	"sync"
	"time"

	"github.com/mko/chirp/chip8"
)

const frameRate = 60

// DefaultIPF is the default number of instructions executed per 60Hz
// frame. Screen-mutating instructions end a frame early, which paces
// programs that draw continuously the way the original interpreter did.
const DefaultIPF = 11

// StateKind describes why the machine state is being reported to a
// debugger.
type StateKind int

const (
	ClearState StateKind = iota
	QuietState
	DebugState
	BreakState
	PauseState
	HaltState
)

// StateFunc receives the machine and the reason for the report. It is
// called from the machine loop, which is paused for the duration of the
// call; implementations must not retain the machine pointer.
type StateFunc func(*chip8.Machine, StateKind)

// KeyEvent is one keypad transition reported by a front end.
type KeyEvent struct {
	Key  byte
	Down bool
}

// frame is a display snapshot published to the front end once per 60Hz
// frame.
type frame struct {
	pix    [chip8.ScreenWidth * chip8.ScreenHeight]byte
	redraw bool
	beep   bool
}

// Runner drives one CHIP-8 session: it owns the machine loop and the
// front end, and accepts live image swaps and debug commands while
// running.
type Runner struct {
	gui   bool
	dev   bool
	state StateFunc

	// IPF is the instruction budget per frame. Set it before Run.
	IPF int

	frames   chan frame
	keys     chan KeyEvent
	swap     chan []byte
	debug    chan command
	exit     chan struct{}
	stopOnce sync.Once
}

type command struct {
	name string
	addr int
}

func NewRunner(enableGUI, devMode bool, state StateFunc) *Runner {
	return &Runner{
		gui:    enableGUI,
		dev:    devMode,
		state:  state,
		IPF:    DefaultIPF,
		frames: make(chan frame, 1),
		keys:   make(chan KeyEvent, 64),
		swap:   make(chan []byte),
		debug:  make(chan command),
		exit:   make(chan struct{}),
	}
}

// Run executes the given program image until the session ends: the front
// end is closed, the machine halts (outside dev mode), or a debugger
// issues exit. It blocks, and must be called from the main goroutine when
// the GUI is enabled.
func (r *Runner) Run(image []byte) error {
	m := chip8.New()
	if err := m.Load(image); err != nil {
		return err
	}
	go r.machineLoop(m, image)

	switch {
	case r.gui:
		return r.runGUI()
	case r.dev:
		// The debugger owns the terminal; nothing to present.
		<-r.exit
		return nil
	default:
		return r.runTerm()
	}
}

// Swap replaces the running session with a fresh machine loaded with
// image. Only meaningful in dev mode.
func (r *Runner) Swap(image []byte) {
	if !r.dev {
		panic("Swap called while not running in dev mode")
	}
	select {
	case r.swap <- image:
	case <-r.exit:
	}
}

// Debug delivers a debugger command to the machine loop. Recognized names
// are "pause", "cont", "step", "break" (addr is the breakpoint, -1
// clears), "reset", and "exit"; single-letter aliases are accepted.
func (r *Runner) Debug(cmd string, addr int) {
	select {
	case r.debug <- command{name: cmd, addr: addr}:
	case <-r.exit:
	}
}

// Stop ends the session. Safe to call more than once, from any goroutine.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.exit) })
}

// key reports a keypad transition from a front end. Drops events rather
// than blocking the front end's event loop.
func (r *Runner) key(ev KeyEvent) {
	select {
	case r.keys <- ev:
	default:
	}
}

// publish makes f the frame the front end will see next, displacing an
// unconsumed older one. It reports whether the previous frame had been
// consumed, meaning its redraw (folded into the dirty flag by the caller)
// was actually painted.
func (r *Runner) publish(f frame) bool {
	select {
	case r.frames <- f:
		return true
	default:
	}
	select {
	case <-r.frames:
	default:
	}
	select {
	case r.frames <- f:
	default:
	}
	return false
}

func (r *Runner) machineLoop(m *chip8.Machine, image []byte) {
	t := time.NewTicker(time.Second / frameRate)
	defer t.Stop()

	notify := func(k StateKind) {
		if r.state != nil {
			r.state(m, k)
		}
	}

	var (
		paused  bool
		faulted bool
		brk     = -1
		dirty   = true
		nframe  int
	)
	for {
		select {
		case <-r.exit:
			return

		case image = <-r.swap:
			m.Reset()
			if err := m.Load(image); err != nil {
				log.Printf("load: %v", err)
				break
			}
			paused, faulted, dirty = false, false, true
			notify(ClearState)

		case ev := <-r.keys:
			if ev.Down {
				m.KeyDown(ev.Key)
			} else {
				m.KeyUp(ev.Key)
			}

		case c := <-r.debug:
			switch c.name {
			case "pause", "p":
				paused = true
				notify(PauseState)
			case "cont", "c":
				paused = false
				notify(ClearState)
			case "step", "s":
				if paused && m.Running() {
					m.Step()
					notify(DebugState)
				}
			case "break", "b":
				brk = c.addr
				notify(QuietState)
			case "reset", "r":
				m.Reset()
				if err := m.Load(image); err != nil {
					log.Printf("load: %v", err)
					break
				}
				paused, faulted, dirty = false, false, true
				notify(ClearState)
			case "exit":
				r.Stop()
				return
			}

		case <-t.C:
			if !m.Running() {
				if !faulted {
					faulted = true
					log.Printf("chip8: %v", m.Err())
					notify(HaltState)
					if !r.dev {
						r.Stop()
						return
					}
				}
				continue
			}
			if paused {
				continue
			}
			for i := 0; i < r.IPF; i++ {
				if brk >= 0 && int(m.PC) == brk {
					paused = true
					notify(BreakState)
					break
				}
				m.Step()
				if !m.Running() || m.FrameDone() {
					break
				}
			}
			sounding := m.Tick()
			dirty = dirty || m.Redraw()
			if r.publish(frame{pix: m.Pixels(), redraw: dirty, beep: sounding}) {
				dirty = false
			}
			if nframe++; r.dev && nframe%6 == 0 && !paused {
				notify(QuietState)
			}
		}
	}
}
