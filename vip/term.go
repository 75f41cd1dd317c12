package vip

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// keyHold is how long a terminal key press stays down. Terminals report
// presses only, so the release edge that the interpreter's key wait needs
// is synthesized on a timer.
const keyHold = 100 * time.Millisecond

func (r *Runner) runTerm() error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	defer r.Stop()
	s.HideCursor()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-r.exit:
				return
			}
		}
	}()

	var (
		hold    [16]*time.Timer
		style   = tcell.StyleDefault
		beeping bool
	)
	press := func(k byte) {
		r.key(KeyEvent{Key: k, Down: true})
		if t := hold[k]; t != nil {
			t.Reset(keyHold)
			return
		}
		hold[k] = time.AfterFunc(keyHold, func() {
			r.key(KeyEvent{Key: k, Down: false})
		})
	}
	defer func() {
		for _, t := range hold {
			if t != nil {
				t.Stop()
			}
		}
	}()

	for {
		select {
		case <-r.exit:
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return nil
				case tcell.KeyRune:
					if k, ok := padRune(ev.Rune()); ok {
						press(k)
					}
				}
			}

		case f := <-r.frames:
			if f.beep && !beeping {
				s.Beep()
			}
			beeping = f.beep
			if !f.redraw {
				break
			}
			drawTerm(s, &f, style)
			s.Show()
		}
	}
}

// drawTerm renders the display two rows per terminal cell using half-block
// runes, keeping the picture near square on common terminal fonts.
func drawTerm(s tcell.Screen, f *frame, style tcell.Style) {
	for y := 0; y < chipHeight; y += 2 {
		for x := 0; x < chipWidth; x++ {
			top := f.pix[y*chipWidth+x] != 0
			bot := f.pix[(y+1)*chipWidth+x] != 0
			var c rune
			switch {
			case top && bot:
				c = '█'
			case top:
				c = '▀'
			case bot:
				c = '▄'
			default:
				c = ' '
			}
			s.SetContent(x, y/2, c, nil, style)
		}
	}
}
