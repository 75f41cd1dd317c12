package vip

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/mko/chirp/chip8"
)

// guiScale is the prescale factor applied to the 64x32 cell grid before
// the window blit, so NearestNeighbor keeps the cells square and crisp at
// whatever size the window ends up.
const guiScale = 8

var (
	guiOn  = color.RGBA{R: 0xcc, G: 0xdd, B: 0xcc, A: 0xff}
	guiOff = color.RGBA{R: 0x11, G: 0x22, B: 0x11, A: 0xff}
)

func (r *Runner) runGUI() error {
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Title:  "chirp",
			Width:  chipWidth * guiScale,
			Height: chipHeight * guiScale,
		})
		if err != nil {
			log.Fatal(err)
		}
		defer w.Release()
		defer r.Stop()

		type update struct{}
		go func() {
			t := time.NewTicker(time.Second / frameRate)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-r.exit:
					w.Send(lifecycle.Event{To: lifecycle.StageDead})
					return
				}
			}
		}()

		g := &guiState{}
		defer g.release()
		if err := g.alloc(s); err != nil {
			log.Fatal(err)
		}

		var sz size.Event
		for {
			e := w.NextEvent()

			switch e := e.(type) {
			case update, paint.Event, key.Event, size.Event, lifecycle.Event:
			default:
				format := "got %#v\n"
				if _, ok := e.(fmt.Stringer); ok {
					format = "got %v\n"
				}
				log.Printf(format, e)
			}

			select {
			case <-r.exit:
				return
			default:
			}

			switch e := e.(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if e.Code == key.CodeEscape {
					return
				}
				if e.Direction == key.DirNone {
					break // key repeat
				}
				k, ok := padCode(e.Code)
				if !ok {
					k, ok = padRune(e.Rune)
				}
				if ok {
					r.key(KeyEvent{Key: k, Down: e.Direction == key.DirPress})
				}

			case update:
				select {
				case f := <-r.frames:
					g.apply(&f)
				default:
					// no frame ready
				}
				if g.dirty {
					g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
					w.Scale(letterbox(sz.Bounds()), g.tex, g.tex.Bounds(), draw.Src, nil)
					w.Publish()
					g.dirty = false
				}

			case error:
				log.Print(e)
			}
		}
	})
	return nil
}

const (
	chipWidth  = chip8.ScreenWidth
	chipHeight = chip8.ScreenHeight
)

type guiState struct {
	cells *image.RGBA // one pixel per display cell
	buf   screen.Buffer
	tex   screen.Texture
	dirty bool
	beep  bool
}

func (g *guiState) alloc(s screen.Screen) (err error) {
	pt := image.Point{chipWidth * guiScale, chipHeight * guiScale}
	g.cells = image.NewRGBA(image.Rect(0, 0, chipWidth, chipHeight))
	g.buf, err = s.NewBuffer(pt)
	if err != nil {
		return
	}
	g.tex, err = s.NewTexture(pt)
	return
}

// apply renders a published frame into the upload buffer and sounds the
// bell on a beep edge.
func (g *guiState) apply(f *frame) {
	if f.beep && !g.beep {
		os.Stdout.WriteString("\a")
	}
	g.beep = f.beep
	if !f.redraw {
		return
	}
	for i, p := range f.pix {
		c := guiOff
		if p != 0 {
			c = guiOn
		}
		g.cells.SetRGBA(i%chipWidth, i/chipWidth, c)
	}
	xdraw.NearestNeighbor.Scale(g.buf.RGBA(), g.buf.Bounds(), g.cells, g.cells.Bounds(), xdraw.Src, nil)
	g.dirty = true
}

func (g *guiState) release() {
	if g.tex != nil {
		g.tex.Release()
	}
	if g.buf != nil {
		g.buf.Release()
	}
}

// letterbox returns the largest 2:1 rectangle centered in the window.
func letterbox(win image.Rectangle) image.Rectangle {
	w, h := win.Dx(), win.Dy()
	if w > 2*h {
		w = 2 * h
	} else {
		h = w / 2
	}
	x := win.Min.X + (win.Dx()-w)/2
	y := win.Min.Y + (win.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}
