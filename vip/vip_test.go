package vip

import (
	"image"
	"testing"

	"golang.org/x/mobile/event/key"
)

func TestPadRune(t *testing.T) {
	for _, c := range []struct {
		r    rune
		k    byte
		ok   bool
		name string
	}{
		{'1', 0x1, true, "digit"},
		{'v', 0xF, true, "corner"},
		{'X', 0x0, true, "upper case folds"},
		{'g', 0, false, "off the pad"},
		{'5', 0, false, "digit row ends at 4"},
	} {
		k, ok := padRune(c.r)
		if k != c.k || ok != c.ok {
			t.Errorf("%s: padRune(%q) = %x, %v, want %x, %v", c.name, c.r, k, ok, c.k, c.ok)
		}
	}
}

func TestPadCode(t *testing.T) {
	if k, ok := padCode(key.CodeW); !ok || k != 0x5 {
		t.Errorf("padCode(W) = %x, %v, want 5, true", k, ok)
	}
	if _, ok := padCode(key.CodeTab); ok {
		t.Error("padCode(Tab) mapped")
	}
}

func TestLetterbox(t *testing.T) {
	for _, c := range []struct {
		win, want image.Rectangle
	}{
		// Exact fit.
		{image.Rect(0, 0, 128, 64), image.Rect(0, 0, 128, 64)},
		// Too wide: pillarboxed, centered.
		{image.Rect(0, 0, 200, 64), image.Rect(36, 0, 164, 64)},
		// Too tall: letterboxed, centered.
		{image.Rect(0, 0, 128, 100), image.Rect(0, 18, 128, 82)},
		// Offset origin is preserved.
		{image.Rect(10, 10, 138, 74), image.Rect(10, 10, 138, 74)},
	} {
		if got := letterbox(c.win); got != c.want {
			t.Errorf("letterbox(%v) = %v, want %v", c.win, got, c.want)
		}
	}
}

func TestPublishLatestWins(t *testing.T) {
	r := NewRunner(false, false, nil)

	var f frame
	f.pix[0] = 1
	if !r.publish(f) {
		t.Error("publish into an empty channel reported a displaced frame")
	}

	f.pix[0] = 2
	if r.publish(f) {
		t.Error("publish over an unconsumed frame reported it consumed")
	}

	got := <-r.frames
	if got.pix[0] != 2 {
		t.Errorf("front end saw frame %d, want the latest (2)", got.pix[0])
	}
}

func TestKeyDropsWhenFull(t *testing.T) {
	r := NewRunner(false, false, nil)
	for i := 0; i < cap(r.keys)+10; i++ {
		r.key(KeyEvent{Key: 1, Down: true}) // must not block
	}
	if len(r.keys) != cap(r.keys) {
		t.Errorf("queued %d events, want %d", len(r.keys), cap(r.keys))
	}
}
