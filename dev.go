package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/mko/chirp/chip8"
	"github.com/mko/chirp/vip"
)

// devMode runs imageFile under a file watcher, swapping in a fresh machine
// whenever the image is rewritten. With the debugger enabled the terminal
// belongs to the debug view, so the GUI front end is forced on unless -cli
// was given, in which case the machine runs headless.
func devMode(gui, debugger bool, ipf int, imageFile string) error {
	imageFile = filepath.Clean(imageFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(imageFile)); err != nil {
		return err
	}

	var (
		debug  *debugView
		state  vip.StateFunc
		runner *vip.Runner
	)
	if debugger {
		debug = newDebugView()
		state = debug.StateFunc
	}
	runner = vip.NewRunner(gui, true, state)
	if ipf > 0 {
		runner.IPF = ipf
	}
	if debugger {
		debug.r = runner
		log.SetPrefix("")
		log.SetOutput(debug.log)
		go func() {
			if err := debug.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("chirp: ")
			runner.Debug("exit", 0)
		}()
	}

	imageCh := make(chan []byte)
	go func() {
		started := false
		load := time.After(1 * time.Millisecond)
		for {
			select {
			case <-load:
				log.Printf("dev: load %s", filepath.Base(imageFile))
				image, err := chip8.ReadImage(imageFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if !started {
					log.Printf("dev: start")
					imageCh <- image
					started = true
				} else {
					log.Printf("dev: reset")
					runner.Swap(image)
				}
			case ev := <-watcher.Event:
				if ev.Name == imageFile && !ev.IsAttrib() {
					load = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()
	return runner.Run(<-imageCh)
}
